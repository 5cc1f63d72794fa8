package tui

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/Adda-Baaj/defect-reporter/internal/screen"
)

func (s *Session) render(st screen.State) {
	var b strings.Builder

	b.WriteString("\nSisManutenção\n")
	s.section(&b, "Novo Reporte")
	field(&b, "Título do Problema", st.Form.Titulo)
	field(&b, "Nome do Local", st.Form.Laboratorio)
	field(&b, "Local exato", st.Form.Local)
	field(&b, "Descrição", st.Form.Descricao)

	camera := "Câmera"
	if st.HasPhoto() {
		camera = "📸 Foto OK"
	}
	gps := "📍"
	switch {
	case st.GPSLoading:
		gps = "📍 ..."
	case st.HasLocation():
		gps = "📍 OK"
	}
	save := "Salvar"
	if st.Loading {
		save = "Salvando..."
	}
	fmt.Fprintf(&b, "[%s]  [%s]  [%s]\n", camera, gps, save)

	s.section(&b, "Histórico Recente")
	if len(st.Defects) == 0 {
		b.WriteString("(nenhum registro)\n")
	}
	for _, d := range st.Defects {
		card(&b, d)
	}

	fmt.Fprint(s.out, b.String())
}

func (s *Session) section(b *strings.Builder, title string) {
	line := "── " + title + " "
	if pad := s.width - len([]rune(line)); pad > 0 {
		line += strings.Repeat("─", pad)
	}
	b.WriteString(line + "\n")
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-20s %s\n", label+":", value)
}

func card(b *strings.Builder, d domain.Defect) {
	fmt.Fprintf(b, "• %s  [%s]\n", d.Titulo, d.Laboratorio)
	fmt.Fprintf(b, "  📍 %s\n", d.Local)
	if d.Descricao != "" {
		fmt.Fprintf(b, "  %s\n", d.Descricao)
	}
	if d.HasPhoto() {
		b.WriteString("  [foto]\n")
	}
}
