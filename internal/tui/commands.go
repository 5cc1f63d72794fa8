package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/defect-reporter/internal/screen"
)

type command struct {
	name string
	args string
	help string
	run  func(ctx context.Context, scr *screen.Screen, arg string) error
}

var commands = []command{
	{name: "titulo", args: "<texto>", help: "Título do problema", run: setField((*screen.Screen).SetTitulo)},
	{name: "laboratorio", args: "<texto>", help: "Nome do local", run: setField((*screen.Screen).SetLaboratorio)},
	{name: "local", args: "<texto>", help: "Local exato", run: setField((*screen.Screen).SetLocal)},
	{name: "descricao", args: "<texto>", help: "Descrição do problema", run: setField((*screen.Screen).SetDescricao)},
	{name: "foto", help: "Tirar foto", run: func(ctx context.Context, scr *screen.Screen, _ string) error {
		return scr.CapturePhoto(ctx)
	}},
	{name: "gps", help: "Anexar coordenadas ao local", run: func(ctx context.Context, scr *screen.Screen, _ string) error {
		return scr.CaptureLocation(ctx)
	}},
	{name: "salvar", help: "Enviar o reporte", run: func(ctx context.Context, scr *screen.Screen, _ string) error {
		_, err := scr.Submit(ctx)
		return err
	}},
	{name: "recarregar", help: "Buscar o histórico novamente", run: func(ctx context.Context, scr *screen.Screen, _ string) error {
		return scr.Load(ctx)
	}},
	{name: "limpar", help: "Limpar o formulário", run: func(_ context.Context, scr *screen.Screen, _ string) error {
		scr.ClearForm()
		return nil
	}},
}

func setField(set func(*screen.Screen, string)) func(context.Context, *screen.Screen, string) error {
	return func(_ context.Context, scr *screen.Screen, arg string) error {
		set(scr, arg)
		return nil
	}
}

// dispatch runs one input line and reports whether the session should end.
func (s *Session) dispatch(ctx context.Context, scr *screen.Screen, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case "sair":
		return true, nil
	case "ajuda":
		s.printHelp()
		return false, nil
	case "ver":
		s.render(scr.Snapshot())
		return false, nil
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(ctx, scr, arg)
		s.render(scr.Snapshot())
		return false, err
	}

	fmt.Fprintf(s.out, "comando desconhecido %q (digite ajuda)\n", name)
	return false, nil
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "\nComandos:")
	for _, c := range commands {
		usage := strings.TrimSpace(c.name + " " + c.args)
		fmt.Fprintf(s.out, "  %-24s %s\n", usage, c.help)
	}
	fmt.Fprintf(s.out, "  %-24s %s\n", "ver", "Mostrar a tela")
	fmt.Fprintf(s.out, "  %-24s %s\n", "ajuda", "Mostrar os comandos")
	fmt.Fprintf(s.out, "  %-24s %s\n", "sair", "Encerrar")
}
