// Package screen models the defect report screen: the form fields, the captured
// photo and location, the report list, and the operations that mutate them.
package screen

import (
	"errors"
	"time"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/Adda-Baaj/defect-reporter/internal/logger"
	"github.com/Adda-Baaj/defect-reporter/pkg/device"
)

var (
	ErrMissingFields    = errors.New("title, site and lab are required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrBusy             = errors.New("a submission is already in progress")
)

// Alert texts shown to the user.
const (
	titlePermissionDenied = "Permissão negada"
	titleError            = "Erro"
	titleEmptyFields      = "Campos vazios"
	titleSuccess          = "Sucesso"

	msgCameraDenied   = "Precisamos acesso à câmera."
	msgCameraFailed   = "Não foi possível usar a câmera."
	msgLocationDenied = "Precisamos de acesso à localização."
	msgLocationFailed = "Não foi possível pegar o GPS."
	msgEmptyFields    = "Preencha Título, Local e Laboratório."
	msgSaveFailed     = "Não foi possível salvar."
	msgSaved          = "Registro salvo!"
)

// Form holds the editable fields.
type Form struct {
	Titulo      string
	Descricao   string
	Local       string
	Laboratorio string
	Foto        *string
	Location    *domain.Coordinates
}

// State is a point-in-time copy of everything the screen renders.
type State struct {
	Form       Form
	Defects    []domain.Defect
	Loading    bool
	GPSLoading bool
}

func (s State) HasPhoto() bool    { return s.Form.Foto != nil }
func (s State) HasLocation() bool { return s.Form.Location != nil }

// Screen owns the form and list state. It is driven by a single goroutine.
type Screen struct {
	api      ReportsAPI
	camera   device.Camera
	locator  device.Locator
	alerts   Alerter
	notifier Notifier
	log      logger.Logger

	notifyTimeout time.Duration

	form       Form
	defects    []domain.Defect
	loading    bool
	gpsLoading bool
}

// Options carries the collaborators of a Screen. API and Alerts are required.
type Options struct {
	API      ReportsAPI
	Camera   device.Camera
	Locator  device.Locator
	Alerts   Alerter
	Notifier Notifier
	Log      logger.Logger

	// NotifyTimeout bounds each submission notification. Zero means
	// DefaultNotifyTimeout.
	NotifyTimeout time.Duration
}

// DefaultNotifyTimeout matches the reports API timeout.
const DefaultNotifyTimeout = 10 * time.Second

// New builds an empty screen.
func New(opts Options) (*Screen, error) {
	if opts.API == nil {
		return nil, errors.New("reports api must not be nil")
	}
	if opts.Alerts == nil {
		return nil, errors.New("alerter must not be nil")
	}
	if opts.Log == nil {
		opts.Log = &logger.NopLogger{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	return &Screen{
		api:      opts.API,
		camera:   opts.Camera,
		locator:  opts.Locator,
		alerts:   opts.Alerts,
		notifier: opts.Notifier,
		log:      opts.Log,
		defects:  []domain.Defect{},

		notifyTimeout: opts.NotifyTimeout,
	}, nil
}

func (s *Screen) SetTitulo(v string)      { s.form.Titulo = v }
func (s *Screen) SetDescricao(v string)   { s.form.Descricao = v }
func (s *Screen) SetLocal(v string)       { s.form.Local = v }
func (s *Screen) SetLaboratorio(v string) { s.form.Laboratorio = v }

// ClearForm resets every field, the photo and the captured location.
func (s *Screen) ClearForm() { s.form = Form{} }

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() State {
	form := s.form
	if form.Foto != nil {
		foto := *form.Foto
		form.Foto = &foto
	}
	if form.Location != nil {
		loc := *form.Location
		form.Location = &loc
	}
	defects := make([]domain.Defect, len(s.defects))
	copy(defects, s.defects)
	return State{
		Form:       form,
		Defects:    defects,
		Loading:    s.loading,
		GPSLoading: s.gpsLoading,
	}
}
