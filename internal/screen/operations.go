package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
)

// Load replaces the list with the server's reports. Failures are logged only and
// leave the list as it was.
func (s *Screen) Load(ctx context.Context) error {
	defects, err := s.api.List(ctx)
	if err != nil {
		s.log.WarnObj("load reports failed", "load_error", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("load reports: %w", err)
	}
	s.defects = defects
	s.log.InfoObj("reports loaded", "reports_meta", map[string]any{
		"count": len(defects),
	})
	return nil
}

// CapturePhoto asks for camera permission and stores a non-cancelled shot as a
// JPEG data URI.
func (s *Screen) CapturePhoto(ctx context.Context) error {
	if s.camera == nil {
		s.alerts.Alert(titleError, msgCameraFailed)
		return errors.New("no camera configured")
	}

	status, err := s.camera.RequestPermission(ctx)
	if err != nil {
		s.log.WarnObj("camera permission request failed", "error", err.Error())
	}
	if !status.Granted() {
		s.alerts.Alert(titlePermissionDenied, msgCameraDenied)
		return fmt.Errorf("camera: %w", ErrPermissionDenied)
	}

	shot, err := s.camera.Capture(ctx)
	if err != nil {
		s.log.ErrorObj("camera capture failed", "error", err.Error())
		s.alerts.Alert(titleError, msgCameraFailed)
		return fmt.Errorf("capture photo: %w", err)
	}
	if shot.Canceled || shot.Base64 == "" {
		return nil
	}

	foto := domain.PhotoDataURI(shot.Base64)
	s.form.Foto = &foto
	s.log.DebugObj("photo captured", "photo_meta", map[string]any{
		"base64_bytes": len(shot.Base64),
	})
	return nil
}

// CaptureLocation asks for location permission, keeps the raw fix and appends the
// formatted coordinates to the site text.
func (s *Screen) CaptureLocation(ctx context.Context) error {
	s.gpsLoading = true
	defer func() { s.gpsLoading = false }()

	if s.locator == nil {
		s.alerts.Alert(titleError, msgLocationFailed)
		return errors.New("no locator configured")
	}

	status, err := s.locator.RequestForegroundPermission(ctx)
	if err != nil {
		s.log.WarnObj("location permission request failed", "error", err.Error())
	}
	if !status.Granted() {
		s.alerts.Alert(titlePermissionDenied, msgLocationDenied)
		return fmt.Errorf("location: %w", ErrPermissionDenied)
	}

	fix, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		s.log.ErrorObj("location fix failed", "error", err.Error())
		s.alerts.Alert(titleError, msgLocationFailed)
		return fmt.Errorf("current position: %w", err)
	}

	s.form.Location = &fix
	s.form.Local += fix.Suffix()
	return nil
}

// Submit validates the form, posts the report and, on success, prepends the stored
// report and clears the form. On failure the form is left untouched.
func (s *Screen) Submit(ctx context.Context) (domain.Defect, error) {
	if s.loading {
		return domain.Defect{}, ErrBusy
	}
	if s.form.Titulo == "" || s.form.Local == "" || s.form.Laboratorio == "" {
		s.alerts.Alert(titleEmptyFields, msgEmptyFields)
		return domain.Defect{}, ErrMissingFields
	}

	s.loading = true
	defer func() { s.loading = false }()

	stored, err := s.api.Create(ctx, s.buildDefect())
	if err != nil {
		s.log.ErrorObj("submit report failed", "submit_error", map[string]any{
			"titulo": s.form.Titulo,
			"error":  err.Error(),
		})
		s.alerts.Alert(titleError, msgSaveFailed)
		return domain.Defect{}, fmt.Errorf("submit report: %w", err)
	}

	s.defects = append([]domain.Defect{stored}, s.defects...)
	s.ClearForm()
	s.log.InfoObj("report submitted", "report_meta", map[string]any{
		"id":          stored.ID,
		"laboratorio": stored.Laboratorio,
	})

	s.notify(ctx, stored)
	s.alerts.Alert(titleSuccess, msgSaved)
	return stored, nil
}

func (s *Screen) buildDefect() domain.Defect {
	d := domain.Defect{
		Titulo:      s.form.Titulo,
		Descricao:   s.form.Descricao,
		Local:       s.form.Local,
		Laboratorio: s.form.Laboratorio,
	}
	if s.form.Foto != nil {
		foto := *s.form.Foto
		d.Foto = &foto
	}
	if s.form.Location != nil {
		lat, lon := s.form.Location.Latitude, s.form.Location.Longitude
		d.Latitude, d.Longitude = &lat, &lon
	}
	return d
}

func (s *Screen) notify(ctx context.Context, d domain.Defect) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.DefectSubmitted(ctx, d); err != nil {
		s.log.WarnObj("report notification failed", "notify_error", map[string]any{
			"id":    d.ID,
			"error": err.Error(),
		})
	}
}
