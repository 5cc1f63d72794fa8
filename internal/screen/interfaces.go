package screen

import (
	"context"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
)

// ReportsAPI is the remote collaborator holding the reports.
type ReportsAPI interface {
	List(ctx context.Context) ([]domain.Defect, error)
	Create(ctx context.Context, d domain.Defect) (domain.Defect, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(title, message string)
}

// Notifier is told about every report the server accepted.
type Notifier interface {
	DefectSubmitted(ctx context.Context, d domain.Defect) error
}
