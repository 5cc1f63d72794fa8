package publishers

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/google/uuid"
)

// EventTypeDefectSubmitted marks a report accepted by the reports API.
const EventTypeDefectSubmitted = "defect.submitted"

// Event represents the payload published downstream. The photo is left out to keep
// messages within queue size limits; HasPhoto tells consumers one exists.
type Event struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Defect      domain.Defect `json:"defect"`
	HasPhoto    bool          `json:"has_photo"`
	SubmittedAt time.Time     `json:"submitted_at"`

	// photo is the base64 JPEG payload, kept for sinks that archive it.
	photo string
}

// NewEvent constructs a submission Event for the stored report.
func NewEvent(d domain.Defect) Event {
	var photo string
	if d.HasPhoto() {
		if _, b64, ok := strings.Cut(*d.Foto, ","); ok {
			photo = b64
		}
	}
	hasPhoto := d.HasPhoto()
	d.Foto = nil
	return Event{
		ID:          uuid.NewString(),
		Type:        EventTypeDefectSubmitted,
		Defect:      d,
		HasPhoto:    hasPhoto,
		SubmittedAt: time.Now().UTC(),
		photo:       photo,
	}
}
