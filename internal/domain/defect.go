package domain

import (
	"encoding/json"
	"fmt"
)

// Domain contains core models shared by the screen, the API client and publishers.

// Defect is a maintenance defect report as exchanged with the reports API.
type Defect struct {
	ID          string   `json:"id,omitempty"`
	Titulo      string   `json:"titulo"`
	Descricao   string   `json:"descricao"`
	Local       string   `json:"local"`
	Laboratorio string   `json:"laboratorio"`
	Foto        *string  `json:"foto"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" for the server key,
// as a string or a number.
func (d *Defect) UnmarshalJSON(data []byte) error {
	type plain Defect
	aux := struct {
		*plain
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = decodeID(aux.MongoID); err != nil {
			return err
		}
	}
	d.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode defect id %s: %w", raw, err)
	}
	return n.String(), nil
}

// HasPhoto reports whether the report carries an embedded photo.
func (d Defect) HasPhoto() bool {
	return d.Foto != nil && *d.Foto != ""
}

// Coordinates is a raw GPS fix in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Suffix renders the human-readable text appended to the site field.
func (c Coordinates) Suffix() string {
	return FormatCoordinates(c.Latitude, c.Longitude)
}

// FormatCoordinates returns " (Lat: X.XXXXX, Long: Y.YYYYY)".
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf(" (Lat: %.5f, Long: %.5f)", lat, lon)
}

// PhotoDataURI wraps base64 JPEG data as a data URI.
func PhotoDataURI(b64 string) string {
	return "data:image/jpeg;base64," + b64
}
