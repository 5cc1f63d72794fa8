package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatCoordinates(t *testing.T) {
	got := FormatCoordinates(-22.8138431, -47.0632)
	if got != " (Lat: -22.81384, Long: -47.06320)" {
		t.Fatalf("unexpected suffix %q", got)
	}
	if s := (Coordinates{Latitude: 1, Longitude: 2}).Suffix(); s != " (Lat: 1.00000, Long: 2.00000)" {
		t.Fatalf("unexpected suffix %q", s)
	}
}

func TestDefectDecodeIDVariants(t *testing.T) {
	cases := map[string]string{
		`{"id":"a1","titulo":"Leak"}`:      "a1",
		`{"_id":"65f0c2","titulo":"Leak"}`: "65f0c2",
		`{"id":7,"titulo":"Leak"}`:         "7",
		`{"id":null,"_id":"m1"}`:           "m1",
		`{"id":"","_id":"abc"}`:            "abc",
		`{"titulo":"Leak"}`:                "",
	}
	for raw, want := range cases {
		var d Defect
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if d.ID != want {
			t.Fatalf("decode %s: id = %q, want %q", raw, d.ID, want)
		}
	}

	var d Defect
	if err := json.Unmarshal([]byte(`{"id":{"oid":"x"}}`), &d); err == nil {
		t.Fatalf("expected error for object id")
	}
}

func TestDefectEncodeForCreate(t *testing.T) {
	body, err := json.Marshal(Defect{Titulo: "Leak", Local: "Room 2", Laboratorio: "Chem"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(body)
	if strings.Contains(s, `"id"`) || strings.Contains(s, "latitude") {
		t.Fatalf("id and coordinates must be omitted: %s", s)
	}
	if !strings.Contains(s, `"foto":null`) {
		t.Fatalf("absent photo must be sent as null: %s", s)
	}
}

func TestHasPhoto(t *testing.T) {
	empty, foto := "", PhotoDataURI("abc")
	if (Defect{Foto: &empty}).HasPhoto() || !(Defect{Foto: &foto}).HasPhoto() {
		t.Fatalf("HasPhoto mismatch")
	}
	if foto != "data:image/jpeg;base64,abc" {
		t.Fatalf("unexpected data uri %q", foto)
	}
}
