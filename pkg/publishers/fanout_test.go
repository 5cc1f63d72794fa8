package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/defect-reporter/internal/domain"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	last   Event
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(_ context.Context, evt Event) error {
	s.calls++
	s.last = evt
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
		nil,
	}, nil)

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers must be skipped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutDefectSubmittedStripsPhoto(t *testing.T) {
	pub := &stubPublisher{id: "ok", typ: "http"}
	fanout := NewFanout([]Publisher{pub}, nil)

	foto := "data:image/jpeg;base64,AAAA"
	if err := fanout.DefectSubmitted(context.Background(), domain.Defect{ID: "7", Titulo: "Leak", Foto: &foto}); err != nil {
		t.Fatalf("DefectSubmitted: %v", err)
	}
	if pub.calls != 1 {
		t.Fatalf("expected one publish, got %d", pub.calls)
	}
	if pub.last.Type != EventTypeDefectSubmitted || pub.last.ID == "" {
		t.Fatalf("unexpected event %+v", pub.last)
	}
	if pub.last.Defect.Foto != nil || !pub.last.HasPhoto {
		t.Fatalf("photo must be replaced by has_photo flag: %+v", pub.last)
	}
}

func TestNilFanoutIsNoop(t *testing.T) {
	var fanout *Fanout
	if err := fanout.DefectSubmitted(context.Background(), domain.Defect{}); err != nil {
		t.Fatalf("nil fanout: %v", err)
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("nil fanout close: %v", err)
	}
}

func TestFanoutCloseClosesClosers(t *testing.T) {
	closer := &closingPublisher{stubPublisher{id: "c", typ: TypePubSub}}
	fanout := NewFanout([]Publisher{closer, &stubPublisher{id: "s", typ: TypeHTTP}}, nil)
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("closer was not closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestBuildAllClosesBuiltSinksOnFailure(t *testing.T) {
	built := &closingPublisher{stubPublisher{id: "first", typ: "stub"}}
	reg := Registry{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
		"bad":  func(context.Context, PublisherConfig, Logger) (Publisher, error) { return nil, errors.New("no credentials") },
	}

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "BAD"},
	}, nil)
	if err == nil || pubs != nil {
		t.Fatalf("expected failure, got pubs=%v err=%v", pubs, err)
	}
	if !built.closed {
		t.Fatalf("sink built before the failure was not closed")
	}
}

func TestRegistryTypes(t *testing.T) {
	got := DefaultRegistry().Types()
	want := []string{TypeHTTP, TypePubSub, TypeS3, TypeSNS, TypeSQS}
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %v, want %v", got, want)
		}
	}
}
