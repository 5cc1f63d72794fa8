package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/defect-reporter/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// Webhook headers describing the delivered event, so receivers can route without
// decoding the body.
const (
	HeaderEventType   = "X-Defect-Event"
	HeaderEventID     = "X-Defect-Event-Id"
	HeaderLaboratorio = "X-Defect-Laboratorio"
)

// httpPublisher posts submission events to a webhook.
type httpPublisher struct {
	id      string
	typ     string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient("", time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

// Publish sends the event as JSON. Configured headers win over the event headers.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeaders(webhookHeaders(evt)).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		h.log.ErrorObj("http publisher request failed", "publisher_http_error", map[string]any{
			"publisher_id": h.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s answered %d: %s", h.id, resp.StatusCode(), readBodySnippet(resp.Body()))
	}
	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"status":       resp.StatusCode(),
	})
	return nil
}

func webhookHeaders(evt Event) map[string]string {
	headers := map[string]string{
		HeaderEventType: evt.Type,
		HeaderEventID:   evt.ID,
	}
	if lab := strings.TrimSpace(evt.Defect.Laboratorio); lab != "" {
		headers[HeaderLaboratorio] = lab
	}
	return headers
}

func readBodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if r := []rune(s); len(r) > 256 {
		return string(r[:256]) + "..."
	}
	return s
}
