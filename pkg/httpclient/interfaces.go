package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Paths are resolved against the client's base URL; absolute URLs are used as-is.
type Client interface {
	Get(ctx context.Context, path string, headers map[string]string) (Response, error)
	PostJSON(ctx context.Context, path string, body any, headers map[string]string) (Response, error)
}
