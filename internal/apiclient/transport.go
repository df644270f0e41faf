package apiclient

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:generate mockgen -source=transport.go -destination=transport_mock_test.go -package=apiclient

// Transport performs one physical attempt. A non-nil response means the
// server answered, whatever the status.
type Transport interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

type TransportFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

func (f TransportFunc) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client; a nil client gets a default one with
// otelhttp instrumented round trips. Timeouts are per attempt, set by the executor.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return t.client.Do(req.WithContext(ctx))
}
