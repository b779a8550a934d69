package telemetry

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yanqian/stay-assistant/pkg/util"
)

// NewTransport wraps base with client spans, trace context injection and
// X-Request-ID forwarding from the request context.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(requestIDTransport{base: base})
}

type requestIDTransport struct {
	base http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := util.RequestID(req.Context())
	if id == "" || req.Header.Get(util.RequestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(util.RequestIDHeader, id)
	return t.base.RoundTrip(req)
}
