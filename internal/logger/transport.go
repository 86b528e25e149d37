package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Transport создаёт http.RoundTripper, который присваивает каждому запросу
// уникальный ID, передаёт его бэкенду в заголовке X-Request-ID и логирует
// запрос и ответ. Если next == nil, используется http.DefaultTransport.
func Transport(log *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{log: log, next: next}
}

type loggingTransport struct {
	log  *slog.Logger
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	reqID := r.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		// RoundTripper не должен менять исходный запрос
		r = r.Clone(r.Context())
		r.Header.Set(RequestIDHeader, reqID)
	}

	log := t.log.With("reqID", reqID, "method", r.Method, "url", r.URL.String())
	log.Debug("request sent")

	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	elapsed := time.Since(start)

	if err != nil {
		log.Debug("request failed", "error", err, "elapsed", elapsed)
		return nil, err
	}

	switch {
	case resp.StatusCode >= 500:
		log.Warn("server error", "status", resp.StatusCode, "elapsed", elapsed)
	case resp.StatusCode >= 400:
		log.Debug("client error", "status", resp.StatusCode, "elapsed", elapsed)
	default:
		log.Debug("response received", "status", resp.StatusCode, "elapsed", elapsed)
	}

	return resp, nil
}
