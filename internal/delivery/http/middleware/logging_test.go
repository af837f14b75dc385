package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logSink keeps the last record so tests can inspect its attributes.
type logSink struct {
	last slog.Record
}

func (s *logSink) Enabled(context.Context, slog.Level) bool { return true }

func (s *logSink) Handle(_ context.Context, r slog.Record) error {
	s.last = r.Clone()
	return nil
}

func (s *logSink) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *logSink) WithGroup(string) slog.Handler { return s }

func recordedAttrs(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		status     int // 0 means the handler never calls WriteHeader
		body       string
		wantStatus int
	}{
		{
			name:       "ok status",
			method:     http.MethodGet,
			path:       "/venues",
			status:     http.StatusOK,
			body:       `{"data":[]}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "created",
			method:     http.MethodPost,
			path:       "/events",
			status:     http.StatusCreated,
			body:       `{"data":{"id":"ev-1"}}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "server error",
			method:     http.MethodPost,
			path:       "/payments/webhook",
			status:     http.StatusInternalServerError,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "implicit 200 on bare write",
			method:     http.MethodGet,
			path:       "/healthz",
			body:       "ok",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink logSink
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			LoggingMiddleware(slog.New(&sink), next).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, "request", sink.last.Message)

			attrs := recordedAttrs(sink.last)
			assert.Equal(t, tt.method, attrs["method"].String())
			assert.Equal(t, tt.path, attrs["path"].String())
			assert.Equal(t, int64(tt.wantStatus), attrs["status"].Int64())
			assert.Equal(t, int64(len(tt.body)), attrs["bytes"].Int64())
			assert.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
		})
	}
}
