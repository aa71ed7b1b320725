package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
)

// RequestIDHeader é o cabeçalho usado para propagar o ID de correlação
const RequestIDHeader = "X-Request-ID"

const slowRequestThreshold = 500 * time.Millisecond

// Rotas consultadas por health checks e scrapers; só aparecem em debug
var quietPaths = []string{"/healthcheck", "/metrics"}

// LoggingMiddleware amarra o ID de correlação ao contexto e registra uma
// linha por requisição, com nível derivado do status da resposta
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithGivenCorrelationID(r.Context(), r.Header.Get(RequestIDHeader))
			r = r.WithContext(ctx)
			w.Header().Set(RequestIDHeader, correlationID)

			rw := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			fields := log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
				"status_code":    rw.status,
				"bytes":          rw.written,
				"duration_ms":    elapsed.Milliseconds(),
			}
			if !log.IsDevelopment() {
				fields["remote_addr"] = r.RemoteAddr
				fields["user_agent"] = r.UserAgent()
				fields["query"] = r.URL.RawQuery
			}

			logger := log.L.WithFields(fields)
			msg := fmt.Sprintf("%s %s %d em %s", r.Method, r.URL.Path, rw.status, formatDuration(elapsed))

			switch {
			case rw.status >= http.StatusInternalServerError:
				logger.Error(msg)
			case rw.status >= http.StatusBadRequest:
				logger.Warn(msg)
			case isQuietPath(r.URL.Path):
				logger.Debug(msg)
			default:
				logger.Info(msg)
			}

			if elapsed > slowRequestThreshold {
				logger.Warnf("Requisição lenta: %s", elapsed)
			}
		})
	}
}

func isQuietPath(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// statusRecorder guarda o status e o tamanho da resposta
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}

// LogPanicMiddleware converte panics em SRV_001. Se o handler já tinha
// começado a responder, só registra.
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newStatusRecorder(w)

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				log.ForContext(r.Context()).WithFields(log.Fields{
					"panic_error": p,
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(debug.Stack()),
				}).Error("Erro não tratado na aplicação")

				if !rw.wroteHeader {
					apiErrors.WriteError(rw, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
