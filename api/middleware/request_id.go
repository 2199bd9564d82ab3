package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxRequestIDLength = 128
)

// RequestID tags every request with an id, reusing the caller's
// X-Request-Id when it is usable. The id is echoed back and logged.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := inboundRequestID(r.Header.Get(requestIDHeader))
			if !ok {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			if logg != nil {
				r = r.WithContext(logg.WithRequestID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// inboundRequestID accepts short ids made of visible ASCII only, so a client
// cannot smuggle control characters into logs or response headers.
func inboundRequestID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLength {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return "", false
		}
	}
	return id, true
}
