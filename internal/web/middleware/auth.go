package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pimops/pigman/internal/session"
)

// SessionAuth returns middleware that resolves the X-Session-ID header
// against the session manager and attaches the session to the request
// context. Requests without a live session are rejected; handlers behind
// this middleware read the session back with session.FromContext.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Session-ID")
			if header == "" {
				slog.Warn("auth: missing session header",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w, "missing X-Session-ID header", "AUTH001")
				return
			}

			id, err := uuid.Parse(header)
			if err != nil {
				slog.Warn("auth: malformed session ID",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w, "malformed session ID", "AUTH001")
				return
			}

			sess, ok := sessions.Get(id)
			if !ok {
				slog.Warn("auth: unknown session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"session_id", id,
				)
				unauthorized(w, "session not found or expired", "NF001")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q,"code":%q}`, message, code)
}
