package web

import (
	"net/http"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/session"
)

// sessionFrom returns the session the auth middleware attached to the
// request. Handlers behind the auth group can rely on it being present;
// the guard here covers misrouted requests.
func (s *Server) sessionFrom(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		s.respondError(w, r, errs.New(errs.KindAuth, "web.sessionFrom", "no session on request"))
		return nil, false
	}
	return sess, true
}
