package web

import (
	"net/http"
)

// handlePublish runs the full export pipeline: merge the dataset with the
// vendor file, back up the previous export, and write the result to blob
// storage and the transfer endpoint. The route's generous server timeout
// exists for this call.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	result, err := sess.Publish(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
