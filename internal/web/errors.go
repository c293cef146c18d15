package web

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pimops/pigman/internal/errs"
)

// ErrorResponse is the JSON body returned for failed requests. It carries
// both the technical error and the user-facing message with its action
// suggestion and code.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
}

// respondError writes an error response with a status derived from the
// error kind and a user-facing message from the error catalogue. The
// technical error is logged server-side with the request ID for
// correlation.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errs.KindOf(err)
	status := statusForKind(kind)
	msg := errs.MapError(err)

	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"kind", kind.String(),
		"code", msg.Code,
		"error", err,
		"request_id", chimw.GetReqID(r.Context()),
	)

	respondJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusForKind maps error kinds to HTTP status codes. A partial publish
// reports as a gateway error because the remote endpoints are out of sync.
func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindInput:
		return http.StatusBadRequest
	case errs.KindValidation:
		return http.StatusUnprocessableEntity
	case errs.KindAuth:
		return http.StatusUnauthorized
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindRemoteIO, errs.KindPartialPublish:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
