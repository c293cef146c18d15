package web

import (
	"net/http"
	"time"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/session"
)

type openSessionRequest struct {
	SASToken string `json:"sas_token"`
}

type openSessionResponse struct {
	SessionID string    `json:"session_id"`
	Created   time.Time `json:"created"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// handleOpenSession validates the caller's storage token by opening a new
// session: connect to blob storage, bootstrap the dataset, and hand back
// the session ID for the X-Session-ID header. A token may also come from
// the server environment for deployments that pre-provision one.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	token := req.SASToken
	if token == "" {
		token = s.cfg.Azure.SASToken
	}
	if token == "" {
		s.respondError(w, r, errs.New(errs.KindInput, "web.handleOpenSession", "sas_token is required"))
		return
	}

	sess, err := session.Connect(r.Context(), s.cfg, token, s.log)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.sessions.Add(sess)

	respondJSON(w, http.StatusCreated, openSessionResponse{
		SessionID: sess.ID.String(),
		Created:   sess.Created,
		Warnings:  sess.Warnings(),
	})
}

type sessionInfoResponse struct {
	SessionID  string    `json:"session_id"`
	Created    time.Time `json:"created"`
	Records    int       `json:"records"`
	Categories int       `json:"categories"`
	Warnings   []string  `json:"warnings,omitempty"`
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	stats, err := sess.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionInfoResponse{
		SessionID:  sess.ID.String(),
		Created:    sess.Created,
		Records:    stats.Records,
		Categories: stats.Categories,
		Warnings:   sess.Warnings(),
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	if err := s.sessions.Close(sess.ID); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
