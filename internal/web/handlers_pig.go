package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/pig"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/session"
)

type previewPIGResponse struct {
	Record     map[string]string     `json:"record"`
	Columns    []string              `json:"columns"`
	Summary    pig.MappingSummary    `json:"summary"`
	Violations []pig.ValidationError `json:"violations,omitempty"`
	KnownItem  bool                  `json:"known_item"`
}

// handlePreviewPIG maps an uploaded PIG workbook to a record without
// touching the dataset. The response includes any violations so the client
// can show them before the operator decides to accept.
func (s *Server) handlePreviewPIG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	workbook, err := s.readWorkbook(w, r, "file")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := sess.Preview(workbook)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := previewPIGResponse{
		Record:     preview.Record.Map(),
		Columns:    schema.Columns,
		Summary:    preview.Summary,
		Violations: preview.Violations,
	}
	if item, ok := preview.Record.Value(schema.FieldItem); ok && item != "" && item != schema.Sentinel {
		known, err := sess.Contains(r.Context(), item)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		resp.KnownItem = known
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleAcceptPIG commits a reviewed record into the dataset. The request
// is multipart: a JSON "record" field with the (possibly operator-edited)
// column values, "category" and "status" fields, and optionally the
// original workbook under "workbook" for archival.
func (s *Server) handleAcceptPIG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, errs.Wrap(errs.KindInput, "web.handleAcceptPIG", err))
		return
	}

	raw := r.FormValue("record")
	if raw == "" {
		s.respondError(w, r, errs.New(errs.KindInput, "web.handleAcceptPIG", "record field is required"))
		return
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		s.respondError(w, r, errs.Wrap(errs.KindInput, "web.handleAcceptPIG", err))
		return
	}
	rec, err := recordFromFields(fields)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	req := session.AcceptRequest{
		Record:   rec,
		Category: r.FormValue("category"),
		Status:   r.FormValue("status"),
	}

	// The original workbook is optional; when present it is archived to
	// the PIG repository alongside the accept.
	if file, _, err := r.FormFile("workbook"); err == nil {
		defer file.Close()
		req.Workbook, err = io.ReadAll(file)
		if err != nil {
			s.respondError(w, r, errs.Wrap(errs.KindInput, "web.handleAcceptPIG", err))
			return
		}
	}

	res, err := sess.Accept(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// readWorkbook pulls one uploaded file out of a multipart request, bounded
// by the configured upload size.
func (s *Server) readWorkbook(w http.ResponseWriter, r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		return nil, errs.Wrap(errs.KindInput, "web.readWorkbook", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errs.Errorf(errs.KindInput, "web.readWorkbook", "no %q file in request", field)
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		return nil, errs.Errorf(errs.KindInput, "web.readWorkbook", "%s is not an Excel workbook", header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errs.Wrap(errs.KindInput, "web.readWorkbook", err)
	}
	return data, nil
}
