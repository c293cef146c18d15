package web

import (
	"net/http"

	"github.com/pimops/pigman/internal/tabular"
)

type queryDataRequest struct {
	Filter tabular.Filter `json:"filter"`
}

type queryDataResponse struct {
	Columns []string        `json:"columns"`
	Rows    [][]string      `json:"rows"`
	Summary tabular.Summary `json:"summary"`
	Filter  tabular.Filter  `json:"filter"`
}

// handleQueryData applies a cascading filter to the dataset and returns the
// matching rows. The echoed filter always carries a trailing empty step so
// the client can offer the next refinement without special-casing.
func (s *Server) handleQueryData(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	var req queryDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	table, err := sess.Data(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filtered := req.Filter.Apply(table)
	summary := req.Filter.Summarize(table)
	req.Filter.EnsureTrailingSlot()

	respondJSON(w, http.StatusOK, queryDataResponse{
		Columns: filtered.Columns,
		Rows:    filtered.Rows,
		Summary: summary,
		Filter:  req.Filter,
	})
}

type filterOptionsRequest struct {
	Filter tabular.Filter `json:"filter"`
	Index  int            `json:"index"`
}

type filterOptionsResponse struct {
	Options []string `json:"options"`
}

// handleFilterOptions returns the distinct values available for the filter
// step at the given index, narrowed by the steps before it.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	var req filterOptionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	table, err := sess.Data(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, filterOptionsResponse{
		Options: req.Filter.OptionsAt(table, req.Index),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	stats, err := sess.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

type exportPreviewResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// handleExportPreview shows the local side of the publish output: the
// export columns without the internal Status column. A limit query
// parameter caps the rows returned.
func (s *Server) handleExportPreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	table, err := sess.ExportPreview(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := parseIntParam(r, "limit", 100)
	rows := table.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}

	respondJSON(w, http.StatusOK, exportPreviewResponse{
		Columns:   table.Columns,
		Rows:      rows,
		TotalRows: len(table.Rows),
	})
}
