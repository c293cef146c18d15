package web

import (
	"fmt"
	"net/http"
	"path"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/tabular"
)

type repositoryListResponse struct {
	Files []blob.Object `json:"files"`
}

// handleListRepository lists the workbooks and exports stored under the
// PIG repository prefix.
func (s *Server) handleListRepository(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	files, err := sess.ListRepository(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if files == nil {
		files = []blob.Object{}
	}
	respondJSON(w, http.StatusOK, repositoryListResponse{Files: files})
}

type repositoryPreviewResponse struct {
	Key     string     `json:"key"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// handleRepositoryFile returns a repository file, either decoded to a
// table for display or, with format=raw, as a download.
func (s *Server) handleRepositoryFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		s.respondError(w, r, errs.New(errs.KindInput, "web.handleRepositoryFile", "key query parameter is required"))
		return
	}

	if r.URL.Query().Get("format") == "raw" {
		data, err := sess.FetchRepositoryFile(r.Context(), key)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentTypeForKey(key))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
		w.Write(data)
		return
	}

	table, err := sess.PreviewRepositoryFile(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, repositoryPreviewResponse{
		Key:     key,
		Columns: table.Columns,
		Rows:    table.Rows,
	})
}

// handleSaveWorkbook stores an uploaded workbook in the PIG repository
// under the item's canonical name without touching the dataset.
func (s *Server) handleSaveWorkbook(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	workbook, err := s.readWorkbook(w, r, "workbook")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	key, err := sess.SaveWorkbook(r.Context(), r.FormValue("item"), workbook)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func contentTypeForKey(key string) string {
	switch tabular.FormatForPath(key) {
	case tabular.FormatCSV:
		return "text/csv"
	case tabular.FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case tabular.FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}
