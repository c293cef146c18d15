package web

import (
	"net/http"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/refdata"
)

type categoriesResponse struct {
	Values  []string                `json:"values"`
	Entries []refdata.CategoryEntry `json:"entries"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	refs := sess.Refs()
	respondJSON(w, http.StatusOK, categoriesResponse{
		Values:  refs.Categories(),
		Entries: refs.CategoryEntries(),
	})
}

type addCategoryRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handleAddCategory appends a category to the vocabulary. The list saves
// back to blob storage immediately, so the change outlives the session.
func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	var req addCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := sess.Refs().AddCategory(r.Context(), req.Key, req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"value": req.Value})
}

// handleRemoveCategory deletes a category by value. The value travels as a
// query parameter because category names carry spaces and ampersands.
func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	value := r.URL.Query().Get("value")
	if value == "" {
		s.respondError(w, r, errs.New(errs.KindInput, "web.handleRemoveCategory", "value query parameter is required"))
		return
	}

	if err := sess.Refs().RemoveCategory(r.Context(), value); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"removed": value})
}

type statusesResponse struct {
	Values []string `json:"values"`
}

func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, statusesResponse{Values: sess.Refs().Statuses()})
}

type addStatusRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleAddStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	var req addStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := sess.Refs().AddStatus(r.Context(), req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"value": req.Value})
}

func (s *Server) handleRemoveStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFrom(w, r)
	if !ok {
		return
	}

	value := r.URL.Query().Get("value")
	if value == "" {
		s.respondError(w, r, errs.New(errs.KindInput, "web.handleRemoveStatus", "value query parameter is required"))
		return
	}

	if err := sess.Refs().RemoveStatus(r.Context(), value); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"removed": value})
}
