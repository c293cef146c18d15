package web

import (
	"net/http"
	"net/url"
	"testing"
)

func TestCategoryLifecycle(t *testing.T) {
	srv, sess, _ := newTestServer(t)
	id := sess.ID.String()

	rec := doRequest(t, srv, http.MethodGet, "/api/reference/categories", id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var listed categoriesResponse
	decodeResponse(t, rec, &listed)
	if len(listed.Values) != 2 || listed.Values[0] != "Lawn & Garden" {
		t.Fatalf("values = %v, want [Lawn & Garden Tools]", listed.Values)
	}
	if len(listed.Entries) != 2 || listed.Entries[0].Key != "tools" {
		t.Errorf("entries = %v, want the stored rows in order", listed.Entries)
	}

	body := jsonBody(t, addCategoryRequest{Key: "plumbing", Value: "Plumbing"})
	rec = doRequest(t, srv, http.MethodPost, "/api/reference/categories", id, body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/reference/categories", id, nil, "")
	decodeResponse(t, rec, &listed)
	if len(listed.Values) != 3 {
		t.Fatalf("values after add = %v, want 3", listed.Values)
	}

	// Category names carry spaces and ampersands, so the value travels as
	// a query parameter.
	target := "/api/reference/categories?value=" + url.QueryEscape("Plumbing")
	rec = doRequest(t, srv, http.MethodDelete, target, id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, target, id, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d, want 404", rec.Code)
	}
}

func TestAddDuplicateCategoryConflicts(t *testing.T) {
	srv, sess, _ := newTestServer(t)

	body := jsonBody(t, addCategoryRequest{Key: "tools", Value: "Tools"})
	rec := doRequest(t, srv, http.MethodPost, "/api/reference/categories", sess.ID.String(), body, "application/json")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestStatusLifecycle(t *testing.T) {
	srv, sess, _ := newTestServer(t)
	id := sess.ID.String()

	rec := doRequest(t, srv, http.MethodGet, "/api/reference/statuses", id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var listed statusesResponse
	decodeResponse(t, rec, &listed)
	if len(listed.Values) != 3 {
		t.Fatalf("values = %v, want 3 statuses", listed.Values)
	}

	body := jsonBody(t, addStatusRequest{Value: "Disco"})
	rec = doRequest(t, srv, http.MethodPost, "/api/reference/statuses", id, body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/reference/statuses?value=Disco", id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/reference/statuses", id, nil, "")
	decodeResponse(t, rec, &listed)
	if len(listed.Values) != 3 {
		t.Errorf("values after remove = %v, want the original 3", listed.Values)
	}
}

func TestRemoveCategoryRequiresValue(t *testing.T) {
	srv, sess, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodDelete, "/api/reference/categories", sess.ID.String(), nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
