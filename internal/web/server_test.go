package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/dataset"
	"github.com/pimops/pigman/internal/pig"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/session"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 10 * time.Second,
		},
		Dataset: config.DatasetConfig{
			DataPrefix:       "salsify-product-info/",
			PartitionDir:     "app-data/pig-info-table.parquet",
			PartitionFile:    "data_0.parquet",
			ValidationDir:    "app-data/validation",
			RepositoryPrefix: "pig-repository/",
		},
		Publish: config.PublishConfig{
			ExportKey:     "salsify-sftp/hbb_salsify.xlsx",
			HistoryPrefix: "salsify-sftp/history/",
			VendorFile:    "salsify.xlsx",
			ExportFile:    "hbb_salsify.xlsx",
		},
		Upload: config.UploadConfig{
			MaxFileSize:    1 << 20,
			MaxTitleLength: 100,
		},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func testKeys(cfg *config.Config) blob.Keys {
	return blob.NewKeys(cfg.Dataset, cfg.Publish)
}

func testRecord(item, category, status, title string) schema.Record {
	var r schema.Record
	r.SetValue(schema.FieldItem, item)
	r.SetValue(schema.FieldProductID, item)
	r.SetValue(schema.FieldCategory, category)
	r.SetValue(schema.FieldStatus, status)
	r.SetValue(schema.FieldProductTitle, title)
	return r
}

// seedGateway fills a memory store with the partitions and reference lists
// a session needs: three records across active and New, no Obsolete file.
func seedGateway(t *testing.T, keys blob.Keys) *blob.Memory {
	t.Helper()
	ctx := context.Background()
	gw := blob.NewMemory()

	seed := func(status string, recs ...schema.Record) {
		data, err := dataset.EncodePartition(recs)
		if err != nil {
			t.Fatalf("EncodePartition(%s): %v", status, err)
		}
		if err := gw.Upload(ctx, keys.Partition(status), data); err != nil {
			t.Fatalf("seed partition %s: %v", status, err)
		}
	}
	seed(schema.StatusActive,
		testRecord("111", "Tools", schema.StatusActive, "Claw Hammer"),
		testRecord("222", "Lawn & Garden", schema.StatusActive, "Garden Hose"),
	)
	seed(schema.StatusNew,
		testRecord("333", "Tools", schema.StatusNew, "Torque Wrench"),
	)

	categories := "category_key,category_value\ntools,Tools\ngarden,Lawn & Garden\n"
	if err := gw.Upload(ctx, keys.CategoryValues(), []byte(categories)); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	statuses := "status_values\nactive\nNew\nObsolete\n"
	if err := gw.Upload(ctx, keys.StatusValues(), []byte(statuses)); err != nil {
		t.Fatalf("seed statuses: %v", err)
	}
	return gw
}

// newServerWith builds a server around one open memory-backed session and
// returns both. The gateway is reachable through the session for seeding
// and inspection.
func newServerWith(t *testing.T, cfg *config.Config) (*Server, *session.Session, *blob.Memory) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	keys := testKeys(cfg)
	gw := seedGateway(t, keys)

	sess, err := session.Open(context.Background(), session.Deps{
		Gateway:   gw,
		Keys:      keys,
		Publish:   cfg.Publish,
		Statuses:  []string{schema.StatusActive, schema.StatusNew, schema.StatusObsolete},
		Validator: pig.NewValidator(cfg.Upload.MaxTitleLength),
		Log:       log,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sessions := session.NewManager()
	sessions.Add(sess)
	t.Cleanup(sessions.CloseAll)

	return NewServer(cfg, sessions, log), sess, gw
}

func newTestServer(t *testing.T) (*Server, *session.Session, *blob.Memory) {
	return newServerWith(t, testConfig())
}

// doRequest runs one request through the full router, middleware included.
func doRequest(t *testing.T, srv *Server, method, target, sessionID string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestRoutesRequireSession(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name      string
		sessionID string
		wantCode  string
	}{
		{"missing header", "", "AUTH001"},
		{"malformed ID", "not-a-uuid", "AUTH001"},
		{"unknown session", uuid.NewString(), "NF001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/data/stats", tt.sessionID, nil, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			var resp ErrorResponse
			decodeResponse(t, rec, &resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestOpenSessionRequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/session", "", nil, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionInfo(t *testing.T) {
	srv, sess, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/session", sess.ID.String(), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp sessionInfoResponse
	decodeResponse(t, rec, &resp)
	if resp.SessionID != sess.ID.String() {
		t.Errorf("session_id = %q, want %q", resp.SessionID, sess.ID)
	}
	if resp.Records != 3 || resp.Categories != 2 {
		t.Errorf("stats = %d records in %d categories, want 3 in 2", resp.Records, resp.Categories)
	}
}

func TestCloseSessionInvalidatesToken(t *testing.T) {
	srv, sess, _ := newTestServer(t)
	id := sess.ID.String()

	rec := doRequest(t, srv, http.MethodDelete, "/api/session", id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("close status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/data/stats", id, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after close = %d, want 401", rec.Code)
	}
}

func TestPublishWithoutTransferIsRejected(t *testing.T) {
	srv, sess, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/publish", sess.ID.String(), nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, sess, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/data/stats", sess.ID.String(), nil, "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestRateLimiterThrottles(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	srv, sess, _ := newServerWith(t, cfg)

	id := sess.ID.String()
	for i := 0; i < 2; i++ {
		if rec := doRequest(t, srv, http.MethodGet, "/api/data/stats", id, nil, ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/data/stats", id, nil, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on 429")
	}
	var resp ErrorResponse
	decodeResponse(t, rec, &resp)
	if resp.Code != "RATE001" {
		t.Errorf("code = %q, want RATE001", resp.Code)
	}
}
