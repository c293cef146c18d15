package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/schema"
)

// maxJSONBody caps request bodies on JSON endpoints. Workbook uploads use
// the configured upload limit instead.
const maxJSONBody = 1 << 20

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// decodeJSON reads the request body into v, capping the body size. A
// missing body leaves v at its zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.Wrap(errs.KindInput, "web.decodeJSON", err)
	}
	return nil
}

// recordFromFields builds a record from a column-name-to-value map,
// rejecting unknown column names so client typos surface instead of
// silently dropping data.
func recordFromFields(fields map[string]string) (schema.Record, error) {
	for name := range fields {
		if _, ok := schema.ColumnIndex(name); !ok {
			return schema.Record{}, errs.Errorf(errs.KindInput, "web.recordFromFields", "unknown column %q", name)
		}
	}
	return schema.RecordFromMap(fields), nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
