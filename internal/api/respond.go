package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/olehkozachenko/budget-api/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStorageError maps storage sentinels to the response taxonomy: a
// missing or foreign record is 404, a lost dependency is 409, anything else
// is a logged 500.
func (s *APIServer) writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrReferenceGone):
		s.writeError(w, http.StatusConflict, "referenced record no longer exists")
	default:
		s.logger.Error("Storage failure", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID extracts the numeric {id} path variable.
func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// fieldSet names the JSON fields clients are allowed to write for a
// resource. Anything outside the set (owner fields in particular) is
// silently dropped before it can reach storage.
type fieldSet map[string]struct{}

func newFieldSet(names ...string) fieldSet {
	set := make(fieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// decodeWritable decodes the request body into dst, keeping only the fields
// in allowed. Unknown and write-protected fields are discarded without
// error.
func decodeWritable(body io.Reader, allowed fieldSet, dst interface{}) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return err
	}

	for name := range raw {
		if _, ok := allowed[name]; !ok {
			delete(raw, name)
		}
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
