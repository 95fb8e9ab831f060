package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genrejinn/genrejinn/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sessionError maps session lookup failures to 404 and everything else
// to 400. Returns true when a response was written.
func sessionError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, session.ErrNoSession) {
		writeError(w, http.StatusNotFound, "unknown session")
		return true
	}
	writeError(w, http.StatusBadRequest, err.Error())
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
