package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/genrejinn/genrejinn/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
	Pages int  `json:"pages"`
}

func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages := 0
		if d.Book != nil {
			pages = d.Book.Len()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready: pages > 0,
			Pages: pages,
		})
	}
}
