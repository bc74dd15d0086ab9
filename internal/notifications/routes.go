package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// RegisterRoutes mounts the polling endpoint for buffered toasts.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/sessions/{sessionID}/notifications", handleDrain(store))
}

func handleDrain(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, err := session.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
			return
		}
		toasts := store.Drain(sid)
		if toasts == nil {
			toasts = []Toast{}
		}
		writeJSON(w, http.StatusOK, toasts)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
