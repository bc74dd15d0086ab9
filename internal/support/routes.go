package support

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopassist/internal/session"
)

// RegisterRoutes mounts support endpoints on the given router.
func RegisterRoutes(r chi.Router, store TicketStore) {
	r.Get("/api/sessions/{sessionID}/tickets", handleList(store))
	r.Post("/api/support/draft", handleDraft())
}

func handleList(store TicketStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, err := session.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, `{"error":"invalid session id"}`, http.StatusBadRequest)
			return
		}
		tickets, err := store.ListTickets(r.Context(), sid)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if tickets == nil {
			tickets = []Ticket{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tickets)
	}
}

// draftResponse pairs a generated email with its detected classification.
type draftResponse struct {
	IssueType IssueType `json:"issue_type"`
	Label     string    `json:"label"`
	Email
}

// handleDraft classifies the posted context's message and returns the
// matching template without storing anything.
func handleDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c Context
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		issue := DetectIssueType(c.UserMessage)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(draftResponse{
			IssueType: issue,
			Label:     issue.Label(),
			Email:     GenerateEmail(issue, c),
		})
	}
}
