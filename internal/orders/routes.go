package orders

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the order tracking endpoint.
func RegisterRoutes(r chi.Router, lookup Lookup) {
	r.Get("/api/orders/{orderID}", handleGet(lookup))
}

func handleGet(lookup Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := lookup.GetOrderByOrderID(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if o == nil {
			http.Error(w, `{"error":"order not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(o)
	}
}
