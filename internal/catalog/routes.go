package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts read-only catalog endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store, reader Reader) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", handleList(store, reader))
		r.Get("/{id}", handleGet(reader))
	})
}

// handleList returns the whole catalog, or a filtered top-3 when any of the
// category, budget or usage query parameters is set.
func handleList(store *Store, reader Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := Filter{Category: q.Get("category"), Budget: q.Get("budget"), Usage: q.Get("usage")}

		var products []Product
		var err error
		if f == (Filter{}) {
			products, err = store.ListProducts(r.Context())
		} else {
			products, err = reader.GetFilteredProducts(r.Context(), f)
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []Product{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func handleGet(reader Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := reader.GetProductByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if p == nil {
			http.Error(w, `{"error":"product not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}
