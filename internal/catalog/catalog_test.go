package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/shopassist/internal/db"
)

var fixtures = []Product{
	{ID: "lap-air", Name: "MacBook Air M2", Price: 999, Category: "laptop", Rating: 4.8, Specs: []string{"8GB RAM"}},
	{ID: "lap-student", Name: "Dell Inspiron Student Edition", Price: 699, Category: "laptop", Rating: 4.3},
	{ID: "lap-pro", Name: "ThinkPad X1 Carbon Pro", Price: 1299, Category: "laptop", Rating: 4.6},
	{ID: "lap-game", Name: "ASUS ROG Game Force", Price: 1899, Category: "laptop", Rating: 4.7},
	{ID: "ph-pixel", Name: "Google Pixel 8", Price: 699, Category: "phone", Rating: 4.5},
	{ID: "ph-oneplus", Name: "OnePlus 12", Price: 799, Category: "phone", Rating: 4.4},
	{ID: "ph-max", Name: "iPhone 15 Pro Max", Price: 1199, Category: "Phone", Rating: 4.9},
	{ID: "ph-budget", Name: "Galaxy Budget A15", Price: 199, Category: "phone", Rating: 4.0},
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	for _, p := range fixtures {
		require.NoError(t, store.UpsertProduct(t.Context(), p))
	}
	return store
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestGetProductByID(t *testing.T) {
	store := setupTestStore(t)

	p, err := store.GetProductByID(t.Context(), "lap-air")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "MacBook Air M2", p.Name)
	assert.Equal(t, []string{"8GB RAM"}, p.Specs)

	missing, err := store.GetProductByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetFilteredProducts(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all filters match", Filter{Category: "laptop", Budget: "500-1000", Usage: "student"}, []string{"lap-air", "lap-student"}},
		{"falls back to category", Filter{Category: "laptop", Budget: "over-1500", Usage: "student"}, []string{"lap-air", "lap-student", "lap-pro"}},
		{"capped at three", Filter{Category: "phone"}, []string{"ph-pixel", "ph-oneplus", "ph-max"}},
		{"usage is case-insensitive", Filter{Category: "phone", Budget: "500-1000", Usage: "daily"}, []string{"ph-pixel", "ph-oneplus"}},
		{"office keywords", Filter{Category: "laptop", Budget: "1000-1500", Usage: "office"}, []string{"lap-pro"}},
		{"unknown tokens do not filter", Filter{Category: "phone", Budget: "free", Usage: "space"}, []string{"ph-pixel", "ph-oneplus", "ph-max"}},
		{"category is case-normalised", Filter{Category: "PHONE", Budget: "under-500"}, []string{"ph-budget"}},
		{"unknown category", Filter{Category: "tablet"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetFilteredProducts(t.Context(), tt.filter)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(got), MaxResults)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestPriceRangeContains(t *testing.T) {
	assert.True(t, BudgetRanges["under-500"].Contains(0))
	assert.False(t, BudgetRanges["under-500"].Contains(500))
	assert.True(t, BudgetRanges["500-1000"].Contains(500))
	assert.True(t, BudgetRanges["over-1500"].Contains(1500))
	assert.True(t, BudgetRanges["over-1500"].Contains(99999))
	assert.False(t, BudgetRanges["over-1500"].Contains(1499.99))
}

func TestUpsertKeepsPosition(t *testing.T) {
	store := setupTestStore(t)

	updated := fixtures[0]
	updated.Price = 949
	require.NoError(t, store.UpsertProduct(t.Context(), updated))

	got, err := store.GetFilteredProducts(t.Context(), Filter{Category: "laptop"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "lap-air", got[0].ID)
	assert.Equal(t, 949.0, got[0].Price)
}

func TestRoutes(t *testing.T) {
	store := setupTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store, store)

	t.Run("filtered list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products?category=laptop&budget=500-1000&usage=student", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var got []Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, []string{"lap-air", "lap-student"}, ids(got))
	})

	t.Run("full list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var got []Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, len(fixtures))
	})

	t.Run("missing product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
