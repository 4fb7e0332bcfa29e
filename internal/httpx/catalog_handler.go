package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-food-orders/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	Catalog *catalog.Catalog
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/restaurants", h.listRestaurants)
	r.Get("/restaurants/{id}", h.getRestaurant)
	r.Get("/featured", h.featured)
}

func (h *CatalogHandler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.Catalog.Search(catalog.Query{
		Term:       q.Get("q"),
		Cuisine:    q.Get("cuisine"),
		PriceRange: q.Get("price"),
		Sort:       catalog.Sort(q.Get("sort")),
	}))
}

func (h *CatalogHandler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rest, err := h.Catalog.Restaurant(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.FeaturedItems())
}
