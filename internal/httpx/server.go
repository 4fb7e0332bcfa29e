package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/catalog"
	"github.com/ariefcatur/go-food-orders/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Mount registers the catalog routes and, behind the X-Client-ID
// middleware, every workspace route.
func Mount(r chi.Router, cat *catalog.Catalog, reg *shop.Registry, log *slog.Logger) {
	(&CatalogHandler{Catalog: cat}).Register(r)
	r.Group(func(r chi.Router) {
		r.Use(Workspaces(reg, log))
		(&SessionHandler{Log: log}).Register(r)
		(&ShopHandler{Catalog: cat, Log: log}).Register(r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
