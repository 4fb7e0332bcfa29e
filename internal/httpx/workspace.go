package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/ariefcatur/go-food-orders/internal/shop"
)

const HeaderClientID = "X-Client-ID"

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

type ctxKey struct{}

// Workspaces resolves the X-Client-ID header to its workspace.
func Workspaces(reg *shop.Registry, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderClientID)
			if id == "" {
				writeError(w, http.StatusBadRequest, "missing "+HeaderClientID+" header")
				return
			}
			if !clientIDPattern.MatchString(id) {
				writeError(w, http.StatusBadRequest, "invalid "+HeaderClientID+" header")
				return
			}
			ws, err := reg.Get(r.Context(), id)
			if err != nil {
				log.Error("open workspace", "workspace", id, "error", err)
				writeError(w, http.StatusServiceUnavailable, "workspace unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, ws)))
		})
	}
}

func workspaceFrom(ctx context.Context) *shop.Workspace {
	return ctx.Value(ctxKey{}).(*shop.Workspace)
}
