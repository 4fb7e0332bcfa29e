package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/session"
	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	Log *slog.Logger
}

type sessionResp struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
}

type outcomeResp struct {
	session.Outcome
	User *session.User `json:"user,omitempty"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/session", h.current)
	r.Post("/session/login", h.login)
	r.Post("/session/register", h.register)
	r.Post("/session/logout", h.logout)
	r.Put("/session/profile", h.updateProfile)
}

func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	u, ok := ws.User()
	resp := sessionResp{Authenticated: ok}
	if ok {
		resp.User = &u
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	out, err := ws.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.Log.Error("login", "workspace", ws.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}
	h.respond(w, ws.User, out, http.StatusOK, http.StatusUnauthorized)
}

func (h *SessionHandler) register(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	out, err := ws.Register(ctx, req)
	if err != nil {
		h.Log.Error("register", "workspace", ws.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}
	h.respond(w, nil, out, http.StatusCreated, http.StatusBadRequest)
}

func (h *SessionHandler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	if err := ws.Logout(ctx); err != nil {
		h.Log.Error("logout", "workspace", ws.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]notify.Notice{"notice": notify.Info("Logged out successfully")})
}

func (h *SessionHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req session.ProfilePatch
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	_, authed := ws.User()
	out, err := ws.UpdateProfile(ctx, req)
	switch {
	case err != nil:
		h.Log.Error("update profile", "workspace", ws.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, outcomeResp{Outcome: out})
	case !authed:
		writeJSON(w, http.StatusUnauthorized, outcomeResp{Outcome: out})
	default:
		h.respond(w, ws.User, out, http.StatusOK, http.StatusBadRequest)
	}
}

// respond maps an outcome to a status code; current, when set, adds the
// signed-in user to a successful answer.
func (h *SessionHandler) respond(w http.ResponseWriter, current func() (session.User, bool), out session.Outcome, okCode, failCode int) {
	resp := outcomeResp{Outcome: out}
	switch {
	case out.OK:
		if current != nil {
			if u, ok := current(); ok {
				resp.User = &u
			}
		}
		writeJSON(w, okCode, resp)
	case out.Unavailable:
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		writeJSON(w, failCode, resp)
	}
}
