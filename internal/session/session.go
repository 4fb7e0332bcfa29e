// Package session owns the signed-in user of a workspace.
//
// Every operation resolves to an Outcome. A remote rejection is reported
// with the server's message; an unreachable remote falls back to the local
// demo behaviour when demo mode is on and fails otherwise.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/store"
)

// Authenticator is the remote auth service. Errors that implement
// interface{ UserMessage() string } are rejections; any other error means
// the service could not be reached.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (token string, u User, err error)
	Register(ctx context.Context, r Registration) error
	UpdateProfile(ctx context.Context, token string, p ProfilePatch) (User, error)
}

type rejection interface{ UserMessage() string }

var errNoRemote = errors.New("no auth service configured")

const (
	msgLoginOK        = "Login successful!"
	msgLoginFailed    = "Login failed"
	msgLoginDemoHint  = "Login failed. Try demo@food.com / demo123"
	msgRegisterOK     = "Registration successful! Please login."
	msgRegisterDemo   = "Registration successful! You can now login with demo@food.com / demo123"
	msgRegisterFailed = "Registration failed"
	msgLoggedOut      = "Logged out successfully"
	msgProfileOK      = "Profile updated successfully!"
	msgProfileFailed  = "Profile update failed"
	msgProfileLogin   = "Please login to update your profile"
	msgUnavailable    = "Service unavailable, please try again"
)

type EventKind string

const (
	EventRestored            EventKind = "restored"
	EventLoggedIn            EventKind = "logged_in"
	EventLoginFailed         EventKind = "login_failed"
	EventRegistered          EventKind = "registered"
	EventRegisterFailed      EventKind = "register_failed"
	EventLoggedOut           EventKind = "logged_out"
	EventProfileUpdated      EventKind = "profile_updated"
	EventProfileUpdateFailed EventKind = "profile_update_failed"
)

type Event struct {
	Kind   EventKind
	User   *User // nil when signed out
	Notice notify.Notice
}

// Outcome is what the caller shows the user.
type Outcome struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	Simulated   bool   `json:"simulated,omitempty"`   // resolved locally, remote not reached
	Unavailable bool   `json:"unavailable,omitempty"` // remote not reached, nothing done
}

type Options struct {
	DemoMode bool
	Logger   *slog.Logger
}

// Manager is not safe for concurrent use.
type Manager struct {
	slots store.Slots
	auth  Authenticator
	demo  bool
	log   *slog.Logger

	user  *User
	token string
	hub   notify.Hub[Event]
}

func NewManager(slots store.Slots, auth Authenticator, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Manager{slots: slots, auth: auth, demo: opts.DemoMode, log: log}
}

func (m *Manager) Subscribe(fn func(Event)) func() { return m.hub.Subscribe(fn) }

func (m *Manager) User() (User, bool) {
	if m.user == nil {
		return User{}, false
	}
	return *m.user, true
}

func (m *Manager) Authenticated() bool { return m.user != nil }

func (m *Manager) Token() string { return m.token }

// Restore reads the persisted user and token.
func (m *Manager) Restore(ctx context.Context) error {
	var u User
	err := store.GetJSON(ctx, m.slots, store.SlotUser, &u)
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.user, m.token = nil, ""
		m.publish(EventRestored, notify.Notice{})
		return nil
	case err != nil:
		return fmt.Errorf("restore user: %w", err)
	}
	tok, err := m.slots.Get(ctx, store.SlotToken)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("restore token: %w", err)
	}
	m.user, m.token = &u, string(tok)
	m.publish(EventRestored, notify.Notice{})
	return nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (Outcome, error) {
	token, u, err := m.remoteLogin(ctx, email, password)
	if err == nil {
		if err := m.signIn(ctx, u, token); err != nil {
			return m.fail(EventLoginFailed, msgLoginFailed), err
		}
		return m.succeed(EventLoggedIn, msgLoginOK, false), nil
	}

	var rej rejection
	if errors.As(err, &rej) {
		return m.fail(EventLoginFailed, messageOr(rej, msgLoginFailed)), nil
	}
	if !m.demo {
		m.log.Warn("login: auth service unavailable", "error", err)
		return m.unavailable(EventLoginFailed), nil
	}

	m.log.Warn("login: auth service unavailable, using demo credentials", "error", err)
	if email != DemoEmail || password != DemoPassword {
		return m.fail(EventLoginFailed, msgLoginDemoHint), nil
	}
	if err := m.signIn(ctx, DemoUser(), DemoToken); err != nil {
		return m.fail(EventLoginFailed, msgLoginFailed), err
	}
	return m.succeed(EventLoggedIn, msgLoginOK, true), nil
}

// Register creates an account remotely. It never signs the user in.
func (m *Manager) Register(ctx context.Context, r Registration) (Outcome, error) {
	if msg := validateRegistration(r); msg != "" {
		return m.fail(EventRegisterFailed, msg), nil
	}

	err := errNoRemote
	if m.auth != nil {
		err = m.auth.Register(ctx, r)
	}
	if err == nil {
		return m.succeed(EventRegistered, msgRegisterOK, false), nil
	}

	var rej rejection
	if errors.As(err, &rej) {
		return m.fail(EventRegisterFailed, messageOr(rej, msgRegisterFailed)), nil
	}
	if !m.demo {
		m.log.Warn("register: auth service unavailable", "error", err)
		return m.unavailable(EventRegisterFailed), nil
	}
	// Demo mode reports success although nothing was created.
	m.log.Warn("register: auth service unavailable, reporting simulated success",
		"email", r.Email, "error", err)
	return m.succeed(EventRegistered, msgRegisterDemo, true), nil
}

// Logout drops the user, token and cart slots. Order history is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.slots.Delete(ctx, store.SlotUser, store.SlotToken, store.SlotCart); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.user, m.token = nil, ""
	m.publish(EventLoggedOut, notify.Info(msgLoggedOut))
	return nil
}

func (m *Manager) UpdateProfile(ctx context.Context, p ProfilePatch) (Outcome, error) {
	if m.user == nil {
		return m.fail(EventProfileUpdateFailed, msgProfileLogin), nil
	}

	err := errNoRemote
	var updated User
	if m.auth != nil {
		updated, err = m.auth.UpdateProfile(ctx, m.token, p)
	}
	simulated := false
	if err != nil {
		var rej rejection
		if errors.As(err, &rej) {
			return m.fail(EventProfileUpdateFailed, messageOr(rej, msgProfileFailed)), nil
		}
		if !m.demo {
			m.log.Warn("update profile: auth service unavailable", "error", err)
			return m.unavailable(EventProfileUpdateFailed), nil
		}
		m.log.Warn("update profile: auth service unavailable, applying locally", "error", err)
		updated, simulated = p.Apply(*m.user), true
	}

	if err := store.PutJSON(ctx, m.slots, store.SlotUser, updated); err != nil {
		return m.fail(EventProfileUpdateFailed, msgProfileFailed), fmt.Errorf("persist user: %w", err)
	}
	m.user = &updated
	return m.succeed(EventProfileUpdated, msgProfileOK, simulated), nil
}

func (m *Manager) remoteLogin(ctx context.Context, email, password string) (string, User, error) {
	if m.auth == nil {
		return "", User{}, errNoRemote
	}
	return m.auth.Login(ctx, email, password)
}

func (m *Manager) signIn(ctx context.Context, u User, token string) error {
	if err := store.PutJSON(ctx, m.slots, store.SlotUser, u); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	if err := m.slots.Put(ctx, store.SlotToken, []byte(token)); err != nil {
		_ = m.slots.Delete(ctx, store.SlotUser)
		return fmt.Errorf("persist token: %w", err)
	}
	m.user, m.token = &u, token
	return nil
}

func (m *Manager) succeed(kind EventKind, msg string, simulated bool) Outcome {
	m.publish(kind, notify.Success(msg))
	return Outcome{OK: true, Message: msg, Simulated: simulated}
}

func (m *Manager) fail(kind EventKind, msg string) Outcome {
	m.publish(kind, notify.Error(msg))
	return Outcome{OK: false, Message: msg}
}

func (m *Manager) unavailable(kind EventKind) Outcome {
	out := m.fail(kind, msgUnavailable)
	out.Unavailable = true
	return out
}

func (m *Manager) publish(kind EventKind, n notify.Notice) {
	e := Event{Kind: kind, Notice: n}
	if m.user != nil {
		u := *m.user
		e.User = &u
	}
	m.hub.Publish(e)
}

func messageOr(r rejection, def string) string {
	if msg := r.UserMessage(); msg != "" {
		return msg
	}
	return def
}

func validateRegistration(r Registration) string {
	for _, f := range []struct{ name, value string }{
		{"name", r.Name}, {"email", r.Email}, {"password", r.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return f.name + " is required"
		}
	}
	return ""
}
