// Package authapi talks to the remote account service.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/session"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUnavailable covers transport failures, 5xx answers, unreadable bodies
// and an open circuit.
var ErrUnavailable = errors.New("auth service unavailable")

// APIError is a 4xx answer. Its message is meant for the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) UserMessage() string { return e.Message }

type Config struct {
	BaseURL string // e.g. http://localhost:5000/api
	Timeout time.Duration
	Logger  *slog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[struct{}]
	log     *slog.Logger
}

var _ session.Authenticator = (*Client)(nil)

func New(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
	c.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "auth-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || errors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, session.User, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", session.User{}, err
	}
	if resp.Token == "" {
		return "", session.User{}, fmt.Errorf("%w: login response without token", ErrUnavailable)
	}
	return resp.Token, resp.User, nil
}

func (c *Client) Register(ctx context.Context, r session.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", r, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, p session.ProfilePatch) (session.User, error) {
	var u session.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", token, p, &u); err != nil {
		return session.User{}, err
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, path, token, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var e struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			// an error page we cannot read is treated like an outage
			return fmt.Errorf("%w: status %d with unreadable body", ErrUnavailable, resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
