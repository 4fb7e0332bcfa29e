// Package shop ties the session, basket and order history of one client
// workspace together and implements the flows that span them.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/basket"
	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/session"
	"github.com/ariefcatur/go-food-orders/internal/store"
)

var (
	ErrLoginRequired = errors.New("login required")
	ErrEmptyBasket   = errors.New("basket is empty")
)

const (
	msgLoginToCheckout = "Please login to continue with checkout"
	msgEmptyBasket     = "Your cart is empty"
	msgOrderPlaced     = "Order placed successfully!"
	msgCheckoutFailed  = "Failed to place order"
	msgReordered       = "Items added to cart!"

	redirectLogin  = "/login"
	redirectOrders = "/orders"
	redirectCart   = "/cart"
)

// Result is what a flow hands back to the presentation layer.
type Result struct {
	Notice   notify.Notice `json:"notice"`
	Redirect string        `json:"redirect,omitempty"`
	Order    *orders.Order `json:"order,omitempty"`
}

// BasketView is the basket with the amounts a checkout would charge.
type BasketView struct {
	Lines  []orders.Line `json:"lines"`
	Count  int           `json:"count"`
	Totals orders.Totals `json:"totals"`
}

// Deps are shared by every workspace of a process.
type Deps struct {
	Auth      session.Authenticator
	DemoMode  bool
	Fees      orders.Fees
	Publisher Publisher // nil disables events
	Service   string
	Logger    *slog.Logger
	Now       func() time.Time
}

// Workspace is safe for concurrent use; every operation holds its lock.
type Workspace struct {
	mu sync.Mutex

	name    string
	session *session.Manager
	basket  *basket.Basket
	history *orders.History

	fees    orders.Fees
	pub     Publisher
	service string
	now     func() time.Time
	log     *slog.Logger
}

// Open builds the workspace over slots and restores its persisted state.
func Open(ctx context.Context, name string, slots store.Slots, d Deps) (*Workspace, error) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("workspace", name)
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Fees == (orders.Fees{}) {
		d.Fees = orders.DefaultFees()
	}

	w := &Workspace{
		name:    name,
		session: session.NewManager(slots, d.Auth, session.Options{DemoMode: d.DemoMode, Logger: log}),
		basket:  basket.New(slots, log),
		history: orders.NewHistory(slots, log),
		fees:    d.Fees,
		pub:     d.Publisher,
		service: d.Service,
		now:     d.Now,
		log:     log,
	}
	// the session already deleted the cart slot on logout
	w.session.Subscribe(func(e session.Event) {
		if e.Kind == session.EventLoggedOut {
			w.basket.Reset()
		}
	})

	if err := w.session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", name, err)
	}
	if err := w.basket.Load(ctx); err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", name, err)
	}
	if err := w.history.Load(ctx, w.now()); err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", name, err)
	}
	return w, nil
}

func (w *Workspace) Name() string { return w.name }

func (w *Workspace) User() (session.User, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.User()
}

func (w *Workspace) Login(ctx context.Context, email, password string) (session.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Login(ctx, email, password)
}

func (w *Workspace) Register(ctx context.Context, r session.Registration) (session.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Register(ctx, r)
}

func (w *Workspace) Logout(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Logout(ctx)
}

func (w *Workspace) UpdateProfile(ctx context.Context, p session.ProfilePatch) (session.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.UpdateProfile(ctx, p)
}

func (w *Workspace) Basket() BasketView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.basketView()
}

func (w *Workspace) AddItem(ctx context.Context, p orders.Product, qty int) (BasketView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.basket.AddItem(ctx, p, qty)
	return w.basketView(), err
}

func (w *Workspace) UpdateQuantity(ctx context.Context, id int64, qty int) (BasketView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.basket.UpdateQuantity(ctx, id, qty)
	return w.basketView(), err
}

func (w *Workspace) RemoveItem(ctx context.Context, id int64) (BasketView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.basket.RemoveItem(ctx, id)
	return w.basketView(), err
}

func (w *Workspace) ClearBasket(ctx context.Context) (BasketView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.basket.Clear(ctx)
	return w.basketView(), err
}

func (w *Workspace) Orders() []orders.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.Orders()
}

func (w *Workspace) Order(id int64) (orders.Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.history.Get(id)
	if !ok {
		return orders.Order{}, fmt.Errorf("%w: %d", orders.ErrOrderNotFound, id)
	}
	return o, nil
}

// Checkout turns the basket into a confirmed order at the head of the
// history and empties the basket.
func (w *Workspace) Checkout(ctx context.Context) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	u, ok := w.session.User()
	if !ok {
		return Result{Notice: notify.Info(msgLoginToCheckout), Redirect: redirectLogin}, ErrLoginRequired
	}
	if w.basket.Empty() {
		return Result{Notice: notify.Error(msgEmptyBasket)}, ErrEmptyBasket
	}

	at := w.now().UTC()
	o := orders.Snapshot(w.history.NextID(at), w.basket.Lines(), w.fees, at)
	o.DeliveryAddress = u.Address
	if err := w.history.Prepend(ctx, o); err != nil {
		return Result{Notice: notify.Error(msgCheckoutFailed)}, fmt.Errorf("checkout: %w", err)
	}
	if err := w.basket.Clear(ctx); err != nil {
		// the order stands; a stale cart slot only costs the user a manual clear
		w.log.Error("checkout: clear basket", "order_id", o.ID, "error", err)
	}
	w.log.Info("order placed", "order_id", o.ID, "items", len(o.Items), "total", o.Total.StringFixed(2))

	payload := orders.NewOrderPlacedPayload(w.name, u.ID, o)
	w.emit(ctx, orders.TopicOrderPlaced, orders.EventOrderPlaced, o.ID, payload)
	return Result{Notice: notify.Success(msgOrderPlaced), Redirect: redirectOrders, Order: &o}, nil
}

// Reorder adds every line of order id back into the basket with the
// quantity it was ordered in.
func (w *Workspace) Reorder(ctx context.Context, id int64) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	o, ok := w.history.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", orders.ErrOrderNotFound, id)
	}
	for _, l := range o.Items {
		if err := w.basket.AddItem(ctx, l.Product, l.Quantity); err != nil {
			return Result{}, fmt.Errorf("reorder %d: %w", id, err)
		}
	}
	return Result{Notice: notify.Success(msgReordered), Redirect: redirectCart}, nil
}

// ApplyStatus moves an order along its lifecycle and announces the change.
func (w *Workspace) ApplyStatus(ctx context.Context, id int64, to orders.Status) (orders.Order, error) {
	return w.advance(ctx, id, to, true)
}

// ObserveStatus records a status change that was announced elsewhere.
func (w *Workspace) ObserveStatus(ctx context.Context, id int64, to orders.Status) (orders.Order, error) {
	return w.advance(ctx, id, to, false)
}

func (w *Workspace) advance(ctx context.Context, id int64, to orders.Status, announce bool) (orders.Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	before, ok := w.history.Get(id)
	if !ok {
		return orders.Order{}, fmt.Errorf("%w: %d", orders.ErrOrderNotFound, id)
	}
	o, err := w.history.Advance(ctx, id, to, w.now())
	if err != nil {
		return orders.Order{}, err
	}
	if announce && before.Status != o.Status {
		w.emit(ctx, orders.TopicOrderStatus, orders.EventStatusUpdated, id, orders.OrderStatusPayload{
			Workspace: w.name,
			OrderID:   id,
			Status:    o.Status,
		})
	}
	return o, nil
}

func (w *Workspace) basketView() BasketView {
	v := BasketView{Lines: w.basket.Lines(), Count: w.basket.Count()}
	if w.basket.Empty() {
		v.Totals = orders.Totals{}
		return v
	}
	v.Totals = w.fees.Apply(w.basket.Total())
	return v
}

// emit publishes best effort: the state change is already persisted.
func (w *Workspace) emit(ctx context.Context, topic, eventType string, orderID int64, payload any) {
	if w.pub == nil {
		return
	}
	env, err := orders.NewEnvelope(eventType, w.service, orders.CorrelationID(w.name, orderID), payload)
	if err != nil {
		w.log.Error("build event", "event_type", eventType, "error", err)
		return
	}
	if err := w.pub.Publish(ctx, topic, orders.PartitionKey(w.name), env); err != nil {
		w.log.Error("publish event", "event_type", eventType, "order_id", orderID, "error", err)
	}
}
