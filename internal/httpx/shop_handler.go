package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/basket"
	"github.com/ariefcatur/go-food-orders/internal/catalog"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/shop"
	"github.com/go-chi/chi/v5"
)

type ShopHandler struct {
	Catalog *catalog.Catalog
	Log     *slog.Logger
}

type addItemReq struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

type statusReq struct {
	Status string `json:"status"`
}

type orderResp struct {
	orders.Order
	StatusLabel       string `json:"status_label"`
	StatusDescription string `json:"status_description"`
}

func toOrderResp(o orders.Order) orderResp {
	return orderResp{Order: o, StatusLabel: o.Status.Label(), StatusDescription: o.Status.Description()}
}

func (h *ShopHandler) Register(r chi.Router) {
	r.Get("/basket", h.getBasket)
	r.Delete("/basket", h.clearBasket)
	r.Post("/basket/items", h.addItem)
	r.Put("/basket/items/{id}", h.updateItem)
	r.Delete("/basket/items/{id}", h.removeItem)

	r.Post("/checkout", h.checkout)

	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/reorder", h.reorder)
	r.Put("/orders/{id}/status", h.updateStatus)
}

func (h *ShopHandler) getBasket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workspaceFrom(r.Context()).Basket())
}

func (h *ShopHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity > basket.MaxQuantity {
		writeError(w, http.StatusBadRequest, "quantity out of range")
		return
	}
	p, err := h.Catalog.Product(req.ItemID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	view, err := ws.AddItem(ctx, p, req.Quantity)
	h.basketResult(w, ws, "add item", view, err)
}

func (h *ShopHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req quantityReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity > basket.MaxQuantity {
		writeError(w, http.StatusBadRequest, "quantity out of range")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	view, err := ws.UpdateQuantity(ctx, id, req.Quantity)
	h.basketResult(w, ws, "update quantity", view, err)
}

func (h *ShopHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	view, err := ws.RemoveItem(ctx, id)
	h.basketResult(w, ws, "remove item", view, err)
}

func (h *ShopHandler) clearBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	view, err := ws.ClearBasket(ctx)
	h.basketResult(w, ws, "clear basket", view, err)
}

func (h *ShopHandler) basketResult(w http.ResponseWriter, ws *shop.Workspace, op string, view shop.BasketView, err error) {
	if errors.Is(err, basket.ErrQuantityTooLarge) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error(op, "workspace", ws.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "could not update basket")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ShopHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	res, err := ws.Checkout(ctx)
	switch {
	case errors.Is(err, shop.ErrLoginRequired):
		writeJSON(w, http.StatusUnauthorized, res)
	case errors.Is(err, shop.ErrEmptyBasket):
		writeJSON(w, http.StatusUnprocessableEntity, res)
	case err != nil:
		h.Log.Error("checkout", "workspace", ws.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, res)
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}

func (h *ShopHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	if _, ok := ws.User(); !ok {
		writeError(w, http.StatusUnauthorized, "Please login to view your orders")
		return
	}
	list := ws.Orders()
	out := make([]orderResp, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResp(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ShopHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := workspaceFrom(r.Context()).Order(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toOrderResp(o))
}

func (h *ShopHandler) reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	res, err := ws.Reorder(ctx, id)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, basket.ErrQuantityTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.Log.Error("reorder", "workspace", ws.Name(), "order_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "reorder failed")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *ShopHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	st, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ws := workspaceFrom(ctx)
	o, err := ws.ApplyStatus(ctx, id, st)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("update status", "workspace", ws.Name(), "order_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "status update failed")
	default:
		writeJSON(w, http.StatusOK, toOrderResp(o))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
