package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/venuegate/storefront/internal/cart"
	"github.com/venuegate/storefront/internal/checkout"
	kafkax "github.com/venuegate/storefront/internal/kafka"
	"github.com/venuegate/storefront/internal/orders"
	"github.com/venuegate/storefront/internal/redisx"
)

type OrdersHandler struct {
	Store   *orders.Store
	Redis   *redis.Client
	Events  *kafkax.Producer
	Service string
}

type checkoutItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Type     string  `json:"type"`
	ImageURL string  `json:"image_url"`
}

type checkoutReq struct {
	UserName  string         `json:"user_name"`
	UserPhone string         `json:"user_phone"`
	Items     []checkoutItem `json:"items"`
}

type checkoutResp struct {
	OrderID   string  `json:"order_id"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	Status    string  `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/items", h.getOrderItems)
	r.Get("/orders", h.listOrders)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

// createOrder is the server-side checkout surface: the posted lines run
// through the same pipeline the client session uses.
func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session := cart.NewStore()
	for _, it := range req.Items {
		session.Add(cart.Item{ID: it.ID, Name: it.Name, Price: it.Price, Type: it.Type, ImageURL: it.ImageURL})
		if it.Quantity > 1 {
			session.UpdateQuantity(it.ID, it.Quantity)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := &checkout.Pipeline{Cart: session, Orders: h.Store, Events: h.Events, Service: h.Service}
	rcpt, err := p.Checkout(ctx, checkout.Contact{Name: req.UserName, Phone: req.UserPhone})
	if err != nil {
		var itemsErr *checkout.OrderItemsError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrMissingContact):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &itemsErr):
			// pending order without items; surface the id so support can find it
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, rcpt.OrderID)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusCreated, checkoutResp{
		OrderID:   rcpt.OrderID,
		Total:     round2(rcpt.Total),
		ItemCount: rcpt.ItemCount,
		Status:    string(orders.StatusPending),
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	status, err := h.Store.GetStatus(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	body := map[string]any{"status": status}
	b, _ := json.Marshal(body)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) getOrderItems(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Store.ListItems(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "missing phone")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Store.ListByPhone(ctx, phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for i := range out {
		out[i].TotalAmount = round2(out[i].TotalAmount)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Store.UpdateStatus(ctx, orderID, orders.Status(req.Status))
	switch {
	case err == nil:
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]string{"status": req.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// money is rounded to two decimals only at the response edge.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
