package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sabor-fitness/api/internal/enum"
	"github.com/sabor-fitness/api/internal/order"
	"github.com/shopspring/decimal"
)

// OrderStore defines the order store methods the handlers need.
// Satisfied by *order.Store; narrow interface for testability.
type OrderStore interface {
	Orders() []order.Order
	GetOrder(id string) (order.Order, bool)
	UpdateOrderStatus(ctx context.Context, id, status string)
}

// OrderHandler exposes the order history.
type OrderHandler struct {
	store OrderStore
}

func NewOrderHandler(store OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type deliveryInfoResponse struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Observation  string `json:"observation,omitempty"`
}

type orderResponse struct {
	ID            string               `json:"id"`
	Items         []cartItemResponse   `json:"items"`
	Total         string               `json:"total"`
	OrderType     string               `json:"order_type"`
	PaymentMethod string               `json:"payment_method"`
	DeliveryInfo  deliveryInfoResponse `json:"delivery_info"`
	Status        string               `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	PixPaid       bool                 `json:"pix_paid"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// List handles GET /orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.store.Orders()
	resp := orderListResponse{Orders: make([]orderResponse, len(orders))}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, ok := h.store.GetOrder(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !enum.ValidOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	id := chi.URLParam(r, "id")
	o, ok := h.store.GetOrder(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	h.store.UpdateOrderStatus(r.Context(), id, req.Status)
	o.Status = req.Status
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// --- Helpers ---

func toOrderResponse(o order.Order) orderResponse {
	items := make([]cartItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = cartItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price.StringFixed(2),
			Image:    it.Image,
			Quantity: it.Quantity,
			Subtotal: it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		}
	}
	return orderResponse{
		ID:            o.ID,
		Items:         items,
		Total:         o.Total.StringFixed(2),
		OrderType:     o.OrderType,
		PaymentMethod: o.PaymentMethod,
		DeliveryInfo: deliveryInfoResponse{
			Name:         o.DeliveryInfo.Name,
			Phone:        o.DeliveryInfo.Phone,
			Address:      o.DeliveryInfo.Address,
			Complement:   o.DeliveryInfo.Complement,
			Instructions: o.DeliveryInfo.Instructions,
			Observation:  o.DeliveryInfo.Observation,
		},
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		PixPaid:   o.PixPaid,
	}
}
