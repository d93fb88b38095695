package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/middleware"
	"github.com/shopspring/decimal"
)

// CartHandler exposes the session cart.
type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{id}", h.UpdateQuantity)
	r.Delete("/items/{id}", h.RemoveItem)
}

// --- Request / Response types ---

type addItemRequest struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	Total      string             `json:"total"`
	TotalItems int                `json:"total_items"`
}

// --- Handlers ---

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart))
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be >= 1"})
		return
	}
	if req.Price.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must not be negative"})
		return
	}

	sess.Cart.Add(cart.Item{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	}, req.Quantity)

	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart))
}

// UpdateQuantity handles PATCH /cart/items/{id}. A quantity of zero or less
// removes the item.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess.Cart.UpdateQuantity(id, req.Quantity)
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart))
}

// RemoveItem handles DELETE /cart/items/{id}. Removing an absent item is
// not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	sess.Cart.Remove(id)
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	sess.Cart.Clear()
	writeJSON(w, http.StatusOK, toCartResponse(sess.Cart))
}

// --- Helpers ---

func toCartResponse(c *cart.Cart) cartResponse {
	items := c.Items()
	resp := cartResponse{
		Items:      make([]cartItemResponse, len(items)),
		Total:      c.Total().StringFixed(2),
		TotalItems: c.TotalItems(),
	}
	for i, it := range items {
		subtotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		resp.Items[i] = cartItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price.StringFixed(2),
			Image:    it.Image,
			Quantity: it.Quantity,
			Subtotal: subtotal.StringFixed(2),
		}
	}
	return resp
}
