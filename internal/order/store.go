package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/enum"
	"github.com/sabor-fitness/api/internal/order/storage"
	"github.com/shopspring/decimal"
)

// DeliveryInfo is the customer data collected at checkout. Address and
// Complement are only meaningful for delivery orders.
type DeliveryInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Observation  string `json:"observation,omitempty"`
}

// Order is a durable record of a completed checkout. Items is a snapshot:
// cart mutations after creation never reach a placed order.
//
// The JSON field names are the persisted format; the whole order list is
// serialized as one array under the storage namespace key.
type Order struct {
	ID            string          `json:"id"`
	Items         []cart.Item     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	OrderType     string          `json:"orderType"`
	PaymentMethod string          `json:"paymentMethod"`
	DeliveryInfo  DeliveryInfo    `json:"deliveryInfo"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	PixPaid       bool            `json:"pixPaid,omitempty"`
}

// CreateOrder is the input for Store.AddOrder. ID may carry the
// server-assigned identifier; when empty a fresh UUID is generated.
type CreateOrder struct {
	ID            string
	Items         []cart.Item
	Total         decimal.Decimal
	OrderType     string
	PaymentMethod string
	DeliveryInfo  DeliveryInfo
}

// Store holds the submitted orders, newest first, and writes the whole list
// through to its storage backend on every mutation. Orders are only ever
// appended; they are never deleted.
type Store struct {
	mu      sync.Mutex
	orders  []Order
	storage storage.Store
}

// NewStore creates a Store backed by st, restoring any previously persisted
// order list. Absent or corrupt state degrades to an empty list.
func NewStore(ctx context.Context, st storage.Store) *Store {
	s := &Store{storage: st}

	data, err := st.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ERROR: load saved orders: %v", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.orders); err != nil {
		log.Printf("ERROR: parse saved orders, starting empty: %v", err)
		s.orders = nil
	}
	return s
}

// AddOrder creates an order with status pending, stamps it, prepends it to
// the list and persists. The items slice is deep-copied.
func (s *Store) AddOrder(ctx context.Context, data CreateOrder) Order {
	id := data.ID
	if id == "" {
		id = uuid.NewString()
	}

	items := make([]cart.Item, len(data.Items))
	copy(items, data.Items)

	o := Order{
		ID:            id,
		Items:         items,
		Total:         data.Total,
		OrderType:     data.OrderType,
		PaymentMethod: data.PaymentMethod,
		DeliveryInfo:  data.DeliveryInfo,
		Status:        enum.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]Order{o}, s.orders...)
	s.persistLocked(ctx)
	return o
}

// GetOrder returns the order with the given id, if present.
func (s *Store) GetOrder(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// Orders returns a copy of the order list, newest first.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// UpdateOrderStatus replaces the status of the matching order. No-op when
// the id is absent.
func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.persistLocked(ctx)
			return
		}
	}
}

// MarkPixAsPaid flips pixPaid on the matching order. Idempotent; no-op when
// the id is absent.
func (s *Store) MarkPixAsPaid(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].PixPaid = true
			s.persistLocked(ctx)
			return
		}
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.orders)
	if err != nil {
		log.Printf("ERROR: serialize orders: %v", err)
		return
	}
	if err := s.storage.Save(ctx, data); err != nil {
		log.Printf("ERROR: persist orders: %v", err)
	}
}
