// Package checkout drives the multi-step order flow: info -> payment ->
// confirmation -> pix -> success, with pix skipped for non-PIX payments.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/enum"
	"github.com/sabor-fitness/api/internal/order"
	"github.com/shopspring/decimal"
)

// Errors returned by the state machine.
var (
	ErrWrongStep            = errors.New("action not allowed in the current step")
	ErrInvalidOrderType     = errors.New("invalid order_type")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrNameRequired         = errors.New("name is required")
	ErrPhoneRequired        = errors.New("phone is required")
	ErrAddressRequired      = errors.New("address is required for delivery")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSubmitInFlight       = errors.New("order submission already in progress")
)

// Draft is the in-progress, not-yet-submitted checkout data.
type Draft struct {
	OrderType     string
	DeliveryInfo  order.DeliveryInfo
	PaymentMethod string
}

// Submitter sends an order draft to the external submission endpoint and
// returns the server-assigned identifier when one is given.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}

// SubmitRequest is the draft plus the cart snapshot being submitted.
type SubmitRequest struct {
	Draft Draft
	Items []cart.Item
	Total decimal.Decimal
}

// SubmitResult carries the upstream identifier, possibly empty.
type SubmitResult struct {
	OrderID string
}

// OrderCreator is the slice of the order store the checkout needs.
// Satisfied by *order.Store.
type OrderCreator interface {
	AddOrder(ctx context.Context, data order.CreateOrder) order.Order
	MarkPixAsPaid(ctx context.Context, id string)
}

// Options configure the static payment and handoff details.
type Options struct {
	PixCode        string
	WhatsAppNumber string
}

// backSteps maps each step to the step Back returns to. Steps missing from
// the map do not allow backward navigation.
var backSteps = map[string]string{
	enum.StepPayment:      enum.StepInfo,
	enum.StepConfirmation: enum.StepPayment,
}

// Checkout is one session's checkout flow. It owns the draft; the cart and
// order store are shared collaborators. A fresh instance always starts at
// the info step with an empty draft.
type Checkout struct {
	cart      *cart.Cart
	orders    OrderCreator
	submitter Submitter
	opts      Options

	mu         sync.Mutex
	step       string
	draft      Draft
	orderID    string
	submitting bool
	// gen detects a Reset that happened while a submission was in flight.
	gen int
}

func New(c *cart.Cart, orders OrderCreator, submitter Submitter, opts Options) *Checkout {
	return &Checkout{
		cart:      c,
		orders:    orders,
		submitter: submitter,
		opts:      opts,
		step:      enum.StepInfo,
		draft:     Draft{OrderType: enum.OrderTypeDelivery, PaymentMethod: enum.PaymentMethodCredit},
	}
}

// Step returns the current step.
func (c *Checkout) Step() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns the current draft values.
func (c *Checkout) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// OrderID returns the id of the order created by Confirm, if any.
func (c *Checkout) OrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}

// PixCode returns the static PIX copy-paste code.
func (c *Checkout) PixCode() string { return c.opts.PixCode }

// SubmitInfo records the order type and delivery info and advances to the
// payment step. Validation failures leave the step and draft untouched and
// trigger no network call.
func (c *Checkout) SubmitInfo(orderType string, info order.DeliveryInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != enum.StepInfo {
		return fmt.Errorf("%w: step is %s", ErrWrongStep, c.step)
	}
	if !enum.ValidOrderType(orderType) {
		return ErrInvalidOrderType
	}
	if info.Name == "" {
		return ErrNameRequired
	}
	if info.Phone == "" {
		return ErrPhoneRequired
	}
	if orderType == enum.OrderTypeDelivery {
		if info.Address == "" {
			return ErrAddressRequired
		}
	} else {
		// Address fields are meaningless for pickup.
		info.Address = ""
		info.Complement = ""
	}

	c.draft.OrderType = orderType
	c.draft.DeliveryInfo = info
	c.step = enum.StepPayment
	return nil
}

// SelectPayment records the payment method and advances to confirmation.
func (c *Checkout) SelectPayment(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != enum.StepPayment {
		return fmt.Errorf("%w: step is %s", ErrWrongStep, c.step)
	}
	if !enum.ValidPaymentMethod(method) {
		return ErrInvalidPaymentMethod
	}
	c.draft.PaymentMethod = method
	c.step = enum.StepConfirmation
	return nil
}

// Back returns to the previous step, preserving every entered value.
func (c *Checkout) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := backSteps[c.step]
	if !ok {
		return fmt.Errorf("%w: step is %s", ErrWrongStep, c.step)
	}
	c.step = prev
	return nil
}

// Confirm submits the draft upstream and, on success, records the order
// locally. For PIX the cart survives until ConfirmPixPayment; for every
// other method the cart is cleared and the flow completes.
//
// On any submission failure the step stays at confirmation, nothing is
// recorded locally, and the caller may retry. Retried submissions are not
// deduplicated upstream; the in-flight guard only prevents concurrent
// re-entry while a call is outstanding.
func (c *Checkout) Confirm(ctx context.Context) (order.Order, error) {
	c.mu.Lock()
	if c.step != enum.StepConfirmation {
		step := c.step
		c.mu.Unlock()
		return order.Order{}, fmt.Errorf("%w: step is %s", ErrWrongStep, step)
	}
	if c.submitting {
		c.mu.Unlock()
		return order.Order{}, ErrSubmitInFlight
	}

	items := c.cart.Items()
	if len(items) == 0 {
		c.mu.Unlock()
		return order.Order{}, ErrEmptyCart
	}
	total := c.cart.Total()
	draft := c.draft
	gen := c.gen
	c.submitting = true
	c.mu.Unlock()

	// The lock is released for the upstream call so that concurrent
	// Confirm attempts hit the in-flight guard instead of queueing a
	// second submission.
	result, err := c.submitter.Submit(ctx, SubmitRequest{
		Draft: draft,
		Items: items,
		Total: total,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return order.Order{}, err
	}

	// The upstream accepted the order, so it is recorded locally even if
	// the flow was reset while the call was outstanding.
	o := c.orders.AddOrder(ctx, order.CreateOrder{
		ID:            result.OrderID,
		Items:         items,
		Total:         total,
		OrderType:     draft.OrderType,
		PaymentMethod: draft.PaymentMethod,
		DeliveryInfo:  draft.DeliveryInfo,
	})
	if c.gen != gen {
		return o, nil
	}

	c.orderID = o.ID
	if draft.PaymentMethod == enum.PaymentMethodPix {
		c.step = enum.StepPix
	} else {
		c.cart.Clear()
		c.step = enum.StepSuccess
	}
	return o, nil
}

// ConfirmPixPayment records the customer's declaration that the PIX charge
// was paid, clears the cart and completes the flow.
func (c *Checkout) ConfirmPixPayment(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != enum.StepPix {
		return fmt.Errorf("%w: step is %s", ErrWrongStep, c.step)
	}
	c.orders.MarkPixAsPaid(ctx, c.orderID)
	c.cart.Clear()
	c.step = enum.StepSuccess
	return nil
}

// WhatsAppLink builds the wa.me handoff URL with the order summary.
// Available from confirmation on, without completing the flow.
func (c *Checkout) WhatsAppLink() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case enum.StepConfirmation, enum.StepPix:
	default:
		return "", fmt.Errorf("%w: step is %s", ErrWrongStep, c.step)
	}
	return whatsAppLink(c.opts.WhatsAppNumber, c.draft, c.cart.Items(), c.cart.Total()), nil
}

// Reset discards the draft and returns to a fresh info step. Persisted
// orders are never touched.
func (c *Checkout) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.draft = Draft{OrderType: enum.OrderTypeDelivery, PaymentMethod: enum.PaymentMethodCredit}
	c.orderID = ""
	c.step = enum.StepInfo
}
