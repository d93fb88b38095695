package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sabor-fitness/api/internal/checkout"
	"github.com/sabor-fitness/api/internal/enum"
	"github.com/sabor-fitness/api/internal/middleware"
	"github.com/sabor-fitness/api/internal/order"
)

// CheckoutHandler drives the session's checkout flow.
type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/info", h.SubmitInfo)
	r.Post("/payment", h.SelectPayment)
	r.Post("/back", h.Back)
	r.Post("/confirm", h.Confirm)
	r.Post("/pix/confirm", h.ConfirmPix)
	r.Get("/whatsapp-link", h.WhatsAppLink)
	r.Post("/cancel", h.Cancel)
	r.Post("/reset", h.Reset)
}

// --- Request / Response types ---

type deliveryInfoRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Complement   string `json:"complement"`
	Instructions string `json:"instructions"`
	Observation  string `json:"observation"`
}

type infoRequest struct {
	OrderType    string              `json:"order_type"`
	DeliveryInfo deliveryInfoRequest `json:"delivery_info"`
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type cancelRequest struct {
	Confirm bool `json:"confirm"`
}

type pixResponse struct {
	Code string `json:"code"`
}

type checkoutResponse struct {
	Step          string               `json:"step"`
	OrderType     string               `json:"order_type"`
	DeliveryInfo  deliveryInfoResponse `json:"delivery_info"`
	PaymentMethod string               `json:"payment_method"`
	OrderID       string               `json:"order_id,omitempty"`
	Pix           *pixResponse         `json:"pix,omitempty"`
}

type whatsAppLinkResponse struct {
	URL string `json:"url"`
}

// --- Handlers ---

// Get handles GET /checkout.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// SubmitInfo handles POST /checkout/info.
func (h *CheckoutHandler) SubmitInfo(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout

	var req infoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := ck.SubmitInfo(req.OrderType, order.DeliveryInfo{
		Name:         req.DeliveryInfo.Name,
		Phone:        req.DeliveryInfo.Phone,
		Address:      req.DeliveryInfo.Address,
		Complement:   req.DeliveryInfo.Complement,
		Instructions: req.DeliveryInfo.Instructions,
		Observation:  req.DeliveryInfo.Observation,
	})
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// SelectPayment handles POST /checkout/payment.
func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := ck.SelectPayment(req.PaymentMethod); err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// Back handles POST /checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout
	if err := ck.Back(); err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// Confirm handles POST /checkout/confirm. Submission failures keep the flow
// at confirmation and are surfaced with a retry affordance.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout

	o, err := ck.Confirm(r.Context())
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// ConfirmPix handles POST /checkout/pix/confirm.
func (h *CheckoutHandler) ConfirmPix(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout
	if err := ck.ConfirmPixPayment(r.Context()); err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// WhatsAppLink handles GET /checkout/whatsapp-link.
func (h *CheckoutHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout
	link, err := ck.WhatsAppLink()
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, whatsAppLinkResponse{URL: link})
}

// Cancel handles POST /checkout/cancel. Before the success step an explicit
// confirm flag is required, since the draft is about to be discarded.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout

	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	if ck.Step() != enum.StepSuccess && !req.Confirm {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "confirmation required to cancel the order in progress"})
		return
	}

	ck.Reset()
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// Reset handles POST /checkout/reset, the post-success restart.
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ck := middleware.SessionFromContext(r.Context()).Checkout
	ck.Reset()
	writeJSON(w, http.StatusOK, toCheckoutResponse(ck))
}

// --- Helpers ---

// writeCheckoutError maps state machine and submission errors to HTTP
// statuses: local validation 400, step/cart preconditions 422, in-flight
// 409, upstream failures 502.
func writeCheckoutError(w http.ResponseWriter, err error) {
	var remoteErr *checkout.RemoteError
	switch {
	case errors.Is(err, checkout.ErrNameRequired),
		errors.Is(err, checkout.ErrPhoneRequired),
		errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrInvalidOrderType),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrWrongStep),
		errors.Is(err, checkout.ErrEmptyCart):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &remoteErr), errors.Is(err, checkout.ErrConnection):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func toCheckoutResponse(ck *checkout.Checkout) checkoutResponse {
	draft := ck.Draft()
	resp := checkoutResponse{
		Step:          ck.Step(),
		OrderType:     draft.OrderType,
		PaymentMethod: draft.PaymentMethod,
		OrderID:       ck.OrderID(),
		DeliveryInfo: deliveryInfoResponse{
			Name:         draft.DeliveryInfo.Name,
			Phone:        draft.DeliveryInfo.Phone,
			Address:      draft.DeliveryInfo.Address,
			Complement:   draft.DeliveryInfo.Complement,
			Instructions: draft.DeliveryInfo.Instructions,
			Observation:  draft.DeliveryInfo.Observation,
		},
	}
	if resp.Step == enum.StepPix {
		resp.Pix = &pixResponse{Code: ck.PixCode()}
	}
	return resp
}
