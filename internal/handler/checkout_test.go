package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/sabor-fitness/api/internal/checkout"
)

type checkoutView struct {
	Step         string `json:"step"`
	OrderType    string `json:"order_type"`
	DeliveryInfo struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"delivery_info"`
	PaymentMethod string `json:"payment_method"`
	OrderID       string `json:"order_id"`
	Pix           *struct {
		Code string `json:"code"`
	} `json:"pix"`
}

func decodeCheckout(t *testing.T, body []byte) checkoutView {
	t.Helper()
	var v checkoutView
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode checkout response: %v", err)
	}
	return v
}

func (e *env) fillCart(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/cart/items",
		`{"id":1,"name":"Marmita Fit","price":"25.90","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("fill cart: status = %d, body = %s", rec.Code, rec.Body)
	}
}

const infoBody = `{"order_type":"delivery","delivery_info":{"name":"Maria","phone":"99981036660","address":"Rua A, 10"}}`

func (e *env) advanceTo(t *testing.T, step string) {
	t.Helper()
	steps := []struct {
		name, method, path, body string
	}{
		{"payment", http.MethodPost, "/checkout/info", infoBody},
		{"confirmation", http.MethodPost, "/checkout/payment", `{"payment_method":"cash"}`},
	}
	for _, s := range steps {
		rec := e.do(t, s.method, s.path, s.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("advance to %s: status = %d, body = %s", s.name, rec.Code, rec.Body)
		}
		if s.name == step {
			return
		}
	}
	t.Fatalf("unknown step %q", step)
}

func TestCheckoutStartsAtInfo(t *testing.T) {
	e := newEnv(t)
	v := decodeCheckout(t, e.do(t, http.MethodGet, "/checkout", "").Body.Bytes())
	if v.Step != "info" {
		t.Errorf("step = %s, want info", v.Step)
	}
	if v.OrderType != "delivery" || v.PaymentMethod != "credit" {
		t.Errorf("unexpected defaults: %+v", v)
	}
}

func TestCheckoutFullFlowCash(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.submit.submitFn = func(_ context.Context, req checkout.SubmitRequest) (checkout.SubmitResult, error) {
		if req.Total.StringFixed(2) != "51.80" {
			t.Errorf("submitted total = %s, want 51.80", req.Total.StringFixed(2))
		}
		return checkout.SubmitResult{OrderID: "srv-42"}, nil
	}

	e.advanceTo(t, "confirmation")

	rec := e.do(t, http.MethodPost, "/checkout/confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d, body = %s", rec.Code, rec.Body)
	}

	var o struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if o.ID != "srv-42" {
		t.Errorf("order id = %s, want the server-assigned srv-42", o.ID)
	}
	if o.Status != "pending" || o.Total != "51.80" {
		t.Errorf("order = %+v", o)
	}

	// Cash orders finish immediately and clear the cart.
	v := decodeCheckout(t, e.do(t, http.MethodGet, "/checkout", "").Body.Bytes())
	if v.Step != "success" || v.OrderID != "srv-42" {
		t.Errorf("after confirm: step = %s, order_id = %s", v.Step, v.OrderID)
	}
	cv := decodeCart(t, e.do(t, http.MethodGet, "/cart", "").Body.Bytes())
	if len(cv.Items) != 0 {
		t.Error("cart not cleared after non-pix confirmation")
	}

	if _, ok := e.orders.GetOrder("srv-42"); !ok {
		t.Error("confirmed order missing from the store")
	}
}

func TestCheckoutPixFlow(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "payment")

	rec := e.do(t, http.MethodPost, "/checkout/payment", `{"payment_method":"pix"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("payment: status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/checkout/confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d, body = %s", rec.Code, rec.Body)
	}

	v := decodeCheckout(t, e.do(t, http.MethodGet, "/checkout", "").Body.Bytes())
	if v.Step != "pix" {
		t.Fatalf("step = %s, want pix", v.Step)
	}
	if v.Pix == nil || v.Pix.Code != "pix-code-br" {
		t.Errorf("pix payload = %+v", v.Pix)
	}

	// The cart survives until the PIX payment is confirmed.
	if cv := decodeCart(t, e.do(t, http.MethodGet, "/cart", "").Body.Bytes()); len(cv.Items) == 0 {
		t.Error("cart cleared before pix confirmation")
	}

	rec = e.do(t, http.MethodPost, "/checkout/pix/confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pix confirm: status = %d, body = %s", rec.Code, rec.Body)
	}
	v = decodeCheckout(t, rec.Body.Bytes())
	if v.Step != "success" {
		t.Errorf("step = %s, want success", v.Step)
	}
	if cv := decodeCart(t, e.do(t, http.MethodGet, "/cart", "").Body.Bytes()); len(cv.Items) != 0 {
		t.Error("cart not cleared after pix confirmation")
	}
	if o := e.orders.Orders(); len(o) != 1 || !o[0].PixPaid {
		t.Errorf("orders = %+v", o)
	}
}

func TestCheckoutValidationStatuses(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing name", http.MethodPost, "/checkout/info",
			`{"order_type":"delivery","delivery_info":{"phone":"1","address":"a"}}`, http.StatusBadRequest},
		{"missing address for delivery", http.MethodPost, "/checkout/info",
			`{"order_type":"delivery","delivery_info":{"name":"M","phone":"1"}}`, http.StatusBadRequest},
		{"bad order type", http.MethodPost, "/checkout/info",
			`{"order_type":"drone","delivery_info":{"name":"M","phone":"1","address":"a"}}`, http.StatusBadRequest},
		{"payment before info", http.MethodPost, "/checkout/payment",
			`{"payment_method":"cash"}`, http.StatusUnprocessableEntity},
		{"confirm at info", http.MethodPost, "/checkout/confirm", "", http.StatusUnprocessableEntity},
		{"pix confirm at info", http.MethodPost, "/checkout/pix/confirm", "", http.StatusUnprocessableEntity},
		{"back at info", http.MethodPost, "/checkout/back", "", http.StatusUnprocessableEntity},
		{"whatsapp link at info", http.MethodGet, "/checkout/whatsapp-link", "", http.StatusUnprocessableEntity},
		{"bad json", http.MethodPost, "/checkout/info", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.fillCart(t)
			rec := e.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body = %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestCheckoutConfirmEmptyCart(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "confirmation")
	e.do(t, http.MethodDelete, "/cart", "")

	rec := e.do(t, http.MethodPost, "/checkout/confirm", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestCheckoutRemoteRejectionIs502(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.submit.submitFn = func(context.Context, checkout.SubmitRequest) (checkout.SubmitResult, error) {
		return checkout.SubmitResult{}, &checkout.RemoteError{Message: "Estoque insuficiente"}
	}
	e.advanceTo(t, "confirmation")

	rec := e.do(t, http.MethodPost, "/checkout/confirm", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Estoque insuficiente") {
		t.Errorf("body = %s, want the upstream message", rec.Body)
	}

	// The flow stays at confirmation so the client can retry.
	v := decodeCheckout(t, e.do(t, http.MethodGet, "/checkout", "").Body.Bytes())
	if v.Step != "confirmation" {
		t.Errorf("step = %s, want confirmation", v.Step)
	}
	if len(e.orders.Orders()) != 0 {
		t.Error("rejected submission recorded an order")
	}
}

func TestCheckoutBack(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "confirmation")

	v := decodeCheckout(t, e.do(t, http.MethodPost, "/checkout/back", "").Body.Bytes())
	if v.Step != "payment" {
		t.Fatalf("step = %s, want payment", v.Step)
	}
	if v.DeliveryInfo.Name != "Maria" {
		t.Error("draft lost on back navigation")
	}
}

func TestCheckoutWhatsAppLink(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "confirmation")

	rec := e.do(t, http.MethodGet, "/checkout/whatsapp-link", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var v struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(v.URL, "https://wa.me/5599981036660?text=") {
		t.Errorf("url = %s", v.URL)
	}
}

func TestCheckoutCancelRequiresConfirm(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "confirmation")

	rec := e.do(t, http.MethodPost, "/checkout/cancel", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("cancel without confirm: status = %d, want 409", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/checkout/cancel", `{"confirm":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel with confirm: status = %d", rec.Code)
	}
	if v := decodeCheckout(t, rec.Body.Bytes()); v.Step != "info" {
		t.Errorf("step = %s, want info", v.Step)
	}
}

func TestCheckoutResetAfterSuccess(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	e.advanceTo(t, "confirmation")
	if rec := e.do(t, http.MethodPost, "/checkout/confirm", ""); rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d", rec.Code)
	}

	v := decodeCheckout(t, e.do(t, http.MethodPost, "/checkout/reset", "").Body.Bytes())
	if v.Step != "info" || v.OrderID != "" {
		t.Errorf("after reset: %+v", v)
	}
	if len(e.orders.Orders()) != 1 {
		t.Error("reset must not discard recorded orders")
	}
}
