package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sabor-fitness/api/internal/enum"
)

const submitTimeout = 15 * time.Second

// ErrConnection is a transport failure reaching the submission endpoint.
// The message is shown to the customer with a retry affordance.
var ErrConnection = errors.New("Erro de conexão. Tente novamente.")

// RemoteError is a rejection from the submission endpoint, carrying its
// user-facing message.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Client submits orders to the external order API. Implements Submitter.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: submitTimeout},
	}
}

// Wire payload: PT-BR enum values, numeric prices, status always pendente.

type submitPayload struct {
	DeliveryInfo  submitDeliveryInfo  `json:"deliveryInfo"`
	OrderType     string              `json:"orderType"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        string              `json:"status"`
	Total         float64             `json:"total"`
	Items         []submitItemPayload `json:"items"`
}

type submitDeliveryInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Complement   string `json:"complement"`
	Instructions string `json:"instructions"`
	Observation  string `json:"observation"`
}

type submitItemPayload struct {
	ID       int     `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type submitResponse struct {
	Status   string `json:"status"`
	PedidoID string `json:"pedidoId"`
	Message  string `json:"message"`
}

// Submit POSTs the order draft. Remote rejections come back as *RemoteError;
// transport failures wrap ErrConnection. Neither creates anything locally.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	items := make([]submitItemPayload, len(req.Items))
	for i, it := range req.Items {
		items[i] = submitItemPayload{
			ID:       it.ID,
			Quantity: it.Quantity,
			Price:    it.Price.InexactFloat64(),
		}
	}

	payload := submitPayload{
		DeliveryInfo: submitDeliveryInfo{
			Name:         req.Draft.DeliveryInfo.Name,
			Phone:        req.Draft.DeliveryInfo.Phone,
			Address:      req.Draft.DeliveryInfo.Address,
			Complement:   req.Draft.DeliveryInfo.Complement,
			Instructions: req.Draft.DeliveryInfo.Instructions,
			Observation:  req.Draft.DeliveryInfo.Observation,
		},
		OrderType:     enum.WireOrderType(req.Draft.OrderType),
		PaymentMethod: enum.WirePaymentMethod(req.Draft.PaymentMethod),
		Status:        enum.WireOrderStatusPending,
		Total:         req.Total.InexactFloat64(),
		Items:         items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("marshal order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if sr.Status != "success" {
		msg := sr.Message
		if msg == "" {
			msg = "Erro ao processar o pedido"
		}
		return SubmitResult{}, &RemoteError{Message: msg}
	}

	return SubmitResult{OrderID: sr.PedidoID}, nil
}
