// Package catalog fetches the purchasable menu from the remote catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// Item is one purchasable menu entry.
type Item struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Tags        []string        `json:"tags"`
	Rating      float64         `json:"rating"`
	Featured    bool            `json:"featured,omitempty"`
}

// LoadError is a user-facing menu load failure. Message is safe to show to
// the customer; the cause is kept for logs.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Err }

// User-facing messages, kept from the storefront.
const (
	msgConnection = "Erro ao conectar com o servidor"
	msgLoad       = "Erro ao carregar os produtos"
)

// envelope is the remote response shape: status "success" with produtos, or
// a failure status with an optional message.
type envelope struct {
	Status   string `json:"status"`
	Produtos []Item `json:"produtos"`
	Message  string `json:"message"`
}

// Loader fetches the menu. One request per Load call; no retry, no cache.
type Loader struct {
	url    string
	client *http.Client
}

func NewLoader(url string) *Loader {
	return &Loader{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Load fetches and validates the menu. Transport failures and non-success
// statuses come back as a *LoadError carrying a displayable message.
func (l *Loader) Load(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, &LoadError{Message: msgConnection, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Message: msgConnection, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &LoadError{Message: msgLoad, Err: fmt.Errorf("decode menu response: %w", err)}
	}

	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = msgLoad
		}
		return nil, &LoadError{Message: msg, Err: fmt.Errorf("menu API status %q", env.Status)}
	}

	for i, it := range env.Produtos {
		if err := validateItem(it); err != nil {
			return nil, &LoadError{Message: msgLoad, Err: fmt.Errorf("produtos[%d]: %w", i, err)}
		}
	}
	return env.Produtos, nil
}

// validateItem rejects malformed catalog entries rather than trusting the
// remote shape.
func validateItem(it Item) error {
	if it.ID <= 0 {
		return fmt.Errorf("invalid id %d", it.ID)
	}
	if it.Name == "" {
		return fmt.Errorf("item %d: name is empty", it.ID)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("item %d: negative price", it.ID)
	}
	return nil
}
