package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/checkout"
	"github.com/sabor-fitness/api/internal/handler"
	"github.com/sabor-fitness/api/internal/middleware"
	"github.com/sabor-fitness/api/internal/order"
	"github.com/sabor-fitness/api/internal/order/storage"
	"github.com/sabor-fitness/api/internal/session"
)

// --- Shared test environment for session-scoped handlers ---

// memStorage is an in-memory storage.Store.
type memStorage struct{ data []byte }

func (m *memStorage) Load(_ context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, storage.ErrNotFound
	}
	return m.data, nil
}

func (m *memStorage) Save(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

// mockSubmitter is a func-field Submitter.
type mockSubmitter struct {
	submitFn func(ctx context.Context, req checkout.SubmitRequest) (checkout.SubmitResult, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, req checkout.SubmitRequest) (checkout.SubmitResult, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, req)
	}
	return checkout.SubmitResult{}, nil
}

type env struct {
	router  chi.Router
	session *session.Session
	orders  *order.Store
	submit  *mockSubmitter
}

func newEnv(t *testing.T) *env {
	t.Helper()

	orders := order.NewStore(context.Background(), &memStorage{})
	submit := &mockSubmitter{}

	sessions := session.NewRegistry(func(c *cart.Cart) *checkout.Checkout {
		return checkout.New(c, orders, submit, checkout.Options{
			PixCode:        "pix-code-br",
			WhatsAppNumber: "5599981036660",
		})
	})
	sess := sessions.Create()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.WithSession(sessions))
		r.Route("/cart", handler.NewCartHandler().RegisterRoutes)
		r.Route("/checkout", handler.NewCheckoutHandler().RegisterRoutes)
		r.Route("/orders", handler.NewOrderHandler(orders).RegisterRoutes)
	})

	return &env{router: r, session: sess, orders: orders, submit: submit}
}

// do issues a request as the environment's session.
func (e *env) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: e.session.ID})
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
