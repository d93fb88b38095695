package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sabor-fitness/api/internal/config"
	"github.com/sabor-fitness/api/internal/handler"
	mw "github.com/sabor-fitness/api/internal/middleware"
	"github.com/sabor-fitness/api/internal/order"
	"github.com/sabor-fitness/api/internal/session"
)

// New creates a Chi router with all storefront routes wired up. Everything
// except /health and /menu runs behind the session middleware.
func New(cfg *config.Config, loader handler.MenuLoader, orders *order.Store, sessions *session.Registry) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true, // the session cookie
		MaxAge:           300,  // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	menuHandler := handler.NewMenuHandler(loader)
	r.Route("/menu", menuHandler.RegisterRoutes)

	// Session-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(mw.WithSession(sessions))

		cartHandler := handler.NewCartHandler()
		r.Route("/cart", cartHandler.RegisterRoutes)

		checkoutHandler := handler.NewCheckoutHandler()
		r.Route("/checkout", checkoutHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(orders)
		r.Route("/orders", orderHandler.RegisterRoutes)
	})

	return r
}
