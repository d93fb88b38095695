package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/catalog"
	"github.com/sabor-fitness/api/internal/checkout"
	"github.com/sabor-fitness/api/internal/config"
	"github.com/sabor-fitness/api/internal/order"
	"github.com/sabor-fitness/api/internal/order/storage"
	"github.com/sabor-fitness/api/internal/router"
	"github.com/sabor-fitness/api/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("init %s storage: %v", cfg.OrdersBackend, err)
	}

	orders := order.NewStore(ctx, store)
	loader := catalog.NewLoader(cfg.MenuAPIURL)
	submitter := checkout.NewClient(cfg.OrderAPIURL)

	sessions := session.NewRegistry(func(c *cart.Cart) *checkout.Checkout {
		return checkout.New(c, orders, submitter, checkout.Options{
			PixCode:        cfg.PixCode,
			WhatsAppNumber: cfg.WhatsAppNumber,
		})
	})
	sessions.StartSweeper(ctx, session.DefaultTTL/4)

	r := router.New(cfg, loader, orders, sessions)

	log.Printf("Starting server on :%s (orders backend: %s)", cfg.Port, cfg.OrdersBackend)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.OrdersBackend {
	case "file":
		return storage.NewFile(cfg.OrdersFile), nil
	case "redis":
		return storage.NewRedis(ctx, cfg.RedisURL)
	case "postgres":
		return storage.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown orders backend %q", cfg.OrdersBackend)
	}
}
