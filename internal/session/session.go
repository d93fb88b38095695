// Package session ties a cart and a checkout flow to an anonymous visitor.
// One cart and at most one active checkout per session.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/checkout"
)

// DefaultTTL is how long an idle session survives before the sweeper
// evicts it. Carts are ephemeral by contract, so eviction loses nothing
// durable.
const DefaultTTL = 2 * time.Hour

// Session is one visitor's mutable state.
type Session struct {
	ID       string
	Cart     *cart.Cart
	Checkout *checkout.Checkout

	lastSeen time.Time
}

// NewCheckout builds a checkout flow around a session's cart.
type NewCheckout func(c *cart.Cart) *checkout.Checkout

// Registry holds live sessions keyed by id. Constructed once at startup
// and passed to whatever needs it; there is no package-level instance.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	newCheckout NewCheckout
	ttl         time.Duration
}

func NewRegistry(newCheckout NewCheckout) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		newCheckout: newCheckout,
		ttl:         DefaultTTL,
	}
}

// Create starts a fresh session with an empty cart and a checkout at the
// info step.
func (r *Registry) Create() *Session {
	c := cart.New()
	s := &Session{
		ID:       uuid.NewString(),
		Cart:     c,
		Checkout: r.newCheckout(c),
		lastSeen: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return s
}

// Get returns the session with the given id, refreshing its idle timer.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = time.Now()
	}
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartSweeper evicts idle sessions every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.sweep(time.Now()); n > 0 {
					log.Printf("evicted %d idle sessions", n)
				}
			}
		}
	}()
}

func (r *Registry) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
