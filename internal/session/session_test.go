package session

import (
	"testing"
	"time"

	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/checkout"
)

func testRegistry() *Registry {
	return NewRegistry(func(c *cart.Cart) *checkout.Checkout {
		return checkout.New(c, nil, nil, checkout.Options{})
	})
}

func TestCreateAndGet(t *testing.T) {
	r := testRegistry()
	s := r.Create()
	if s.ID == "" || s.Cart == nil || s.Checkout == nil {
		t.Fatalf("incomplete session: %+v", s)
	}

	got, ok := r.Get(s.ID)
	if !ok || got != s {
		t.Error("Get did not return the created session")
	}
	if _, ok := r.Get("unknown"); ok {
		t.Error("Get returned a session for an unknown id")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	r := testRegistry()
	a := r.Create()
	b := r.Create()
	if a.ID == b.ID {
		t.Fatal("two sessions share an id")
	}
	a.Cart.Add(cart.Item{ID: 1, Name: "x"}, 1)
	if b.Cart.TotalItems() != 0 {
		t.Error("carts are shared between sessions")
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	r := testRegistry()
	r.ttl = time.Minute

	stale := r.Create()
	fresh := r.Create()
	r.sessions[stale.ID].lastSeen = time.Now().Add(-2 * time.Minute)

	if n := r.sweep(time.Now()); n != 1 {
		t.Fatalf("sweep evicted %d sessions, want 1", n)
	}
	if _, ok := r.Get(stale.ID); ok {
		t.Error("stale session survived the sweep")
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Error("fresh session was evicted")
	}
}

func TestGetRefreshesIdleTimer(t *testing.T) {
	r := testRegistry()
	r.ttl = time.Minute

	s := r.Create()
	r.sessions[s.ID].lastSeen = time.Now().Add(-2 * time.Minute)

	// Touching the session keeps it alive.
	r.Get(s.ID)
	if n := r.sweep(time.Now()); n != 0 {
		t.Errorf("sweep evicted %d sessions after a refresh, want 0", n)
	}
}
