package service

import (
	"sync"

	"vpn-storefront/internal/features/payment/models"
)

// starsWaiter is the single-item result channel of one in-app Stars invoice.
// results has room for exactly one status; state is readable once done is
// closed.
type starsWaiter struct {
	identity  int64
	paymentID string
	results   chan string
	done      chan struct{}
	state     models.State
}

type starsRegistry struct {
	mu      sync.Mutex
	waiters map[string]*starsWaiter
}

func newStarsRegistry() *starsRegistry {
	return &starsRegistry{waiters: make(map[string]*starsWaiter)}
}

func (r *starsRegistry) register(identity int64, paymentID string) *starsWaiter {
	w := &starsWaiter{
		identity:  identity,
		paymentID: paymentID,
		results:   make(chan string, 1),
		done:      make(chan struct{}),
		state:     models.StateAwaitingConfirmation,
	}
	r.mu.Lock()
	r.waiters[paymentID] = w
	r.mu.Unlock()
	return w
}

// take removes and returns the waiter. Only the first caller gets it, which
// makes the invoice resolve at most once.
func (r *starsRegistry) take(identity int64, paymentID string) (*starsWaiter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.waiters[paymentID]
	if !ok || w.identity != identity {
		return nil, false
	}
	delete(r.waiters, paymentID)
	return w, true
}

func (r *starsRegistry) remove(w *starsWaiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.waiters[w.paymentID]; ok && cur == w {
		delete(r.waiters, w.paymentID)
	}
}
