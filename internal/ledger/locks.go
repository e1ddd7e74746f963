package ledger

import (
	"context"
	"sync"
	"time"
)

// invoiceLocks provides at-most-one in-flight balance mutation per invoice.
// Each invoice gets a one-slot channel; acquisition is bounded so a stuck
// holder surfaces ErrBusy instead of deadlocking the caller.
type invoiceLocks struct {
	mu    sync.Mutex
	slots map[uint]chan struct{}
}

func newInvoiceLocks() *invoiceLocks {
	return &invoiceLocks{slots: make(map[uint]chan struct{})}
}

func (l *invoiceLocks) slot(id uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[id]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[id] = s
	}
	return s
}

// acquire blocks until the invoice lock is held, the timeout elapses, or ctx
// is done. The returned release func must be called exactly once.
func (l *invoiceLocks) acquire(ctx context.Context, invoiceID uint, timeout time.Duration) (func(), error) {
	s := l.slot(invoiceID)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-timer.C:
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
