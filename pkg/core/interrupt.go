package core

import (
	"context"
	"sync"
)

// Interrupts is the registrar for one-shot cancellation tokens. Every
// in-flight top-level statement registers its cancel func; Fire cancels all
// of them at once.
type Interrupts struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]context.CancelFunc
	onFire  func(n int)
}

// NewInterrupts returns an empty registrar. onFire, when non-nil, is called
// after each Fire with the number of tokens it cancelled.
func NewInterrupts(onFire func(n int)) *Interrupts {
	return &Interrupts{pending: make(map[uint64]context.CancelFunc), onFire: onFire}
}

// Register adds cancel to the set fired by the next interrupt. The returned
// func removes it again; calling it more than once is harmless.
func (i *Interrupts) Register(cancel context.CancelFunc) (unregister func()) {
	if i == nil {
		return func() {}
	}
	i.mu.Lock()
	id := i.next
	i.next++
	i.pending[id] = cancel
	i.mu.Unlock()
	return func() {
		i.mu.Lock()
		delete(i.pending, id)
		i.mu.Unlock()
	}
}

// Fire cancels every registered token and clears the set. It returns the
// number of tokens fired.
func (i *Interrupts) Fire() int {
	if i == nil {
		return 0
	}
	i.mu.Lock()
	pending := i.pending
	i.pending = make(map[uint64]context.CancelFunc)
	i.mu.Unlock()
	for _, cancel := range pending {
		cancel()
	}
	if i.onFire != nil {
		i.onFire(len(pending))
	}
	return len(pending)
}

// Pending returns the number of registered tokens.
func (i *Interrupts) Pending() int {
	if i == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending)
}
