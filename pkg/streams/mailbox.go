package streams

import (
	"context"
	"errors"
	"sync"
)

var errMailboxClosed = errors.New("mailbox closed")

// mailbox is an unbounded single-consumer queue. Sends never block; a closed
// mailbox still drains what was queued before Close.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	notify chan struct{}
	// space is closed and replaced whenever an item is consumed.
	space chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{notify: make(chan struct{}, 1), space: make(chan struct{})}
}

// waitBelow blocks while more than limit items are queued.
func (m *mailbox[T]) waitBelow(ctx context.Context, limit int) error {
	for {
		m.mu.Lock()
		if len(m.items) <= limit || m.closed {
			m.mu.Unlock()
			return nil
		}
		space := m.space
		m.mu.Unlock()
		select {
		case <-space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *mailbox[T]) send(v T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errMailboxClosed
	}
	m.items = append(m.items, v)
	m.mu.Unlock()
	m.signal()
	return nil
}

func (m *mailbox[T]) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *mailbox[T]) close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.space)
		m.space = make(chan struct{})
	}
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox[T]) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// tryRecv pops the next item. done is true once the mailbox is closed and
// drained.
func (m *mailbox[T]) tryRecv() (v T, ok bool, done bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) > 0 {
		v = m.items[0]
		var zero T
		m.items[0] = zero
		m.items = m.items[1:]
		close(m.space)
		m.space = make(chan struct{})
		return v, true, false
	}
	return v, false, m.closed
}

// recv blocks until an item arrives, the mailbox is closed and drained
// (errMailboxClosed), or ctx is done.
func (m *mailbox[T]) recv(ctx context.Context) (T, error) {
	for {
		v, ok, done := m.tryRecv()
		if ok {
			return v, nil
		}
		if done {
			m.signal()
			return v, errMailboxClosed
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
}
