package db

import (
	"context"
	"sync"
)

// Lazy opens a shared resource (connection pool, embedded store) on first use.
// Concurrent callers block on the in-flight initialization and receive the same value.
// A failed initialization is not remembered, so the next Get retries it.
type Lazy[T any] struct {
	init  func(context.Context) (T, error)
	value T
	mu    sync.Mutex
	ready bool
}

// NewLazy creates a Lazy that calls init at most once successfully
func NewLazy[T any](init func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{init: init}
}

// Get returns the initialized value, running init if no call has succeeded yet
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return l.value, nil
	}

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	v, err := l.init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	l.value = v
	l.ready = true
	return v, nil
}

// Close releases the value with closeFn if it was ever initialized.
// After Close the next Get initializes a fresh value.
func (l *Lazy[T]) Close(closeFn func(T) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return nil
	}

	err := closeFn(l.value)
	var zero T
	l.value = zero
	l.ready = false
	return err
}
