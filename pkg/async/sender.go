// Package async provides composable deferred operations.
//
// A Sender describes work without starting it. Senders are combined with
// Then, LetValue and WhenAll and started by SyncWait or TrySyncWait. Each
// sender knows whether it can complete without suspending, which lets
// TrySyncWait refuse work that would have to wait on I/O.
package async

import (
	"context"
	"errors"
)

// ErrWouldBlock is returned by TrySyncWait when the operation cannot
// complete without suspending.
var ErrWouldBlock = errors.New("operation would block")

// Sender is a deferred computation producing a T.
// The zero value completes immediately with the zero T.
type Sender[T any] struct {
	run  func(ctx context.Context) (T, error)
	sync bool
}

// New creates a sender from fn. synchronous declares that fn never
// suspends.
func New[T any](fn func(ctx context.Context) (T, error), synchronous bool) Sender[T] {
	return Sender[T]{run: fn, sync: synchronous}
}

// Synchronous reports whether the sender completes without suspending.
func (s Sender[T]) Synchronous() bool { return s.run == nil || s.sync }

// Run starts the sender and waits for its result.
func (s Sender[T]) Run(ctx context.Context) (T, error) {
	var zero T
	if s.run == nil {
		return zero, nil
	}
	if !s.Synchronous() && nonBlocking(ctx) {
		return zero, ErrWouldBlock
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return s.run(ctx)
}

// Just completes with v.
func Just[T any](v T) Sender[T] {
	return New(func(context.Context) (T, error) { return v, nil }, true)
}

// JustError fails with err.
func JustError[T any](err error) Sender[T] {
	return New(func(context.Context) (T, error) {
		var zero T
		return zero, err
	}, true)
}

// JustResultOf completes with the result of calling fn.
func JustResultOf[T any](fn func() (T, error)) Sender[T] {
	return New(func(context.Context) (T, error) { return fn() }, true)
}

// Schedule runs fn as an operation that may suspend.
func Schedule[T any](fn func(ctx context.Context) (T, error)) Sender[T] {
	return New(fn, false)
}

// Then transforms the value of s with fn.
func Then[T, U any](s Sender[T], fn func(T) (U, error)) Sender[U] {
	return New(func(ctx context.Context) (U, error) {
		v, err := s.Run(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	}, s.Synchronous())
}

// LetValue continues s with the sender fn returns for its value.
//
// The continuation is only known at run time, so the result is reported
// synchronous when s is; a suspending continuation started from
// TrySyncWait still fails with ErrWouldBlock.
func LetValue[T, U any](s Sender[T], fn func(T) (Sender[U], error)) Sender[U] {
	return New(func(ctx context.Context) (U, error) {
		var zero U
		v, err := s.Run(ctx)
		if err != nil {
			return zero, err
		}
		next, err := fn(v)
		if err != nil {
			return zero, err
		}
		return next.Run(ctx)
	}, s.Synchronous())
}

type nonBlockingKey struct{}

func nonBlocking(ctx context.Context) bool {
	v, _ := ctx.Value(nonBlockingKey{}).(bool)
	return v
}

// SyncWait runs s to completion, suspending as needed.
func SyncWait[T any](ctx context.Context, s Sender[T]) (T, error) {
	return s.Run(ctx)
}

// TrySyncWait runs s only if it can complete without suspending.
func TrySyncWait[T any](ctx context.Context, s Sender[T]) (T, error) {
	if !s.Synchronous() {
		var zero T
		return zero, ErrWouldBlock
	}
	return s.Run(context.WithValue(ctx, nonBlockingKey{}, true))
}
