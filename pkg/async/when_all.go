package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WhenAll runs the senders concurrently and completes with their values in
// order. The first failure cancels the others and is returned.
//
// Synchronous senders are run in sequence on the caller's goroutine, since
// none of them can overlap another's wait anyway.
func WhenAll[T any](senders ...Sender[T]) Sender[[]T] {
	synchronous := true
	for _, s := range senders {
		if !s.Synchronous() {
			synchronous = false
			break
		}
	}

	if synchronous {
		return New(func(ctx context.Context) ([]T, error) {
			out := make([]T, len(senders))
			for i, s := range senders {
				v, err := s.Run(ctx)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}, true)
	}

	return New(func(ctx context.Context) ([]T, error) {
		out := make([]T, len(senders))
		g, gctx := errgroup.WithContext(ctx)
		for i, s := range senders {
			g.Go(func() error {
				v, err := s.Run(gctx)
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	}, false)
}
