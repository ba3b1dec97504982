package regio

import (
	"context"
	"fmt"

	"github.com/regio-project/regio-go/pkg/async"
	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// Read returns a sender that reads every register of the spec once,
// concurrently, and completes with the combined result. If any register
// read fails the whole read fails. Register addresses are taken when the
// sender is built.
func Read(s *ReadSpec) async.Sender[*ReadResult] {
	b := s.group.Bus()
	synchronous := bus.IsSynchronous(b)

	ops := make([]async.Sender[uint64], len(s.regs))
	for i, rv := range s.regs {
		t, mask := rv.Register.Target(), rv.Mask
		ops[i] = async.New(func(ctx context.Context) (uint64, error) {
			return b.Read(ctx, t, mask)
		}, synchronous)
	}

	return async.Then(async.WhenAll(ops...), func(values []uint64) (*ReadResult, error) {
		return newReadResult(s, values), nil
	})
}

// Write returns a sender that writes every register of the spec once,
// concurrently.
func Write(s *WriteSpec) async.Sender[struct{}] {
	b := s.group.Bus()
	synchronous := bus.IsSynchronous(b)

	ops := make([]async.Sender[struct{}], len(s.regs))
	for i, rv := range s.regs {
		t, w := rv.Register.Target(), s.triples[i].With(rv.Value)
		ops[i] = async.New(func(ctx context.Context) (struct{}, error) {
			return struct{}{}, b.Write(ctx, t, w)
		}, synchronous)
	}

	return async.Then(async.WhenAll(ops...), func([]struct{}) (struct{}, error) {
		return struct{}{}, nil
	})
}

// ReadThen reads s, passes the result as a write spec to modify and writes
// it back. Nothing is written if the read or modify fails.
func ReadThen(s *ReadSpec, modify func(*WriteSpec) error) async.Sender[struct{}] {
	return async.LetValue(Read(s), func(r *ReadResult) (async.Sender[struct{}], error) {
		w, err := r.ToWriteSpec()
		if err != nil {
			return async.Sender[struct{}]{}, err
		}
		if err := modify(w); err != nil {
			return async.Sender[struct{}]{}, err
		}
		return Write(w), nil
	})
}

// SyncRead reads paths from g, failing with async.ErrWouldBlock when the
// group's bus may suspend.
func SyncRead(ctx context.Context, g *model.Group, paths ...string) (*ReadResult, error) {
	s, err := NewReadSpec(g, paths...)
	if err != nil {
		return nil, err
	}
	r, err := async.TrySyncWait(ctx, Read(s))
	if err != nil {
		return nil, fmt.Errorf("sync read from %s: %w", g.Name(), err)
	}
	return r, nil
}

// SyncWrite writes values to g, failing with async.ErrWouldBlock when the
// group's bus may suspend.
func SyncWrite(ctx context.Context, g *model.Group, values ...path.ValuePath) error {
	s, err := NewWriteSpec(g, values...)
	if err != nil {
		return err
	}
	if _, err := async.TrySyncWait(ctx, Write(s)); err != nil {
		return fmt.Errorf("sync write to %s: %w", g.Name(), err)
	}
	return nil
}

// BlockingRead is like SyncRead but waits for suspending buses.
func BlockingRead(ctx context.Context, g *model.Group, paths ...string) (*ReadResult, error) {
	s, err := NewReadSpec(g, paths...)
	if err != nil {
		return nil, err
	}
	return async.SyncWait(ctx, Read(s))
}

// BlockingWrite is like SyncWrite but waits for suspending buses.
func BlockingWrite(ctx context.Context, g *model.Group, values ...path.ValuePath) error {
	s, err := NewWriteSpec(g, values...)
	if err != nil {
		return err
	}
	_, err = async.SyncWait(ctx, Write(s))
	return err
}
