package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestJustAndThen(t *testing.T) {
	s := Then(Just(20), func(v int) (int, error) { return v + 1, nil })
	s = Then(s, func(v int) (int, error) { return v * 2, nil })

	got, err := SyncWait(context.Background(), s)
	if err != nil {
		t.Fatalf("SyncWait failed: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if !s.Synchronous() {
		t.Error("chain of synchronous senders must be synchronous")
	}
}

func TestSenderIsLazy(t *testing.T) {
	var calls int
	s := JustResultOf(func() (int, error) {
		calls++
		return calls, nil
	})
	if calls != 0 {
		t.Fatal("sender ran before being started")
	}
	_, _ = SyncWait(context.Background(), s)
	_, _ = SyncWait(context.Background(), s)
	if calls != 2 {
		t.Errorf("expected 2 runs, got %d", calls)
	}
}

func TestErrorsShortCircuit(t *testing.T) {
	boom := errors.New("boom")
	var reached bool
	s := Then(JustError[int](boom), func(int) (int, error) {
		reached = true
		return 0, nil
	})

	_, err := SyncWait(context.Background(), s)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if reached {
		t.Error("continuation ran after failure")
	}
}

func TestLetValue(t *testing.T) {
	s := LetValue(Just(3), func(n int) (Sender[string], error) {
		return Just(string(rune('a' + n))), nil
	})
	got, err := TrySyncWait(context.Background(), s)
	if err != nil {
		t.Fatalf("TrySyncWait failed: %v", err)
	}
	if got != "d" {
		t.Errorf("expected d, got %q", got)
	}
}

func TestTrySyncWait(t *testing.T) {
	t.Run("rejects suspending sender", func(t *testing.T) {
		var ran bool
		s := Schedule(func(context.Context) (int, error) {
			ran = true
			return 1, nil
		})
		_, err := TrySyncWait(context.Background(), s)
		if !errors.Is(err, ErrWouldBlock) {
			t.Errorf("expected ErrWouldBlock, got %v", err)
		}
		if ran {
			t.Error("suspending sender must not start")
		}
	})

	t.Run("rejects suspending continuation", func(t *testing.T) {
		s := LetValue(Just(1), func(int) (Sender[int], error) {
			return Schedule(func(context.Context) (int, error) { return 2, nil }), nil
		})
		_, err := TrySyncWait(context.Background(), s)
		if !errors.Is(err, ErrWouldBlock) {
			t.Errorf("expected ErrWouldBlock, got %v", err)
		}
	})

	t.Run("runs synchronous sender", func(t *testing.T) {
		got, err := TrySyncWait(context.Background(), Just(7))
		if err != nil || got != 7 {
			t.Errorf("expected 7, got %d, %v", got, err)
		}
	})
}

func TestZeroSender(t *testing.T) {
	var s Sender[int]
	got, err := TrySyncWait(context.Background(), s)
	if err != nil || got != 0 {
		t.Errorf("expected zero value, got %d, %v", got, err)
	}
}

func TestWhenAll(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		senders := []Sender[int]{
			Schedule(func(context.Context) (int, error) {
				time.Sleep(10 * time.Millisecond)
				return 1, nil
			}),
			Schedule(func(context.Context) (int, error) { return 2, nil }),
			Just(3),
		}
		got, err := SyncWait(context.Background(), WhenAll(senders...))
		if err != nil {
			t.Fatalf("WhenAll failed: %v", err)
		}
		if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
			t.Errorf("expected [1 2 3], got %v", got)
		}
	})

	t.Run("runs concurrently", func(t *testing.T) {
		var active, peak atomic.Int32
		release := make(chan struct{})
		op := Schedule(func(context.Context) (int, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			active.Add(-1)
			return 0, nil
		})

		done := make(chan error, 1)
		go func() {
			_, err := SyncWait(context.Background(), WhenAll(op, op, op))
			done <- err
		}()

		deadline := time.After(2 * time.Second)
		for peak.Load() < 3 {
			select {
			case <-deadline:
				close(release)
				t.Fatalf("expected 3 concurrent operations, peak %d", peak.Load())
			case <-time.After(time.Millisecond):
			}
		}
		close(release)
		if err := <-done; err != nil {
			t.Fatalf("WhenAll failed: %v", err)
		}
	})

	t.Run("first error cancels the rest", func(t *testing.T) {
		boom := errors.New("boom")
		started := make(chan struct{})
		var cancelled atomic.Bool
		slow := Schedule(func(ctx context.Context) (int, error) {
			close(started)
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return 0, ctx.Err()
			case <-time.After(2 * time.Second):
				return 0, nil
			}
		})
		failing := Schedule(func(context.Context) (int, error) {
			select {
			case <-started:
			case <-time.After(time.Second):
			}
			return 0, boom
		})

		_, err := SyncWait(context.Background(), WhenAll(slow, failing))
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if !cancelled.Load() {
			t.Error("expected slow operation to observe cancellation")
		}
	})

	t.Run("synchronous when all inputs are", func(t *testing.T) {
		s := WhenAll(Just(1), Just(2))
		if !s.Synchronous() {
			t.Error("expected synchronous")
		}
		if WhenAll(Just(1), Schedule(func(context.Context) (int, error) { return 0, nil })).Synchronous() {
			t.Error("expected asynchronous")
		}
	})

	t.Run("empty", func(t *testing.T) {
		got, err := TrySyncWait(context.Background(), WhenAll[int]())
		if err != nil || len(got) != 0 {
			t.Errorf("expected empty result, got %v, %v", got, err)
		}
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SyncWait(ctx, Just(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
