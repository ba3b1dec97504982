package bus

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/regio-project/regio-go/pkg/log"
)

// TracedBus records every transaction of the wrapped bus as a log.Event.
type TracedBus struct {
	Bus
	logger    log.Logger
	group     string
	sessionID string
}

// Traced wraps b so each read and write is reported to logger. A fresh
// session ID ties the events of this wrapper together.
func Traced(b Bus, logger log.Logger, group string) *TracedBus {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &TracedBus{
		Bus:       b,
		logger:    logger,
		group:     group,
		sessionID: uuid.New().String(),
	}
}

// SessionID returns the identifier stamped on every event.
func (b *TracedBus) SessionID() string { return b.sessionID }

// Read forwards to the wrapped bus and logs the transaction.
func (b *TracedBus) Read(ctx context.Context, t Target, mask uint64) (uint64, error) {
	start := time.Now()
	v, err := b.Bus.Read(ctx, t, mask)
	b.logger.Log(b.event(start, log.DirectionIn, &log.BusEvent{
		Op:       log.BusOpRead,
		Register: t.Name,
		Address:  t.Address,
		Width:    t.Width,
		Mask:     mask,
		Value:    v,
		Duration: time.Since(start),
		Failed:   err != nil,
	}, err))
	return v, err
}

// Write forwards to the wrapped bus and logs the transaction.
func (b *TracedBus) Write(ctx context.Context, t Target, w Write) error {
	start := time.Now()
	err := b.Bus.Write(ctx, t, w)
	b.logger.Log(b.event(start, log.DirectionOut, &log.BusEvent{
		Op:            log.BusOpWrite,
		Register:      t.Name,
		Address:       t.Address,
		Width:         t.Width,
		Mask:          w.Mask,
		IdentityMask:  w.IdentityMask,
		IdentityValue: w.IdentityValue,
		Value:         w.Value,
		Duration:      time.Since(start),
		Failed:        err != nil,
	}, err))
	return err
}

func (b *TracedBus) event(ts time.Time, dir log.Direction, be *log.BusEvent, err error) log.Event {
	ev := log.Event{
		Timestamp: ts,
		SessionID: b.sessionID,
		Direction: dir,
		Layer:     log.LayerBus,
		Category:  log.CategoryTransaction,
		Group:     b.group,
		Bus:       be,
	}
	if err != nil {
		ev.Error = &log.ErrorEventData{
			Layer:   log.LayerBus,
			Message: err.Error(),
			Context: be.Op.String() + " " + be.Register,
		}
	}
	return ev
}

// TransformMask defers to the wrapped bus.
func (b *TracedBus) TransformMask(t Target, mask uint64) uint64 {
	return TransformMask(b.Bus, t, mask)
}

// Synchronous reports the wrapped bus's completion mode.
func (b *TracedBus) Synchronous() bool { return IsSynchronous(b.Bus) }

var (
	_ Bus             = (*TracedBus)(nil)
	_ MaskTransformer = (*TracedBus)(nil)
	_ Synchronous     = (*TracedBus)(nil)
)
