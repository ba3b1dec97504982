package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger at Debug level.
// Useful during bring-up to watch register traffic on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Group != "" {
		attrs = append(attrs, slog.String("group", event.Group))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch {
	case event.Bus != nil:
		attrs = append(attrs,
			slog.String("op", event.Bus.Op.String()),
			slog.String("register", event.Bus.Register),
			slog.String("address", hex(event.Bus.Address)),
			slog.String("mask", hex(event.Bus.Mask)),
			slog.String("value", hex(event.Bus.Value)),
		)
		if event.Bus.Op == BusOpWrite {
			attrs = append(attrs,
				slog.String("id_mask", hex(event.Bus.IdentityMask)),
				slog.String("id_value", hex(event.Bus.IdentityValue)),
			)
		}
		if event.Bus.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Bus.Duration))
		}
		if event.Bus.Failed {
			attrs = append(attrs, slog.Bool("failed", true))
		}
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Message != nil:
		attrs = append(attrs,
			slog.Uint64("msg_id", uint64(event.Message.MessageID)),
			slog.String("msg_type", event.Message.Type.String()),
		)
		if event.Message.Operation != nil {
			attrs = append(attrs, slog.String("operation", event.Message.Operation.String()))
		}
		if event.Message.Register != "" {
			attrs = append(attrs, slog.String("register", event.Message.Register))
		}
		if event.Message.Status != nil {
			attrs = append(attrs, slog.String("status", event.Message.Status.String()))
		}
		if event.Message.ProcessingTime != nil {
			attrs = append(attrs, slog.Duration("processing_time", *event.Message.ProcessingTime))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "regio", attrs...)
}

func hex(v uint64) string { return fmt.Sprintf("%#x", v) }

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
