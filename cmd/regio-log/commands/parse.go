// Package commands implements the regio-log CLI commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/regio-project/regio-go/pkg/log"
)

// FilterOptions are the string forms of the selection flags shared by the
// view and filter commands.
type FilterOptions struct {
	Session   string
	Group     string
	Register  string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
}

// Build converts the options to a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		SessionID: o.Session,
		Group:     o.Group,
		Register:  o.Register,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := ParseLayer(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirection(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "bus":
		return log.LayerBus, nil
	case "transport":
		return log.LayerTransport, nil
	case "remote":
		return log.LayerRemote, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be bus, transport, or remote)", s)
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "transaction":
		return log.CategoryTransaction, nil
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be transaction, message, state, or error)", s)
	}
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func eventType(event log.Event) string {
	switch {
	case event.Bus != nil:
		return event.Bus.Op.String()
	case event.Frame != nil:
		return "FRAME"
	case event.Message != nil:
		return event.Message.Type.String()
	case event.StateChange != nil:
		return "STATE"
	case event.Error != nil:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
