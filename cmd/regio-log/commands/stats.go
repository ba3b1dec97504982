package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/regio-project/regio-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Registers         map[string]*RegisterStats
	Sessions          map[string]int
	Errors            int
	Truncated         bool
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// RegisterStats counts the bus transactions of one register.
type RegisterStats struct {
	Reads    int
	Writes   int
	Failures int
	Total    time.Duration
}

// Collect reads a trace file and aggregates it.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Registers:         make(map[string]*RegisterStats),
		Sessions:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if errors.Is(err, log.ErrTruncated) {
			stats.Truncated = true
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++
	s.Sessions[event.SessionID]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if be := event.Bus; be != nil {
		key := be.Register
		if event.Group != "" {
			key = event.Group + "." + be.Register
		}
		rs, ok := s.Registers[key]
		if !ok {
			rs = &RegisterStats{}
			s.Registers[key] = rs
		}
		if be.Op == log.BusOpWrite {
			rs.Writes++
		} else {
			rs.Reads++
		}
		if be.Failed {
			rs.Failures++
		}
		rs.Total += be.Duration
	}

	if event.Error != nil {
		s.Errors++
	}
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Register Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	if stats.Truncated {
		fmt.Fprintln(w, "Warning: trace ends inside an event")
	}
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerBus, log.LayerTransport, log.LayerRemote} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTransaction, log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Registers) > 0 {
		names := make([]string, 0, len(stats.Registers))
		for name := range stats.Registers {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "Registers:")
		for _, name := range names {
			rs := stats.Registers[name]
			fmt.Fprintf(w, "  %-20s reads %d, writes %d", name, rs.Reads, rs.Writes)
			if n := rs.Reads + rs.Writes; n > 0 && rs.Total > 0 {
				fmt.Fprintf(w, ", avg %s", formatDuration(rs.Total/time.Duration(n)))
			}
			if rs.Failures > 0 {
				fmt.Fprintf(w, ", failed %d", rs.Failures)
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
