package log

import "sync"

// SwitchLogger forwards events to a target that can be replaced or
// disabled at runtime. The zero value discards events.
type SwitchLogger struct {
	mu     sync.RWMutex
	target Logger
}

// Set replaces the target. A nil target disables forwarding.
func (s *SwitchLogger) Set(target Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = target
}

// Enabled reports whether a target is set.
func (s *SwitchLogger) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target != nil
}

// Log forwards the event to the current target.
func (s *SwitchLogger) Log(event Event) {
	s.mu.RLock()
	target := s.target
	s.mu.RUnlock()
	if target != nil {
		target.Log(event)
	}
}

var _ Logger = (*SwitchLogger)(nil)
