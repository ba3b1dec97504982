// Package loader provides YAML scenario loading for register access tests.
package loader

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Scenario is one register access test loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "RW-CANON-001").
	ID string `yaml:"id"`

	// Name is a human-readable name.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Map names the register map the scenario runs against.
	Map string `yaml:"map"`

	// Initial register contents, by register path.
	Initial map[string]Value `yaml:"initial,omitempty"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`

	// Skip disables the scenario.
	Skip       bool   `yaml:"skip,omitempty"`
	SkipReason string `yaml:"skip_reason,omitempty"`
}

// Step is a single action of a scenario.
type Step struct {
	// Action is one of the actions registered with the engine
	// (e.g., "read", "write", "rmw", "set").
	Action string `yaml:"action"`

	// Paths to read.
	Paths []string `yaml:"paths,omitempty"`

	// Values to write, by path.
	Values map[string]Value `yaml:"values,omitempty"`

	// Expect defines the expected outcome.
	Expect Expect `yaml:"expect,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// Expect lists the checks applied after a step.
type Expect struct {
	// Values read, by lookup path.
	Values map[string]Value `yaml:"values,omitempty"`

	// Registers holds expected raw register contents, by register path.
	Registers map[string]Value `yaml:"registers,omitempty"`

	// Reads and Writes count bus transactions per register during the step.
	Reads  map[string]int `yaml:"reads,omitempty"`
	Writes map[string]int `yaml:"writes,omitempty"`

	// Error is a substring the step's error must contain. Empty means the
	// step must succeed.
	Error string `yaml:"error,omitempty"`
}

// Value is an unsigned register value. YAML scalars may use any Go
// integer literal syntax, such as 0x1f, 0b1_0101 or 42.
type Value uint64

// UnmarshalYAML parses the scalar with base prefix detection.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	n, err := strconv.ParseUint(node.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid value %q: %w", node.Line, node.Value, err)
	}
	*v = Value(n)
	return nil
}

// LoadError reports a scenario that could not be loaded.
type LoadError struct {
	File    string
	Line    int
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
		} else {
			msg = fmt.Sprintf("%s: %s", e.File, msg)
		}
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }
