// Package engine runs YAML register access scenarios against an in-memory
// bus.
package engine

import (
	"time"

	"github.com/regio-project/regio-go/internal/testharness/loader"
	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/bustest"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/regio"
)

// MapFactory builds the register map a scenario names, bound to b.
type MapFactory func(b bus.Bus) (*model.Group, error)

// Env is the state a scenario runs in.
type Env struct {
	Group *model.Group
	Bus   *bustest.Bus
}

// Outcome is what an action produced.
type Outcome struct {
	// Result is set by actions that read.
	Result *regio.ReadResult
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Scenario    *loader.Scenario
	Passed      bool
	Skipped     bool
	SkipReason  string
	Error       error
	StepResults []*StepResult
	Duration    time.Duration
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step      *loader.Step
	StepIndex int
	Passed    bool
	Error     error
	Failures  []string
	Duration  time.Duration
}

// SuiteResult aggregates scenario results.
type SuiteResult struct {
	Results   []*ScenarioResult
	PassCount int
	FailCount int
	SkipCount int
	Duration  time.Duration
}
