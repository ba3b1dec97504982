package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/regio-project/regio-go/internal/testharness/loader"
	"github.com/regio-project/regio-go/pkg/async"
	"github.com/regio-project/regio-go/pkg/bustest"
	"github.com/regio-project/regio-go/pkg/path"
	"github.com/regio-project/regio-go/pkg/regio"
)

// ActionHandler executes a step.
type ActionHandler func(ctx context.Context, step *loader.Step, env *Env) (*Outcome, error)

// Engine executes scenarios.
type Engine struct {
	maps     map[string]MapFactory
	handlers map[string]ActionHandler
	timeout  time.Duration
	mu       sync.RWMutex
}

// New creates an engine with the default actions registered.
func New() *Engine {
	e := &Engine{
		maps:     make(map[string]MapFactory),
		handlers: make(map[string]ActionHandler),
		timeout:  10 * time.Second,
	}
	e.RegisterHandler("set", handleSet)
	e.RegisterHandler("read", handleRead)
	e.RegisterHandler("write", handleWrite)
	e.RegisterHandler("rmw", handleRMW)
	return e
}

// RegisterMap makes a register map available to scenarios by name.
func (e *Engine) RegisterMap(name string, f MapFactory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maps[name] = f
}

// RegisterHandler registers an action handler.
func (e *Engine) RegisterHandler(action string, h ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = h
}

// Run executes a single scenario on a fresh bus.
func (e *Engine) Run(ctx context.Context, sc *loader.Scenario) *ScenarioResult {
	start := time.Now()
	result := &ScenarioResult{Scenario: sc}
	defer func() { result.Duration = time.Since(start) }()

	if sc.Skip {
		result.Skipped = true
		result.SkipReason = sc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by scenario definition"
		}
		return result
	}

	e.mu.RLock()
	factory, ok := e.maps[sc.Map]
	e.mu.RUnlock()
	if !ok {
		result.Error = fmt.Errorf("unknown map: %q", sc.Map)
		return result
	}

	b := bustest.New()
	g, err := factory(b)
	if err != nil {
		result.Error = fmt.Errorf("build map %s: %w", sc.Map, err)
		return result
	}
	env := &Env{Group: g, Bus: b}

	for _, name := range sortedKeys(sc.Initial) {
		if err := b.Set(g, name, uint64(sc.Initial[name])); err != nil {
			result.Error = fmt.Errorf("initial %s: %w", name, err)
			return result
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result.Passed = true
	for i := range sc.Steps {
		sr := e.executeStep(ctx, &sc.Steps[i], i, env)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Passed = false
			result.Error = sr.Error
			break
		}
	}
	return result
}

func (e *Engine) executeStep(ctx context.Context, step *loader.Step, index int, env *Env) *StepResult {
	start := time.Now()
	sr := &StepResult{Step: step, StepIndex: index}
	defer func() { sr.Duration = time.Since(start) }()

	e.mu.RLock()
	handler, ok := e.handlers[step.Action]
	e.mu.RUnlock()
	if !ok {
		sr.Error = fmt.Errorf("unknown action: %s", step.Action)
		return sr
	}

	env.Bus.ClearLog()
	out, err := handler(ctx, step, env)

	switch want := step.Expect.Error; {
	case want != "" && err == nil:
		sr.Error = fmt.Errorf("step %d: expected error containing %q", index+1, want)
		return sr
	case want != "" && !strings.Contains(err.Error(), want):
		sr.Error = fmt.Errorf("step %d: expected error containing %q, got %q", index+1, want, err)
		return sr
	case want == "" && err != nil:
		sr.Error = fmt.Errorf("step %d: %w", index+1, err)
		return sr
	}

	sr.Failures = check(step.Expect, out, env)
	if len(sr.Failures) > 0 {
		sr.Error = fmt.Errorf("step %d: %s", index+1, strings.Join(sr.Failures, "; "))
		return sr
	}
	sr.Passed = true
	return sr
}

func check(exp loader.Expect, out *Outcome, env *Env) []string {
	var failures []string

	for _, p := range sortedKeys(exp.Values) {
		if out == nil || out.Result == nil {
			failures = append(failures, "values expected but step did not read")
			break
		}
		got, err := out.Result.Get(p)
		if err != nil {
			failures = append(failures, fmt.Sprintf("value %s: %v", p, err))
			continue
		}
		if want := uint64(exp.Values[p]); got != want {
			failures = append(failures, fmt.Sprintf("value %s: expected %#x, got %#x", p, want, got))
		}
	}

	for _, p := range sortedKeys(exp.Registers) {
		got, ok, err := env.Bus.Get(env.Group, p)
		if err != nil {
			failures = append(failures, fmt.Sprintf("register %s: %v", p, err))
			continue
		}
		if want := uint64(exp.Registers[p]); !ok || got != want {
			failures = append(failures, fmt.Sprintf("register %s: expected %#x, got %#x", p, want, got))
		}
	}

	for _, name := range sortedKeys(exp.Reads) {
		if got := env.Bus.Reads(name); got != exp.Reads[name] {
			failures = append(failures, fmt.Sprintf("reads of %s: expected %d, got %d", name, exp.Reads[name], got))
		}
	}
	for _, name := range sortedKeys(exp.Writes) {
		if got := env.Bus.Writes(name); got != exp.Writes[name] {
			failures = append(failures, fmt.Sprintf("writes of %s: expected %d, got %d", name, exp.Writes[name], got))
		}
	}
	return failures
}

// RunSuite executes scenarios in order.
func (e *Engine) RunSuite(ctx context.Context, scenarios []*loader.Scenario) *SuiteResult {
	start := time.Now()
	result := &SuiteResult{}
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		r := e.Run(ctx, sc)
		result.Results = append(result.Results, r)
		switch {
		case r.Skipped:
			result.SkipCount++
		case r.Passed:
			result.PassCount++
		default:
			result.FailCount++
		}
	}
	result.Duration = time.Since(start)
	return result
}

func handleSet(_ context.Context, step *loader.Step, env *Env) (*Outcome, error) {
	for _, p := range sortedKeys(step.Values) {
		if err := env.Bus.Set(env.Group, p, uint64(step.Values[p])); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func handleRead(ctx context.Context, step *loader.Step, env *Env) (*Outcome, error) {
	r, err := regio.SyncRead(ctx, env.Group, step.Paths...)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: r}, nil
}

func handleWrite(ctx context.Context, step *loader.Step, env *Env) (*Outcome, error) {
	values, err := valuePaths(step.Values)
	if err != nil {
		return nil, err
	}
	return nil, regio.SyncWrite(ctx, env.Group, values...)
}

// handleRMW reads step.Paths, applies step.Values to the result and
// writes it back.
func handleRMW(ctx context.Context, step *loader.Step, env *Env) (*Outcome, error) {
	spec, err := regio.NewReadSpec(env.Group, step.Paths...)
	if err != nil {
		return nil, err
	}
	_, err = async.SyncWait(ctx, regio.ReadThen(spec, func(w *regio.WriteSpec) error {
		for _, p := range sortedKeys(step.Values) {
			if err := w.Set(p, uint64(step.Values[p])); err != nil {
				return err
			}
		}
		return nil
	}))
	return nil, err
}

func valuePaths(values map[string]loader.Value) ([]path.ValuePath, error) {
	out := make([]path.ValuePath, 0, len(values))
	for _, s := range sortedKeys(values) {
		p, err := path.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, path.Of(p, uint64(values[s])))
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
