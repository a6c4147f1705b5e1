package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// TimeoutPolicy decides what happens to the rest of a sweep when one
// scenario exceeds the await ceiling.
type TimeoutPolicy string

const (
	// PolicyAbort stops the whole sweep on the first ceiling breach.
	// This is the default.
	PolicyAbort TimeoutPolicy = "abort"

	// PolicySkip records the failure on the scenario and moves on.
	PolicySkip TimeoutPolicy = "skip"
)

// Valid reports whether p names a known policy.
func (p TimeoutPolicy) Valid() bool {
	return p == PolicyAbort || p == PolicySkip
}

// Scenario is one concurrency scale in a sweep: a batch size and the worker
// width the bounded-pool baseline uses at that scale.
type Scenario struct {
	Name      string `json:"name"`
	Tasks     int    `json:"tasks"`
	PoolWidth int    `json:"poolWidth"`
}

// DefaultScenarios mirrors the canonical low/medium/high concurrency sweep.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "low-concurrency", Tasks: 1000, PoolWidth: 100},
		{Name: "medium-concurrency", Tasks: 5000, PoolWidth: 200},
		{Name: "high-concurrency", Tasks: 10000, PoolWidth: 200},
	}
}

// SweepConfig configures a Sweep. Zero values take defaults.
type SweepConfig struct {
	// Delay is the simulated I/O delay per task.
	Delay time.Duration

	// Warmup is the task count for the discarded warmup pass run through
	// both strategies before the first scenario. 0 disables warmup.
	Warmup int

	// AwaitCeiling bounds each harness run.
	AwaitCeiling time.Duration

	// OnTimeout picks the ceiling-breach policy; defaults to PolicyAbort.
	OnTimeout TimeoutPolicy

	// SettlePause is the pause after the forced GC between strategy runs,
	// letting deferred reclamation finish so the next memory baseline is
	// less noisy. Defaults to one second.
	SettlePause time.Duration

	Scenarios []Scenario

	// Probe and OnTaskFailure pass through to the harness.
	Probe         MemoryProbe
	OnTaskFailure func(taskID int, err error)

	// OnResult, when set, is called after each strategy run with its
	// result, before the comparison is computed.
	OnResult func(scenario Scenario, strategyName string, result BenchmarkResult)

	// OnOutcome, when set, is called once per scenario with its final
	// outcome, including skipped failures.
	OnOutcome func(outcome ScenarioOutcome)
}

// ScenarioOutcome is the result of one scenario: the bounded-pool baseline,
// the per-task candidate, and their comparison. Err is set instead when the
// scenario failed and the sweep policy was to skip it.
type ScenarioOutcome struct {
	Scenario  Scenario         `json:"scenario"`
	Report    ComparisonReport `json:"report"`
	Err       error            `json:"-"`
	ErrString string           `json:"error,omitempty"`
}

// Sweep runs the bounded-pool/per-task comparison across a list of scenarios.
//
// Scenarios run strictly sequentially, and within a scenario the two
// strategies run one after the other with a GC settle pause in between, so
// no two measurements ever contend for resources.
type Sweep struct {
	cfg     SweepConfig
	harness *Harness
}

// NewSweep creates a sweep, applying defaults for zero config fields.
func NewSweep(cfg SweepConfig) (*Sweep, error) {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.AwaitCeiling <= 0 {
		cfg.AwaitCeiling = DefaultAwaitCeiling
	}
	if cfg.OnTimeout == "" {
		cfg.OnTimeout = PolicyAbort
	}
	if !cfg.OnTimeout.Valid() {
		return nil, fmt.Errorf("unknown timeout policy: %s", cfg.OnTimeout)
	}
	if cfg.SettlePause == 0 {
		cfg.SettlePause = time.Second
	}
	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = DefaultScenarios()
	}
	for _, sc := range cfg.Scenarios {
		if sc.Tasks <= 0 {
			return nil, fmt.Errorf("scenario %q: task count must be > 0", sc.Name)
		}
		if sc.PoolWidth <= 0 {
			return nil, fmt.Errorf("scenario %q: pool width must be > 0", sc.Name)
		}
	}

	harness := NewHarness(HarnessConfig{
		Delay:         cfg.Delay,
		AwaitCeiling:  cfg.AwaitCeiling,
		Probe:         cfg.Probe,
		OnTaskFailure: cfg.OnTaskFailure,
	})

	return &Sweep{cfg: cfg, harness: harness}, nil
}

// Run executes the sweep and returns one outcome per scenario.
//
// With PolicyAbort a failed scenario ends the sweep immediately and the error
// names the scenario and scale; with PolicySkip the failure is recorded on
// its outcome and the remaining scenarios still run.
func (s *Sweep) Run(ctx context.Context) ([]ScenarioOutcome, error) {
	if s.cfg.Warmup > 0 {
		if err := s.warmup(ctx); err != nil {
			return nil, err
		}
	}

	outcomes := make([]ScenarioOutcome, 0, len(s.cfg.Scenarios))
	for _, scenario := range s.cfg.Scenarios {
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}

		outcome, err := s.runScenario(ctx, scenario)
		if err != nil {
			err = fmt.Errorf("scenario %q (%d tasks): %w", scenario.Name, scenario.Tasks, err)
			if s.cfg.OnTimeout == PolicyAbort {
				return outcomes, err
			}
			outcome = ScenarioOutcome{
				Scenario:  scenario,
				Err:       err,
				ErrString: err.Error(),
			}
		}
		outcomes = append(outcomes, outcome)
		if s.cfg.OnOutcome != nil {
			s.cfg.OnOutcome(outcome)
		}
	}

	return outcomes, nil
}

// warmup runs a discarded pass through both strategies so first-run effects
// (scheduler ramp-up, allocator growth) do not land in the first scenario.
func (s *Sweep) warmup(ctx context.Context) error {
	width := s.cfg.Scenarios[0].PoolWidth

	pool, err := NewBoundedPool(width)
	if err != nil {
		return err
	}
	if _, err := s.harness.Run(ctx, pool, s.cfg.Warmup); err != nil {
		pool.Shutdown(ctx)
		return fmt.Errorf("warmup: %w", err)
	}
	if err := pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}

	perTask := NewPerTask()
	if _, err := s.harness.Run(ctx, perTask, s.cfg.Warmup); err != nil {
		perTask.Shutdown(ctx)
		return fmt.Errorf("warmup: %w", err)
	}
	if err := perTask.Shutdown(ctx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}

	s.settle(ctx)
	return nil
}

func (s *Sweep) runScenario(ctx context.Context, scenario Scenario) (ScenarioOutcome, error) {
	pool, err := NewBoundedPool(scenario.PoolWidth)
	if err != nil {
		return ScenarioOutcome{}, err
	}

	baseline, err := s.harness.Run(ctx, pool, scenario.Tasks)
	if shutdownErr := pool.Shutdown(ctx); err == nil {
		err = shutdownErr
	}
	if err != nil {
		return ScenarioOutcome{}, err
	}
	if s.cfg.OnResult != nil {
		s.cfg.OnResult(scenario, pool.Name(), baseline)
	}

	s.settle(ctx)

	perTask := NewPerTask()
	candidate, err := s.harness.Run(ctx, perTask, scenario.Tasks)
	if shutdownErr := perTask.Shutdown(ctx); err == nil {
		err = shutdownErr
	}
	if err != nil {
		return ScenarioOutcome{}, err
	}
	if s.cfg.OnResult != nil {
		s.cfg.OnResult(scenario, perTask.Name(), candidate)
	}

	s.settle(ctx)

	return ScenarioOutcome{
		Scenario: scenario,
		Report:   Compare(baseline, candidate),
	}, nil
}

// settle forces a collection and pauses so deferred reclamation from the
// previous run does not skew the next memory baseline.
func (s *Sweep) settle(ctx context.Context) {
	runtime.GC()

	timer := time.NewTimer(s.cfg.SettlePause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
