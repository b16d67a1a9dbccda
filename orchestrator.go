package conceptcard

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Adapter calls one AI provider and returns a normalized Analysis.
type Adapter interface {
	Analyze(ctx context.Context, concept string) (Analysis, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, concept string) (Analysis, error)

// Analyze calls f.
func (f AdapterFunc) Analyze(ctx context.Context, concept string) (Analysis, error) {
	return f(ctx, concept)
}

// Transport produces an analysis for a validated concept. The Orchestrator and
// the backend proxy client both implement it.
type Transport interface {
	Analyze(ctx context.Context, concept string) (*Result, error)
}

// Result is a successful analysis and where it came from.
type Result struct {
	Analysis     Analysis
	Provider     ProviderID // Empty when the proxy reported an unknown name
	ProviderName string
	Attempts     []Attempt // Failed attempts that preceded the success
}

// Attempt records one failed provider call.
type Attempt struct {
	Provider ProviderID
	Err      error
	Duration time.Duration
}

// Candidate is one provider selected for a run.
type Candidate struct {
	ID      ProviderID
	Adapter Adapter
}

// RunState is the state of one orchestrated request.
type RunState int

const (
	RunStart RunState = iota
	RunAttempting
	RunSucceeded
	RunFailed
	RunCancelled
)

func (s RunState) String() string {
	switch s {
	case RunStart:
		return "start"
	case RunAttempting:
		return "attempting"
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	case RunCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Run is the traversal state of one request. It is owned by a single call to
// Orchestrator.Generate.
type Run struct {
	Concept    string
	Candidates []Candidate
	Index      int
	Attempts   []Attempt
	State      RunState

	result *Result
	err    error
}

// Orchestrator tries candidate providers strictly in order until one succeeds.
type Orchestrator struct {
	resolver  *Resolver
	adapters  map[ProviderID]Adapter
	preferred ProviderID
	logger    *slog.Logger
	observer  func(*Run)
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithPreferredProvider sets the provider tried first when available.
func WithPreferredProvider(id ProviderID) OrchestratorOption {
	return func(o *Orchestrator) {
		o.preferred = id
	}
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRunObserver registers a callback invoked after every state transition.
func WithRunObserver(fn func(*Run)) OrchestratorOption {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// NewOrchestrator creates an orchestrator over a resolver and a static adapter
// registry.
func NewOrchestrator(resolver *Resolver, adapters map[ProviderID]Adapter, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		adapters: adapters,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze implements Transport using the preferred provider as hint.
func (o *Orchestrator) Analyze(ctx context.Context, concept string) (*Result, error) {
	return o.Generate(ctx, concept, o.preferred)
}

// Generate resolves candidates for this request and attempts them in order.
// The candidate list is rebuilt on every call.
func (o *Orchestrator) Generate(ctx context.Context, concept string, hint ProviderID) (*Result, error) {
	run := &Run{Concept: concept, State: RunStart}
	o.start(run, hint)
	for run.State == RunAttempting {
		o.step(ctx, run)
	}
	return run.result, run.err
}

func (o *Orchestrator) start(run *Run, hint ProviderID) {
	ids, err := o.resolver.Resolve(hint)
	if err == nil {
		for _, id := range ids {
			if adapter, ok := o.adapters[id]; ok {
				run.Candidates = append(run.Candidates, Candidate{ID: id, Adapter: adapter})
			}
		}
		if len(run.Candidates) == 0 {
			err = ErrNoProvider
		}
	}

	if err != nil {
		run.State = RunFailed
		run.err = err
		o.logger.Error("no provider available", "concept", run.Concept)
	} else {
		run.State = RunAttempting
	}
	o.notify(run)
}

// step performs Attempting(run.Index).
func (o *Orchestrator) step(ctx context.Context, run *Run) {
	if err := ctx.Err(); err != nil {
		o.cancel(run, err)
		return
	}

	c := run.Candidates[run.Index]
	o.logger.Info("attempting provider", "provider", c.ID, "attempt", run.Index+1, "of", len(run.Candidates))

	began := time.Now()
	analysis, err := c.Adapter.Analyze(ctx, run.Concept)
	elapsed := time.Since(began)

	// A cancelled request must not act on whatever the adapter returned.
	if cerr := ctx.Err(); cerr != nil {
		o.cancel(run, cerr)
		return
	}

	if err == nil {
		run.State = RunSucceeded
		run.result = &Result{
			Analysis:     analysis,
			Provider:     c.ID,
			ProviderName: c.ID.DisplayName(),
			Attempts:     run.Attempts,
		}
		o.logger.Info("provider succeeded", "provider", c.ID, "duration", elapsed)
		o.notify(run)
		return
	}

	run.Attempts = append(run.Attempts, Attempt{Provider: c.ID, Err: err, Duration: elapsed})
	o.logger.Warn("provider failed", "provider", c.ID, "duration", elapsed, "error", err)

	if run.Index == len(run.Candidates)-1 {
		run.State = RunFailed
		if len(run.Attempts) == 1 {
			run.err = err
		} else {
			run.err = &AllProvidersFailedError{Attempts: run.Attempts}
		}
	} else {
		run.Index++
	}
	o.notify(run)
}

func (o *Orchestrator) cancel(run *Run, err error) {
	run.State = RunCancelled
	run.err = err
	run.result = nil
	o.logger.Info("analysis cancelled", "concept", run.Concept, "attempts", len(run.Attempts))
	o.notify(run)
}

func (o *Orchestrator) notify(run *Run) {
	if o.observer != nil {
		o.observer(run)
	}
}
