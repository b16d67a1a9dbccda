package conceptcard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Stage is a loading stage reported while an analysis is in flight.
type Stage int

const (
	StageInitializing Stage = iota
	StageConnecting
	StageAnalyzing
	StageGenerating
)

func (s Stage) String() string {
	switch s {
	case StageInitializing:
		return "initializing"
	case StageConnecting:
		return "connecting"
	case StageAnalyzing:
		return "analyzing"
	case StageGenerating:
		return "generating"
	default:
		return "unknown"
	}
}

// Text returns the localized loading text for the stage.
func (s Stage) Text(loc Locale, concept string) string {
	switch s {
	case StageInitializing:
		return localized(loc, "Preparing analysis request...", "正在准备分析请求...")
	case StageConnecting:
		return localized(loc, "Connecting to AI service...", "正在连接 AI 服务...")
	case StageAnalyzing:
		if concept == "" {
			return localized(loc, "Using AI to analyze concept...", "正在使用 AI 分析概念...")
		}
		return localized(loc,
			fmt.Sprintf("Using AI to analyze %q...", concept),
			fmt.Sprintf("正在使用 AI 分析 %q...", concept))
	case StageGenerating:
		return localized(loc, "Organizing analysis results...", "正在整理分析结果...")
	default:
		return localized(loc, "Processing...", "处理中...")
	}
}

// DefaultStageDelay paces the initializing to connecting transition.
const DefaultStageDelay = 500 * time.Millisecond

// ConceptRecorder receives every successfully analyzed concept.
type ConceptRecorder interface {
	Add(ctx context.Context, concept string) error
}

// SessionState is the state shown by a user interface.
type SessionState struct {
	Concept string
	Loading bool
	Result  *Result
	Err     error
}

// Session serializes analyses for one UI session. A new Submit cancels the
// one in flight; only the newest request may update the state.
type Session struct {
	service    *Service
	stageDelay time.Duration
	onStage    func(Stage)
	recorder   ConceptRecorder

	// stageMu orders stage callbacks against generation changes, so a
	// superseded request cannot deliver a stage after a newer one starts.
	// It is taken before mu.
	stageMu sync.Mutex

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  SessionState
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStageDelay overrides the pacing delay between the first two stages.
func WithStageDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.stageDelay = d
	}
}

// WithStageCallback registers a callback for loading stage changes. It is
// only invoked for the current request and must not call Submit or Cancel.
func WithStageCallback(fn func(Stage)) SessionOption {
	return func(s *Session) {
		s.onStage = fn
	}
}

// WithRecorder records successfully analyzed concepts, e.g. into history.
func WithRecorder(r ConceptRecorder) SessionOption {
	return func(s *Session) {
		s.recorder = r
	}
}

// NewSession creates a session over a service.
func NewSession(service *Service, opts ...SessionOption) *Session {
	s := &Session{
		service:    service,
		stageDelay: DefaultStageDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit starts an analysis, superseding any request still in flight. A
// superseded call returns ErrSuperseded and leaves the state untouched.
func (s *Session) Submit(ctx context.Context, concept string) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.stageMu.Lock()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.state = SessionState{Concept: concept, Loading: true}
	s.mu.Unlock()
	s.stageMu.Unlock()

	s.stage(gen, StageInitializing)
	if s.stageDelay > 0 {
		timer := time.NewTimer(s.stageDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	s.stage(gen, StageConnecting)
	s.stage(gen, StageAnalyzing)

	result, err := s.service.AnalyzeConcept(ctx, concept)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err == nil {
		s.state = SessionState{Concept: concept, Result: result}
	} else {
		s.state = SessionState{Concept: concept, Err: err}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.stage(gen, StageGenerating)
	if s.recorder != nil {
		if rerr := s.recorder.Add(context.WithoutCancel(ctx), concept); rerr != nil {
			s.service.logger.Warn("failed to record concept", "concept", concept, "error", rerr)
		}
	}
	return result, nil
}

// Cancel aborts the request in flight, if any. The cancelled call returns
// ErrSuperseded.
func (s *Session) Cancel() {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.state.Loading = false
}

// State returns a snapshot of the session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) stage(gen uint64, st Stage) {
	if s.onStage == nil {
		return
	}
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.mu.Lock()
	current := gen == s.gen
	s.mu.Unlock()
	if current {
		s.onStage(st)
	}
}
