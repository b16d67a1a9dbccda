package conceptcard

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Service is the single entry point used by user interfaces. It validates the
// concept, calls exactly one Transport and classifies failures.
type Service struct {
	transport Transport
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service over an orchestrator (direct mode) or a proxy
// client (proxy mode).
func NewService(transport Transport, opts ...ServiceOption) *Service {
	s := &Service{
		transport: transport,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeConcept validates and analyzes a concept. Invalid input fails with
// an *AnalysisError wrapping a *ValidationError before any provider is
// contacted. Cancellation is returned unwrapped.
func (s *Service) AnalyzeConcept(ctx context.Context, concept string) (*Result, error) {
	if err := ValidateConcept(concept); err != nil {
		return nil, &AnalysisError{Info: Classify(err, ""), Err: err}
	}
	concept = strings.TrimSpace(concept)

	result, err := s.transport.Analyze(ctx, concept)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		info := Classify(err, "")
		s.logger.Warn("analysis failed",
			"concept", concept,
			"category", info.Category,
			"retryable", info.Retryable,
			"error", err,
		)
		return nil, &AnalysisError{Info: info, Err: err}
	}

	s.logger.Info("analysis complete", "concept", concept, "provider", result.ProviderName)
	return result, nil
}

// AnalyzeWithRetry repeats AnalyzeConcept while the failure is retryable.
func (s *Service) AnalyzeWithRetry(ctx context.Context, concept string, cfg RetryConfig) (*Result, error) {
	return WithRetry(ctx, cfg, func() (*Result, error) {
		return s.AnalyzeConcept(ctx, concept)
	})
}
