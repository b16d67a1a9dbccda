// Package server exposes concept analysis over HTTP.
//
// It plays the role of the backend proxy: clients send a concept and an
// optional provider hint, the server holds the credentials and walks the
// provider chain, and the response carries the display name of the provider
// that answered.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/conceptcard"
	"github.com/ZaguanLabs/conceptcard/card"
	"github.com/ZaguanLabs/conceptcard/history"
	"github.com/google/uuid"
)

const (
	maxRequestBytes = 64 << 10
	shutdownTimeout = 5 * time.Second
	corsMaxAge      = "86400"
)

// Generator runs an analysis with an optional provider hint.
// *conceptcard.Orchestrator satisfies it.
type Generator interface {
	Generate(ctx context.Context, concept string, hint conceptcard.ProviderID) (*conceptcard.Result, error)
}

var _ Generator = (*conceptcard.Orchestrator)(nil)

// Server handles the analysis API.
type Server struct {
	gen     Generator
	history history.Store
	logger  *slog.Logger
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithHistory records successful concepts and serves them on /api/history.
func WithHistory(store history.Store) Option {
	return func(s *Server) {
		s.history = store
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server around gen.
func New(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /share", s.handleShare)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler with CORS and request ids applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(corsMiddleware(s.mux))
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()
	s.logger.Info("server listening", slog.String("address", l.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, l)
}

type analyzeRequest struct {
	Concept  string `json:"concept"`
	Provider string `json:"provider,omitempty"`
}

type analyzeResponse struct {
	conceptcard.Analysis
	Provider string `json:"provider"`
}

type historyResponse struct {
	Concepts []string `json:"concepts"`
}

type errorBody struct {
	Message      string               `json:"message"`
	Category     conceptcard.Category `json:"category"`
	UserMessage  string               `json:"userMessage"`
	Retryable    bool                 `json:"retryable"`
	Action       string               `json:"action,omitempty"`
	ShowFallback bool                 `json:"showFallback,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

const badConceptMessage = "Concept is required and must be a non-empty string."

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.log(ctx)
	loc := conceptcard.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	start := time.Now()

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		req = analyzeRequest{}
	}
	if err := conceptcard.ValidateConcept(req.Concept); err != nil {
		var verr *conceptcard.ValidationError
		if errors.As(err, &verr) && verr.Reason == conceptcard.ReasonEmpty {
			s.writeError(w, http.StatusBadRequest, badConceptMessage, err, loc)
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error(), err, loc)
		return
	}

	concept := strings.TrimSpace(req.Concept)
	hint, _ := conceptcard.ParseProviderID(req.Provider)
	result, err := s.gen.Generate(ctx, concept, hint)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("client went away", slog.Duration("elapsed", time.Since(start)))
			return
		}
		logger.Error("analysis failed",
			slog.String("concept", concept),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		s.writeError(w, statusFor(err), messageFor(err), err, loc)
		return
	}

	if s.history != nil {
		if err := s.history.Add(context.WithoutCancel(ctx), concept); err != nil {
			logger.Warn("history update failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("responding",
		slog.String("provider", result.ProviderName),
		slog.Int("attempts", len(result.Attempts)),
		slog.Duration("elapsed", time.Since(start)),
	)
	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis: result.Analysis,
		Provider: result.ProviderName,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	resp := historyResponse{Concepts: []string{}}
	if s.history != nil {
		concepts, err := s.history.List(r.Context())
		if err != nil {
			s.log(r.Context()).Error("history list failed", slog.String("error", err.Error()))
			loc := conceptcard.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
			s.writeError(w, http.StatusInternalServerError, err.Error(), err, loc)
			return
		}
		if concepts != nil {
			resp.Concepts = concepts
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := conceptcard.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	if lang := q.Get("lang"); lang != "" {
		loc = conceptcard.ParseLocale(lang)
	}

	state, ok := conceptcard.DecodeShareState(q.Get("data"))
	if !ok {
		err := &conceptcard.ShareLinkError{Message: "invalid or corrupt share data"}
		s.writeError(w, http.StatusBadRequest, err.Error(), err, loc)
		return
	}

	page, err := card.Render(*state, loc)
	if err != nil {
		s.log(r.Context()).Error("card render failed", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, err.Error(), err, loc)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if q.Get("download") == "1" {
		disposition := mime.FormatMediaType("attachment", map[string]string{
			"filename": card.FileName(state.Concept) + ".html",
		})
		w.Header().Set("Content-Disposition", disposition)
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

// statusFor maps a generation failure to an HTTP status. A lone upstream
// failure is a bad gateway; exhausting the chain or having nothing to try is
// the server's problem.
func statusFor(err error) int {
	var verr *conceptcard.ValidationError
	var aerr *conceptcard.AllProvidersFailedError
	var cerr *conceptcard.ConfigError
	var perr *conceptcard.ProviderError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &aerr), errors.As(err, &cerr):
		return http.StatusInternalServerError
	case errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor reports the last provider's error when the whole chain failed.
func messageFor(err error) string {
	var aerr *conceptcard.AllProvidersFailedError
	if errors.As(err, &aerr) {
		if last := aerr.Last(); last != nil {
			return last.Error()
		}
	}
	return err.Error()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response failed", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error, loc conceptcard.Locale) {
	info := conceptcard.Classify(err, "")
	userMessage := info.UserMessage(loc)
	action := info.ActionText(loc)
	var verr *conceptcard.ValidationError
	if errors.As(err, &verr) {
		userMessage = verr.Message(loc)
		action = ""
	}
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Message:      message,
		Category:     info.Category,
		UserMessage:  userMessage,
		Retryable:    info.Retryable,
		Action:       action,
		ShowFallback: info.ShowFallback(),
	}})
}

type loggerKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		logger := s.logger.With(
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, logger)))
	})
}

func (s *Server) log(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return s.logger
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Max-Age", corsMaxAge)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
