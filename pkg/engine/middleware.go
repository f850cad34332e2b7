package engine

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oasgate/oasgate/pkg/logging"
)

// Validation modes.
const (
	// ModeStrict rejects requests that fail validation.
	ModeStrict = "strict"
	// ModeWarn logs failures and adds response headers but lets the
	// request through.
	ModeWarn = "warn"
	// ModePermissive skips validation entirely.
	ModePermissive = "permissive"
)

// maxBodySize caps how much of a request body the middleware will buffer.
const maxBodySize = 10 << 20 // 10MB

// Middleware wraps an http.Handler with request validation. Rejected
// requests are answered with RFC 7807 problem responses carrying the
// status from Decision.Status.
type Middleware struct {
	handler      http.Handler
	engine       *Engine
	mode         string
	checkPayload bool
	logger       *slog.Logger
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithMode sets the validation mode (strict, warn, permissive).
func WithMode(mode string) MiddlewareOption {
	return func(m *Middleware) { m.mode = mode }
}

// WithPayloadChecks toggles body well-formedness checks on accepted
// requests.
func WithPayloadChecks(enabled bool) MiddlewareOption {
	return func(m *Middleware) { m.checkPayload = enabled }
}

// WithMiddlewareLogger sets the logger for validation failures.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *Middleware) { m.logger = logger }
}

// NewMiddleware wraps handler with validation against eng.
func NewMiddleware(handler http.Handler, eng *Engine, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		handler:      handler,
		engine:       eng,
		mode:         ModeStrict,
		checkPayload: true,
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ServeHTTP implements http.Handler.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.mode == ModePermissive {
		m.handler.ServeHTTP(w, r)
		return
	}

	var bodyBytes []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		bodyBytes, err = io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			m.reject(w, rejected(KindMalformedBody, "failed to read request body"), uuid.NewString())
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	decision := m.engine.Validate(r.Method, r.URL.Path, len(bodyBytes) > 0, r.Header.Get("Content-Type"))

	if decision.Allowed && m.checkPayload && decision.MatchedMediaType != nil {
		if err := CheckPayload(*decision.MatchedMediaType, bodyBytes); err != nil {
			op := decision.Operation
			decision = rejected(KindMalformedBody, err.Error())
			decision.Operation = op
		}
	}

	if decision.Allowed {
		m.handler.ServeHTTP(w, r)
		return
	}

	requestID := uuid.NewString()
	m.logDecision(r, decision, requestID)

	if m.mode == ModeWarn {
		w.Header().Set("X-Oasgate-Validation", "failed")
		w.Header().Set("X-Oasgate-Validation-Kind", string(decision.Kind))
		m.handler.ServeHTTP(w, r)
		return
	}

	m.reject(w, decision, requestID)
}

func (m *Middleware) reject(w http.ResponseWriter, d Decision, requestID string) {
	if d.Kind == KindMethodNotAllowed && len(d.AllowedMethods) > 0 {
		w.Header().Set("Allow", strings.Join(d.AllowedMethods, ", "))
	}
	NewProblem(d, "urn:uuid:"+requestID).Write(w)
}

func (m *Middleware) logDecision(r *http.Request, d Decision, requestID string) {
	m.logger.Warn("request rejected",
		"kind", string(d.Kind),
		"method", r.Method,
		"path", r.URL.Path,
		"status", d.Status(),
		"request_id", requestID,
		"message", d.Message)
}

// Wrap is a convenience adapter for router middleware chains.
func Wrap(eng *Engine, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return NewMiddleware(next, eng, opts...)
	}
}
