package engine

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/oasgate/oasgate/pkg/logging"
	"github.com/oasgate/oasgate/pkg/spec"
)

// Engine validates requests against a Document. It is stateless apart
// from the Document reference itself, which lives behind an atomic
// pointer: Validate may run from any number of goroutines with no
// locking, and Reload swaps in a complete replacement Document so
// in-flight validations always see one consistent version.
type Engine struct {
	doc    atomic.Pointer[spec.Document]
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for reload events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine serving the given Document.
func New(doc *spec.Document, opts ...Option) *Engine {
	e := &Engine{logger: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.doc.Store(doc)
	return e
}

// Document returns the Document currently being served.
func (e *Engine) Document() *spec.Document {
	return e.doc.Load()
}

// Reload atomically replaces the served Document.
func (e *Engine) Reload(doc *spec.Document) {
	old := e.doc.Swap(doc)
	e.logger.Info("spec reloaded", "operations", doc.Len(), "previous", old.Len())
}

// Validate resolves the request to an operation and applies its body
// requirements, short-circuiting on the first failure. It is a pure
// function of its inputs and the current Document.
func (e *Engine) Validate(method, path string, bodyPresent bool, contentType string) Decision {
	op, err := Resolve(e.doc.Load(), method, path)
	if err != nil {
		var mna *MethodNotAllowedError
		if errors.As(err, &mna) {
			d := rejected(KindMethodNotAllowed, err.Error())
			d.AllowedMethods = mna.Allowed
			return d
		}
		return rejected(KindNotFound, err.Error())
	}
	return Evaluate(op, bodyPresent, contentType)
}
