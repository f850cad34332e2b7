package engine

import (
	"fmt"
	"strings"

	"github.com/oasgate/oasgate/pkg/spec"
)

// NotFoundError means no declared path matched the request path.
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no operation declared for %s %s", e.Method, e.Path)
}

// MethodNotAllowedError means the path is declared but not under the
// requested method. Callers need this separate from NotFoundError to
// answer 405 instead of 404.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allowed: %s)",
		e.Method, e.Path, strings.Join(e.Allowed, ", "))
}

// Resolve maps (method, path) to a declared operation. Methods compare
// case-insensitively; paths compare exactly against the declared
// templates. Path parameter templates ({param} segments) are not
// interpreted; a declared path containing braces is just a literal key.
func Resolve(doc *spec.Document, method, path string) (*spec.Operation, error) {
	key := spec.OperationKey{Path: path, Method: spec.NormalizeMethod(method)}
	if op, ok := doc.Lookup(key); ok {
		return op, nil
	}
	if allowed := doc.MethodsForPath(path); len(allowed) > 0 {
		return nil, &MethodNotAllowedError{Method: key.Method, Path: path, Allowed: allowed}
	}
	return nil, &NotFoundError{Method: key.Method, Path: path}
}
