// Package spec holds the in-memory model of an OpenAPI document's request
// surface: which (path, method) operations exist and what each one demands
// of a request body. Only the structural subset needed for request
// validation is modeled; everything else in the source document is ignored.
package spec

import (
	"fmt"
	"maps"
	"mime"
	"sort"
	"strings"
)

// MediaType is a parsed content-type value. Type holds the lowercased
// type/subtype ("application/json"); Params holds parameters with
// lowercased names and literal values ({"charset": "utf-8"}).
type MediaType struct {
	Type   string
	Params map[string]string
}

// ParseMediaType parses a content-type string such as
// "text/plain; charset=utf-8".
func ParseMediaType(s string) (MediaType, error) {
	mt, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, fmt.Errorf("invalid media type %q: %w", s, err)
	}
	return MediaType{Type: mt, Params: params}, nil
}

// Matches reports whether two media types are the same declaration:
// equal type/subtype (already normalized to lower case by parsing) and
// literally equal parameter sets. "text/plain" does not match
// "text/plain; charset=utf-8" in either direction.
func (m MediaType) Matches(other MediaType) bool {
	if m.Type != other.Type {
		return false
	}
	return maps.Equal(m.Params, other.Params)
}

func (m MediaType) String() string {
	return mime.FormatMediaType(m.Type, m.Params)
}

// OperationKey identifies one operation: a literal path template and an
// uppercase HTTP method.
type OperationKey struct {
	Path   string
	Method string
}

func (k OperationKey) String() string {
	return k.Method + " " + k.Path
}

// Operation is one declared endpoint and its request body requirements.
type Operation struct {
	Key OperationKey

	// BodyRequired mirrors requestBody.required (false when unspecified).
	BodyRequired bool

	// AcceptedMediaTypes lists the declared request content types in
	// document order. Empty means no content constraint.
	AcceptedMediaTypes []MediaType
}

// AcceptsMediaType returns the declared media type matching mt, if any.
func (op *Operation) AcceptsMediaType(mt MediaType) (MediaType, bool) {
	for _, declared := range op.AcceptedMediaTypes {
		if declared.Matches(mt) {
			return declared, true
		}
	}
	return MediaType{}, false
}

// Document is an immutable, ordered collection of operations keyed by
// (path, method). It is built once by Load or Merge and never mutated;
// concurrent readers need no locking.
type Document struct {
	ops   []*Operation
	index map[OperationKey]*Operation
}

func newDocument() *Document {
	return &Document{index: make(map[OperationKey]*Operation)}
}

func (d *Document) add(op *Operation) error {
	if _, exists := d.index[op.Key]; exists {
		return &ParseError{Msg: fmt.Sprintf("duplicate operation %s", op.Key)}
	}
	d.ops = append(d.ops, op)
	d.index[op.Key] = op
	return nil
}

// Lookup returns the operation for key, if declared. The method in key
// must already be uppercase.
func (d *Document) Lookup(key OperationKey) (*Operation, bool) {
	op, ok := d.index[key]
	return op, ok
}

// Operations returns all operations in document order.
func (d *Document) Operations() []*Operation {
	out := make([]*Operation, len(d.ops))
	copy(out, d.ops)
	return out
}

// MethodsForPath returns the sorted set of methods declared for path.
// Empty when the path itself is undeclared.
func (d *Document) MethodsForPath(path string) []string {
	var methods []string
	for _, op := range d.ops {
		if op.Key.Path == path {
			methods = append(methods, op.Key.Method)
		}
	}
	sort.Strings(methods)
	return methods
}

// Len returns the number of declared operations.
func (d *Document) Len() int {
	return len(d.ops)
}

// NormalizeMethod uppercases an HTTP verb for use in an OperationKey.
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// Merge combines several documents into one. Operations keep their
// per-document order, documents in argument order. A (path, method) pair
// declared in more than one input fails with a ParseError.
func Merge(docs ...*Document) (*Document, error) {
	merged := newDocument()
	for _, doc := range docs {
		for _, op := range doc.ops {
			if err := merged.add(op); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}
