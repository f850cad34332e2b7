// Package engine validates incoming HTTP requests against a loaded
// spec.Document: it resolves (method, path) to a declared operation,
// enforces the operation's request body requirements, and emits a single
// accept/reject Decision for the transport layer to act on.
package engine

import (
	"net/http"

	"github.com/oasgate/oasgate/pkg/spec"
)

// RejectKind is a machine-readable reason for a rejected Decision.
type RejectKind string

const (
	KindNotFound             RejectKind = "not_found"
	KindMethodNotAllowed     RejectKind = "method_not_allowed"
	KindMissingBody          RejectKind = "missing_body"
	KindMissingContentType   RejectKind = "missing_content_type"
	KindUnsupportedMediaType RejectKind = "unsupported_media_type"
	KindMalformedBody        RejectKind = "malformed_body"
)

// Decision is the outcome of validating one request. A Decision never
// carries partial state: either Allowed is true and Operation is set, or
// Allowed is false and Kind/Message describe the rejection.
type Decision struct {
	Allowed bool

	// Operation is the resolved operation. Set whenever the route
	// resolved, including body-level rejections.
	Operation *spec.Operation

	// MatchedMediaType is the declared media type the request matched,
	// when the operation constrains content types.
	MatchedMediaType *spec.MediaType

	Kind    RejectKind
	Message string

	// AllowedMethods is set on method_not_allowed rejections so the
	// transport can emit an Allow header.
	AllowedMethods []string
}

// Status maps the Decision to the HTTP status the transport should use.
func (d Decision) Status() int {
	if d.Allowed {
		return http.StatusOK
	}
	switch d.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func accepted(op *spec.Operation, mt *spec.MediaType) Decision {
	return Decision{Allowed: true, Operation: op, MatchedMediaType: mt}
}

func rejected(kind RejectKind, message string) Decision {
	return Decision{Kind: kind, Message: message}
}
