package engine

import (
	"fmt"
	"strings"

	"github.com/oasgate/oasgate/pkg/spec"
)

// Evaluate applies an operation's request body requirements to what the
// transport observed: whether a body is present and which content type, if
// any, the request declared (empty string means no Content-Type header).
//
// The rules apply in order:
//  1. body required but absent: missing_body.
//  2. body not required: accepted, whatever the body or content type.
//  3. body present with declared content types: the request must name one
//     of them (missing_content_type / unsupported_media_type otherwise).
//  4. body present with no declared content types: accepted as-is.
func Evaluate(op *spec.Operation, bodyPresent bool, contentType string) Decision {
	if op.BodyRequired && !bodyPresent {
		d := rejected(KindMissingBody, fmt.Sprintf("operation %s requires a request body", op.Key))
		d.Operation = op
		return d
	}
	if !op.BodyRequired {
		return accepted(op, nil)
	}
	if len(op.AcceptedMediaTypes) == 0 {
		return accepted(op, nil)
	}

	if contentType == "" {
		d := rejected(KindMissingContentType,
			fmt.Sprintf("operation %s requires a Content-Type header (one of: %s)",
				op.Key, declaredTypes(op)))
		d.Operation = op
		return d
	}
	mt, err := spec.ParseMediaType(contentType)
	if err != nil {
		d := rejected(KindUnsupportedMediaType, err.Error())
		d.Operation = op
		return d
	}
	matched, ok := op.AcceptsMediaType(mt)
	if !ok {
		d := rejected(KindUnsupportedMediaType,
			fmt.Sprintf("content type %q not accepted by %s (accepts: %s)",
				contentType, op.Key, declaredTypes(op)))
		d.Operation = op
		return d
	}
	return accepted(op, &matched)
}

func declaredTypes(op *spec.Operation) string {
	names := make([]string, len(op.AcceptedMediaTypes))
	for i, mt := range op.AcceptedMediaTypes {
		names[i] = mt.String()
	}
	return strings.Join(names, ", ")
}
