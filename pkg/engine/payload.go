package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/oasgate/oasgate/pkg/spec"
)

// CheckPayload verifies that an accepted body is well-formed for the
// media type it matched: application/json bodies must parse as JSON and
// text/plain; charset=utf-8 bodies must be valid UTF-8. Other media
// types carry no well-formedness check. This is deliberately not schema
// validation; only the encoding is inspected.
func CheckPayload(mt spec.MediaType, body []byte) error {
	switch {
	case mt.Type == "application/json":
		if !json.Valid(body) {
			return fmt.Errorf("body is not valid JSON")
		}
	case mt.Type == "text/plain" && mt.Params["charset"] == "utf-8":
		if !utf8.Valid(body) {
			return fmt.Errorf("body is not valid UTF-8")
		}
	}
	return nil
}
