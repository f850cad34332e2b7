package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasgate/oasgate/pkg/spec"
)

func fixtureOperation(t *testing.T, method, path string) *spec.Operation {
	t.Helper()
	op, ok := fixtureDocument(t).Lookup(spec.OperationKey{Path: path, Method: method})
	require.True(t, ok)
	return op
}

func TestEvaluateOptionalBody(t *testing.T) {
	op := fixtureOperation(t, "POST", "/not/required/body")

	tests := []struct {
		name        string
		bodyPresent bool
		contentType string
	}{
		{name: "no body no content type", bodyPresent: false},
		{name: "body no content type", bodyPresent: true},
		{name: "body with undeclared content type", bodyPresent: true, contentType: "text/plain; charset=utf-8"},
		{name: "no body with content type", bodyPresent: false, contentType: "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(op, tt.bodyPresent, tt.contentType)
			assert.True(t, d.Allowed)
		})
	}
}

func TestEvaluateRequiredUntypedBody(t *testing.T) {
	op := fixtureOperation(t, "POST", "/required/body")

	d := Evaluate(op, false, "")
	require.False(t, d.Allowed)
	assert.Equal(t, KindMissingBody, d.Kind)

	// Required body with no declared content types accepts any content
	// type, or none at all.
	assert.True(t, Evaluate(op, true, "").Allowed)
	assert.True(t, Evaluate(op, true, "application/octet-stream").Allowed)
}

func TestEvaluateRequiredJSONBody(t *testing.T) {
	op := fixtureOperation(t, "POST", "/required/json/body")

	d := Evaluate(op, true, "application/json")
	require.True(t, d.Allowed)
	require.NotNil(t, d.MatchedMediaType)
	assert.Equal(t, "application/json", d.MatchedMediaType.Type)

	d = Evaluate(op, true, "text/plain")
	require.False(t, d.Allowed)
	assert.Equal(t, KindUnsupportedMediaType, d.Kind)
	assert.Equal(t, 415, d.Status())

	d = Evaluate(op, true, "")
	require.False(t, d.Allowed)
	assert.Equal(t, KindMissingContentType, d.Kind)
	assert.Equal(t, 400, d.Status())
}

func TestEvaluateMultipleMediaTypes(t *testing.T) {
	op := fixtureOperation(t, "POST", "/allows/utf8/or/json/body")

	assert.True(t, Evaluate(op, true, "text/plain; charset=utf-8").Allowed)
	assert.True(t, Evaluate(op, true, "application/json").Allowed)

	// Declared entry carries a charset parameter; a bare text/plain does
	// not match it.
	d := Evaluate(op, true, "text/plain")
	require.False(t, d.Allowed)
	assert.Equal(t, KindUnsupportedMediaType, d.Kind)
}

func TestEvaluateTypeSubtypeCaseInsensitive(t *testing.T) {
	op := fixtureOperation(t, "POST", "/required/json/body")

	d := Evaluate(op, true, "Application/JSON")
	assert.True(t, d.Allowed)
}

func TestEvaluateUnparsableContentType(t *testing.T) {
	op := fixtureOperation(t, "POST", "/required/json/body")

	d := Evaluate(op, true, "not a media type")
	require.False(t, d.Allowed)
	assert.Equal(t, KindUnsupportedMediaType, d.Kind)
}
