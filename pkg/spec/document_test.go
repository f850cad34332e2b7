package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		params map[string]string
	}{
		{name: "simple", input: "application/json", want: "application/json"},
		{name: "upper case type", input: "Application/JSON", want: "application/json"},
		{name: "with charset", input: "text/plain; charset=utf-8", want: "text/plain", params: map[string]string{"charset": "utf-8"}},
		{name: "upper case attribute", input: "text/plain; CHARSET=utf-8", want: "text/plain", params: map[string]string{"charset": "utf-8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, err := ParseMediaType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mt.Type)
			if tt.params != nil {
				assert.Equal(t, tt.params, mt.Params)
			}
		})
	}
}

func TestParseMediaTypeInvalid(t *testing.T) {
	_, err := ParseMediaType("not a media type")
	assert.Error(t, err)
}

func TestMediaTypeMatches(t *testing.T) {
	json := mustParse(t, "application/json")
	jsonUpper := mustParse(t, "APPLICATION/JSON")
	plain := mustParse(t, "text/plain")
	plainUTF8 := mustParse(t, "text/plain; charset=utf-8")

	assert.True(t, json.Matches(jsonUpper))
	assert.True(t, plainUTF8.Matches(mustParse(t, "text/plain; charset=utf-8")))

	// Parameters compare literally, in both directions.
	assert.False(t, plain.Matches(plainUTF8))
	assert.False(t, plainUTF8.Matches(plain))
	assert.False(t, json.Matches(plain))
}

func mustParse(t *testing.T, s string) MediaType {
	t.Helper()
	mt, err := ParseMediaType(s)
	require.NoError(t, err)
	return mt
}

func TestOperationAcceptsMediaType(t *testing.T) {
	op := &Operation{
		Key:          OperationKey{Path: "/x", Method: "POST"},
		BodyRequired: true,
		AcceptedMediaTypes: []MediaType{
			mustParse(t, "application/json"),
			mustParse(t, "text/plain; charset=utf-8"),
		},
	}

	matched, ok := op.AcceptsMediaType(mustParse(t, "application/json"))
	require.True(t, ok)
	assert.Equal(t, "application/json", matched.Type)

	_, ok = op.AcceptsMediaType(mustParse(t, "text/plain"))
	assert.False(t, ok)
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, "PUT", NormalizeMethod("put"))
	assert.Equal(t, "PUT", NormalizeMethod(" Put "))
}
