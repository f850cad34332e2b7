package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasgate/oasgate/pkg/spec"
)

func mediaType(t *testing.T, s string) spec.MediaType {
	t.Helper()
	mt, err := spec.ParseMediaType(s)
	require.NoError(t, err)
	return mt
}

func TestCheckPayloadJSON(t *testing.T) {
	json := mediaType(t, "application/json")

	assert.NoError(t, CheckPayload(json, []byte(`{}`)))
	assert.NoError(t, CheckPayload(json, []byte(`true`)))
	assert.Error(t, CheckPayload(json, []byte(`babe`)))
	assert.Error(t, CheckPayload(json, []byte(`{"unterminated": `)))
}

func TestCheckPayloadUTF8(t *testing.T) {
	utf8Plain := mediaType(t, "text/plain; charset=utf-8")

	assert.NoError(t, CheckPayload(utf8Plain, []byte("ab")))
	assert.NoError(t, CheckPayload(utf8Plain, []byte("héllo")))
	assert.Error(t, CheckPayload(utf8Plain, []byte{0xc3, 0x28}))
}

func TestCheckPayloadUncheckedTypes(t *testing.T) {
	// No well-formedness rule declared for these; anything goes.
	assert.NoError(t, CheckPayload(mediaType(t, "application/octet-stream"), []byte{0xc3, 0x28}))
	assert.NoError(t, CheckPayload(mediaType(t, "text/plain"), []byte{0xc3, 0x28}))
}
