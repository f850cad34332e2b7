package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoundTrip(t *testing.T) {
	doc := fixtureDocument(t)
	for _, op := range doc.Operations() {
		found, err := Resolve(doc, op.Key.Method, op.Key.Path)
		require.NoError(t, err, "resolve %s", op.Key)
		assert.Same(t, op, found)
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := fixtureDocument(t)

	_, err := Resolve(doc, "GET", "/invalid/path")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "/invalid/path", nf.Path)
}

func TestResolveMethodNotAllowed(t *testing.T) {
	doc := fixtureDocument(t)

	_, err := Resolve(doc, "get", "/multiple/allowed/operations")
	var mna *MethodNotAllowedError
	require.ErrorAs(t, err, &mna)
	assert.Equal(t, "GET", mna.Method)
	assert.Equal(t, []string{"DELETE", "POST", "PUT"}, mna.Allowed)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestResolvePathIsExact(t *testing.T) {
	doc := fixtureDocument(t)

	_, err := Resolve(doc, "GET", "/ping/")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
