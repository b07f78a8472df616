package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, []string{"config", "contract", "keys"}, Topics())
}

func TestGet(t *testing.T) {
	body, ok := Get(" Keys ")
	require.True(t, ok)
	assert.Contains(t, body, "shift+tab")
	assert.Contains(t, body, "500ms after the latest submit")

	body, ok = Get("contract")
	require.True(t, ok)
	assert.Contains(t, body, "500ms after the latest one")

	_, ok = Get("missing")
	assert.False(t, ok)
	_, ok = Get("../docs")
	assert.False(t, ok)
}
