package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTiming(t *testing.T) {
	for _, timing := range []string{"pre", "post", "complete"} {
		assert.NoError(t, validateTiming(timing))
	}

	err := validateTiming("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --timing "bogus"`)
	assert.Contains(t, err.Error(), "use pre, post, or complete")

	assert.Error(t, validateTiming(""))
}
