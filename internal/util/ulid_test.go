package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Monotonic(t *testing.T) {
	a := NewID()
	b := NewID()

	_, err := ulid.ParseStrict(a)
	require.NoError(t, err)
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
