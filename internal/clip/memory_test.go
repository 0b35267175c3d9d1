package clip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory("hello")

	got, err := m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	require.NoError(t, m.WriteText("world"))
	got, err = m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "world", got)

	boom := errors.New("pasteboard busy")
	m.FailReads(boom)
	_, err = m.ReadText()
	assert.ErrorIs(t, err, boom)

	m.FailReads(nil)
	got, err = m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestHeadless(t *testing.T) {
	var b Backend = headlessBackend{}
	require.NoError(t, b.WriteText("discarded"))
	got, err := b.ReadText()
	require.NoError(t, err)
	assert.Empty(t, got)
}
