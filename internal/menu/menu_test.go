package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "hello", "hello"},
		{"exactly max", strings.Repeat("x", 30), strings.Repeat("x", 30)},
		{"one over", strings.Repeat("x", 31), strings.Repeat("x", 27) + "..."},
		{"multi-line", "line one\nline two\t end", "line one line two end"},
		{"graphemes count once", strings.Repeat("é", 30), strings.Repeat("é", 30)},
		{"emoji truncation", strings.Repeat("👍🏽", 31), strings.Repeat("👍🏽", 27) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.in))
		})
	}
}

func TestTruncateTinyMax(t *testing.T) {
	assert.Equal(t, "...", Truncate("abcdef", 2))
}

func TestBuild(t *testing.T) {
	entries := []string{"g", "f", "e", "d", "c", "b", "a"}

	m := Build(entries, 0)
	require.Len(t, m.Items, DefaultSize)
	assert.Equal(t, Item{Index: 0, Label: "g"}, m.Items[0])
	assert.Equal(t, Item{Index: 4, Label: "c"}, m.Items[4])
	assert.Equal(t, []string{ActionShowWindow, ActionQuit}, m.Actions)

	m = Build(entries[:2], 5)
	assert.Len(t, m.Items, 2)

	m = Build(nil, 5)
	assert.Empty(t, m.Items)
}

func TestRender(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Build([]string{"newest", "older"}, 5).Render(&b))
	assert.Equal(t, " 0  newest\n 1  older\n----\nShow Clipboard Window\nQuit\n", b.String())

	b.Reset()
	require.NoError(t, Build(nil, 5).Render(&b))
	assert.True(t, strings.HasPrefix(b.String(), "(no clipboard history)\n----\n"))
}
