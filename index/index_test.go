package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndex_AddSnippet(t *testing.T) {
	ix := openMemory(t)

	added, err := ix.AddSnippet("a.b();", []string{"String.length", "String.length", "Object.toString"})
	require.NoError(t, err)
	assert.True(t, added)

	n, err := ix.Count("String.length")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	t.Run("duplicate snippet is ignored", func(t *testing.T) {
		added, err := ix.AddSnippet("a.b();", []string{"String.length"})
		require.NoError(t, err)
		assert.False(t, added)

		n, err := ix.Count("String.length")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		s, err := ix.Snippets()
		require.NoError(t, err)
		assert.Equal(t, 1, s)
	})

	t.Run("unknown token counts zero", func(t *testing.T) {
		n, err := ix.Count("nope")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestIndex_Top(t *testing.T) {
	ix := openMemory(t)

	_, err := ix.AddSnippet("one", []string{"b", "a", "c", "c"})
	require.NoError(t, err)
	_, err = ix.AddSnippet("two", []string{"a"})
	require.NoError(t, err)

	top, err := ix.Top(2)
	require.NoError(t, err)
	assert.Equal(t, []TokenCount{{"a", 2}, {"c", 2}}, top)
}

func TestSnippetHash(t *testing.T) {
	assert.Equal(t, SnippetHash("x"), SnippetHash("x"))
	assert.NotEqual(t, SnippetHash("x"), SnippetHash("y"))
	assert.Len(t, SnippetHash("x"), 16)
}
