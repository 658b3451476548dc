package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndNavigate(t *testing.T) {
	p := New()

	_, ok := p.Current()
	assert.False(t, ok)

	p.Add(Item{Url: "u1"})
	p.Add(Item{Url: "u2"})
	p.Add(Item{Url: "u3"})

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", current.Url)

	next, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "u2", next.Url)

	next, ok = p.Next()
	require.True(t, ok)
	assert.Equal(t, "u3", next.Url)

	_, ok = p.Next()
	assert.False(t, ok)

	prev, ok := p.Previous()
	require.True(t, ok)
	assert.Equal(t, "u2", prev.Url)
}

func TestAddAllowsDuplicates(t *testing.T) {
	p := New()

	p.Add(Item{Url: "u1"})
	p.Add(Item{Url: "u1"})

	assert.Len(t, p.Items(), 2)
}

func TestRemove(t *testing.T) {
	p := New()

	p.Add(Item{Url: "u1"})
	p.Add(Item{Url: "u2"})

	_, err := p.Remove(5)
	assert.ErrorIs(t, err, ErrOutOfRange)

	removed, err := p.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "u1", removed.Url)

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "u2", current.Url)

	_, err = p.Remove(0)
	require.NoError(t, err)

	_, ok = p.Current()
	assert.False(t, ok)
}

func TestReorder(t *testing.T) {
	p := New()

	p.Add(Item{Url: "u1"})
	p.Add(Item{Url: "u2"})
	p.Add(Item{Url: "u3"})

	require.NoError(t, p.Reorder(2, 0))

	items := p.Items()
	assert.Equal(t, "u3", items[0].Url)
	assert.Equal(t, "u1", items[1].Url)
	assert.Equal(t, "u2", items[2].Url)

	// current item followed its position
	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", current.Url)

	assert.ErrorIs(t, p.Reorder(0, 9), ErrOutOfRange)
}
