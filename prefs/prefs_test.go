package prefs

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openManager(t *testing.T) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "tilepaint_test"})
	require.NoError(t, err)
	return m
}

func TestStoreRoundTrip(t *testing.T) {
	m := openManager(t)

	s := NewStore(m)
	assert.Equal(t, Prefs{}, s.Prefs())

	s.SetTile(3)
	s.SetMapName("lake")
	require.NoError(t, s.Save())

	again := NewStore(m)
	id, ok := again.Tile()
	assert.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Equal(t, "lake", again.MapName())
}

func TestStoreEmptyTileSurvives(t *testing.T) {
	m := openManager(t)

	s := NewStore(m)
	_, ok := s.Tile()
	assert.False(t, ok)

	s.SetTile(0)
	require.NoError(t, s.Save())

	id, ok := NewStore(m).Tile()
	assert.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestStoreNilManager(t *testing.T) {
	s := NewStore(nil)
	s.SetTile(2)
	require.NoError(t, s.Save())
	require.NoError(t, s.Load())
	assert.Equal(t, Prefs{}, s.Prefs())
}

func TestStoreCorruptData(t *testing.T) {
	m := openManager(t)
	require.NoError(t, m.SaveObjectProp(prefsObject, prefsProperty, []byte("tile: [")))

	s := NewStore(m)
	assert.Error(t, s.Load())
	assert.Equal(t, Prefs{}, s.Prefs())
}
