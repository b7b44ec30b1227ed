package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := NewStateStore(dir)
	assert.Equal(t, filepath.Join(dir, StateFileName), store.Path())

	src, tgt, err := store.LoadSkillsPaths()
	require.NoError(t, err)
	assert.Empty(t, src)
	assert.Empty(t, tgt)

	require.NoError(t, store.SaveSkillsPaths("/a", "/b"))
	src, tgt, err = NewStateStore(dir).LoadSkillsPaths()
	require.NoError(t, err)
	assert.Equal(t, "/a", src)
	assert.Equal(t, "/b", tgt)
}

func TestStateStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("skills: [x"), 0o600))
	store := NewStateStore(dir)
	_, _, err := store.LoadSkillsPaths()
	assert.Error(t, err)

	require.NoError(t, store.SaveSkillsPaths("/s", "/t"))
	src, _, err := store.LoadSkillsPaths()
	require.NoError(t, err)
	assert.Equal(t, "/s", src)
}
