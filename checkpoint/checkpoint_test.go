package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	require.NoError(t, m.Save(123, 456))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, Record{LSN: 123, Timestamp: 456}, loaded)
}

func TestLoadMissingFileReturnsZeroRecord(t *testing.T) {
	m := NewManager(t.TempDir())

	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, Record{}, loaded)
}

func TestLoadCorruptFileReturnsZeroRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkpoint.json"), []byte("not json"), 0644))

	m := NewManager(dir)
	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, Record{}, loaded)
}

func TestSaveOverwritesPreviousRecord(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	require.NoError(t, m.Save(1, 1))
	require.NoError(t, m.Save(2, 2))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, Record{LSN: 2, Timestamp: 2}, loaded)
}
