package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetPathNamespacesByLocationAndPrefix(t *testing.T) {
	s := New("/data", "12", "AB")
	got := s.TargetPath("/DOC/0/00/00/00000001.BIN")
	want := filepath.Join("/data", "12", "AB", "DOC", "0", "00", "00", "00000001.BIN")
	assert.Equal(t, want, got)
}

func TestSaveWritesFileAndSidecar(t *testing.T) {
	root := t.TempDir()
	s := New(root, "12", "AB")
	data := []byte("fiscal document bytes")

	meta, err := s.Save("/DOC/0/00/00/00000001.BIN", data)
	require.NoError(t, err)

	got, err := os.ReadFile(meta.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	assert.Equal(t, "/DOC/0/00/00/00000001.BIN", meta.OriginalPath)
	assert.Equal(t, len(data), meta.Size)
	assert.NotEmpty(t, meta.SHA256)
	assert.NotEmpty(t, meta.SavedAt)

	sidecar, err := os.ReadFile(meta.SavedPath + ".meta.json")
	require.NoError(t, err)
	var decoded Meta
	require.NoError(t, json.Unmarshal(sidecar, &decoded))
	assert.Equal(t, meta, decoded)

	assert.True(t, s.Exists("/DOC/0/00/00/00000001.BIN"))
	assert.False(t, s.Exists("/DOC/0/00/00/00000002.BIN"))
}

func TestSaveSidecarRecordsAbsolutePath(t *testing.T) {
	root := t.TempDir()
	rel, err := filepath.Rel(".", root)
	require.NoError(t, err)

	s := New(rel, "12", "AB")
	meta, err := s.Save("/DOC/0/00/00/00000001.BIN", []byte("data"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(meta.SavedPath), "SavedPath must be absolute, got %q", meta.SavedPath)

	sidecar, err := os.ReadFile(meta.SavedPath + ".meta.json")
	require.NoError(t, err)
	var decoded Meta
	require.NoError(t, json.Unmarshal(sidecar, &decoded))
	assert.True(t, filepath.IsAbs(decoded.SavedPath))
}

func TestSaveLeavesNoTmpFileBehind(t *testing.T) {
	root := t.TempDir()
	s := New(root, "1", "X")
	meta, err := s.Save("a.bin", []byte("data"))
	require.NoError(t, err)
	_, statErr := os.Stat(meta.SavedPath + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
