package persistence

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type worldChunk struct {
	Version uint64 `json:"version"`
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zip")

	world := worldChunk{Version: 42}
	err := Save(path, 7, "2026-01-01T00:00:00Z", []Chunk{
		{Name: "world", Save: func() any { return world }},
	})
	require.NoError(t, err)

	var loaded worldChunk
	manifest, err := Load(path, []Chunk{
		{Name: "world", Load: func(data []byte) error { return json.Unmarshal(data, &loaded) }},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), manifest.Tick)
	assert.Equal(t, worldChunk{Version: 42}, loaded)
}

func TestLoadSkipsChunksWithoutLoadFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zip")
	err := Save(path, 1, "2026-01-01T00:00:00Z", []Chunk{
		{Name: "world", Save: func() any { return worldChunk{Version: 1} }},
	})
	require.NoError(t, err)

	_, err = Load(path, []Chunk{{Name: "world"}})
	assert.NoError(t, err)
}

func TestLoadMissingChunkInArchiveIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zip")
	err := Save(path, 1, "2026-01-01T00:00:00Z", nil)
	require.NoError(t, err)

	called := false
	_, err = Load(path, []Chunk{
		{Name: "world", Load: func(data []byte) error { called = true; return nil }},
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestLoadAcceptsCurrentManifestVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.zip")
	require.NoError(t, Save(path, 1, "2026-01-01T00:00:00Z", nil))

	// Save always writes CurrentVersion, so this test covers only the
	// matching-version path; it does not exercise the mismatch error.
	manifest, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, manifest.Version)
}
