package persistence

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// CurrentVersion is the manifest format version this package writes.
// Loading a manifest with a different version is a fatal load-time error.
const CurrentVersion = 1

// Manifest is the archive's top-level index: which chunk name holds which
// subsystem's JSON, written alongside the save metadata.
type Manifest struct {
	Version    int               `json:"version"`
	SavedAtUtc string            `json:"savedAtUtc"`
	Tick       uint64            `json:"tick"`
	Chunks     map[string]string `json:"chunks"`
}

// Chunk is one named subsystem payload to save, or a destination to load
// into. name becomes both the manifest key and the zip entry file name
// (name + ".json").
type Chunk struct {
	Name string
	// Save is called to obtain the value to marshal when saving. Nil
	// chunks are skipped on save.
	Save func() any
	// Load is called with the chunk's decoded bytes when loading. Nil
	// chunks are skipped on load (the chunk in the archive, if present,
	// is ignored).
	Load func(data []byte) error
}

// Save writes a ZIP archive to path containing manifest.json and one
// chunk.json per Chunk with a non-nil Save func.
func Save(path string, tick uint64, savedAtUtc string, chunks []Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	manifest := Manifest{Version: CurrentVersion, SavedAtUtc: savedAtUtc, Tick: tick, Chunks: make(map[string]string)}
	for _, c := range chunks {
		if c.Save == nil {
			continue
		}
		entryName := c.Name + ".json"
		manifest.Chunks[c.Name] = entryName

		w, err := zw.Create(entryName)
		if err != nil {
			return fmt.Errorf("create chunk %q: %w", c.Name, err)
		}
		if err := json.NewEncoder(w).Encode(c.Save()); err != nil {
			return fmt.Errorf("encode chunk %q: %w", c.Name, err)
		}
	}

	mw, err := zw.Create("manifest.json")
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := json.NewEncoder(mw).Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	return zw.Close()
}

// Load reads a ZIP archive from path, validates its manifest version, and
// invokes each chunk's Load func with the matching entry's bytes. Chunks
// absent from the archive are silently skipped; chunks in the archive with
// no matching Load func are ignored.
func Load(path string, chunks []Chunk) (Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	manifestFile, ok := files["manifest.json"]
	if !ok {
		return Manifest{}, fmt.Errorf("archive missing manifest.json")
	}
	var manifest Manifest
	if err := decodeZipEntry(manifestFile, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Version != CurrentVersion {
		return Manifest{}, fmt.Errorf("unsupported manifest version %d (want %d)", manifest.Version, CurrentVersion)
	}

	for _, c := range chunks {
		if c.Load == nil {
			continue
		}
		entryName, ok := manifest.Chunks[c.Name]
		if !ok {
			continue
		}
		zf, ok := files[entryName]
		if !ok {
			return manifest, fmt.Errorf("manifest references missing entry %q", entryName)
		}
		data, err := readZipEntry(zf)
		if err != nil {
			return manifest, fmt.Errorf("read chunk %q: %w", c.Name, err)
		}
		if err := c.Load(data); err != nil {
			return manifest, fmt.Errorf("load chunk %q: %w", c.Name, err)
		}
	}

	return manifest, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func decodeZipEntry(f *zip.File, v any) error {
	data, err := readZipEntry(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
