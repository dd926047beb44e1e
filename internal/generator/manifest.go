package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	manifestFileName    = ".inkpress-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs.
type buildManifest struct {
	Version     int                      `json:"version"`
	GeneratedAt time.Time                `json:"generated_at"`
	Documents   map[string]manifestEntry `json:"documents"`
	Assets      map[string]manifestAsset `json:"assets"`
}

type manifestEntry struct {
	Path       string    `json:"path"`
	Route      string    `json:"route"`
	Output     string    `json:"output"`
	Checksum   string    `json:"checksum"`
	RenderedAt time.Time `json:"rendered_at"`
}

type manifestAsset struct {
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	CopiedAt time.Time `json:"copied_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:   manifestFileVersion,
		Documents: map[string]manifestEntry{},
		Assets:    map[string]manifestAsset{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Documents == nil {
		manifest.Documents = map[string]manifestEntry{}
	}
	if manifest.Assets == nil {
		manifest.Assets = map[string]manifestAsset{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

// loadManifest reads the manifest from the output directory. Missing or
// unreadable manifests degrade to a fresh one so a build never blocks on
// manifest state.
func loadManifest(outputDir string) *buildManifest {
	data, err := os.ReadFile(filepath.Join(outputDir, manifestFileName))
	if err != nil {
		return newBuildManifest()
	}
	manifest, err := parseManifest(data)
	if err != nil {
		return newBuildManifest()
	}
	return manifest
}

func persistManifest(outputDir string, manifest *buildManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("generator: encode manifest: %w", err)
	}
	target := filepath.Join(outputDir, manifestFileName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("generator: write manifest: %w", err)
	}
	return nil
}
