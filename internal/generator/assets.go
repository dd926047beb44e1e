package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// assetSummary aggregates the results of one static copy pass.
type assetSummary struct {
	Built   int
	Skipped int
}

// copyStatic mirrors the static filesystem into the output directory. When a
// manifest is supplied, unchanged files (by checksum) are skipped.
func copyStatic(ctx context.Context, staticFS fs.FS, outputDir string, manifest *buildManifest, now time.Time) (assetSummary, error) {
	var summary assetSummary
	if staticFS == nil {
		return summary, nil
	}

	err := fs.WalkDir(staticFS, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		data, err := fs.ReadFile(staticFS, p)
		if err != nil {
			return fmt.Errorf("generator: read asset %s: %w", p, err)
		}

		sum := sha256.Sum256(data)
		checksum := hex.EncodeToString(sum[:])

		if manifest != nil {
			if entry, ok := manifest.Assets[p]; ok && entry.Checksum == checksum {
				if _, statErr := os.Stat(filepath.Join(outputDir, filepath.FromSlash(p))); statErr == nil {
					summary.Skipped++
					return nil
				}
			}
		}

		target := filepath.Join(outputDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("generator: asset directory for %s: %w", p, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("generator: write asset %s: %w", p, err)
		}

		summary.Built++
		if manifest != nil {
			manifest.Assets[p] = manifestAsset{
				Source:   p,
				Output:   p,
				Checksum: checksum,
				Size:     int64(len(data)),
				CopiedAt: now,
			}
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	return summary, nil
}
