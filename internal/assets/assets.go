// Package assets models source asset files and the staleness decision that
// gates preview regeneration.
package assets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/meshfolio/meshfolio/internal/errors"
)

// Asset is a source model file discovered in the gallery directory. It is
// immutable for the duration of a pipeline run.
type Asset struct {
	// Path is the asset's location and identity within its directory.
	Path string
	// Name is the logical name: the file name without extension.
	Name string
	// ModTime is the source modification timestamp at enumeration time.
	ModTime time.Time
}

// Base returns the asset's file name including extension.
func (a Asset) Base() string {
	return filepath.Base(a.Path)
}

// PreviewPath derives the preview artifact path: logical name plus the
// preview extension, in the same directory as the asset.
func (a Asset) PreviewPath(previewExt string) string {
	return filepath.Join(filepath.Dir(a.Path), a.Name+previewExt)
}

// Scan enumerates asset files with the given extension directly in dir
// (non-recursive), sorted by name for deterministic run ordering. Extension
// matching is case-insensitive. Zero matches is a valid, empty result.
func Scan(dir, ext string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "scan_failed", "failed to read gallery directory")
	}

	var found []Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Raced with a delete between ReadDir and Info.
			continue
		}
		found = append(found, Asset{
			Path:    filepath.Join(dir, name),
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})

	return found, nil
}

// IsStale reports whether the asset's preview must be regenerated. A missing
// preview is stale. Otherwise the asset must be strictly newer than the
// preview: equal timestamps favor the skip. Filesystem timestamp resolution
// coarser than the render cadence can therefore cause a false "up to date";
// that is an accepted limitation.
func IsStale(asset Asset, previewPath string) bool {
	info, err := os.Stat(previewPath)
	if err != nil {
		return true
	}

	return asset.ModTime.After(info.ModTime())
}
