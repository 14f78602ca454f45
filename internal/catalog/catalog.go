// Package catalog finds candidate images under a folder.
package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dsprep/pkg/imgutil"
)

type Entry struct {
	Path        string
	Kind        imgutil.Kind
	Orientation int
}

type Options struct {
	// Exclude is skipped when it lies inside the scanned root, so a
	// previous run's output is never picked up as input.
	Exclude string
	// ReadExif loads the EXIF orientation of JPEG and TIFF files.
	ReadExif bool
}

// Scan walks root and returns every file with a supported extension,
// sorted by path. Files whose header cannot be sniffed are still listed
// with KindUnknown; the pipeline decides whether they decode.
func Scan(root string, opts Options) ([]Entry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}

	var exclude string
	if opts.Exclude != "" {
		if abs, absErr := filepath.Abs(opts.Exclude); absErr == nil && filepath.Clean(abs) != filepath.Clean(absRoot) {
			exclude = abs
		}
	}

	var paths []string
	if !info.IsDir() {
		if imgutil.IsSupportedExt(absRoot) {
			paths = append(paths, absRoot)
		}
	} else {
		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if exclude != "" && isWithin(path, exclude) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !imgutil.IsSupportedExt(path) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entry := Entry{Path: p}
		if kind, sniffErr := imgutil.SniffFile(p); sniffErr == nil {
			entry.Kind = kind
		}
		if opts.ReadExif && entry.Kind.HasExif() {
			if o, exifErr := readOrientation(p); exifErr == nil {
				entry.Orientation = o
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func isWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
