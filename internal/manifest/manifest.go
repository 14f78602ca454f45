// Package manifest persists review decisions (keep flag and rotation per
// image) between the scan, mark and process commands.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dsprep/internal/batch"
	"dsprep/internal/catalog"
)

const DefaultName = "review.yaml"

type Manifest struct {
	Root    string  `yaml:"root"`
	Entries []Entry `yaml:"images"`
}

type Entry struct {
	Path        string `yaml:"path"`
	Keep        bool   `yaml:"keep"`
	Rotation    int    `yaml:"rotation"`
	Kind        string `yaml:"kind,omitempty"`
	Orientation int    `yaml:"exif_orientation,omitempty"`
}

// FromCatalog starts a review with every image kept and unrotated. With
// autoRotate the rotation is seeded from the EXIF orientation.
func FromCatalog(root string, entries []catalog.Entry, autoRotate bool) *Manifest {
	m := &Manifest{Root: root, Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		entry := Entry{
			Path:        e.Path,
			Keep:        true,
			Kind:        e.Kind.String(),
			Orientation: e.Orientation,
		}
		if autoRotate {
			entry.Rotation = catalog.RotationFor(e.Orientation)
		}
		m.Entries = append(m.Entries, entry)
	}
	return m
}

func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for i := range m.Entries {
		m.Entries[i].Rotation = NormalizeRotation(m.Entries[i].Rotation)
	}
	return &m, nil
}

func (m *Manifest) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Find resolves path against stored entries: exact match first, then as an
// absolute path, then relative to Root.
func (m *Manifest) Find(path string) (*Entry, error) {
	candidates := []string{path}
	if abs, err := filepath.Abs(path); err == nil {
		candidates = append(candidates, abs)
	}
	if m.Root != "" && !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join(m.Root, path))
	}
	for _, c := range candidates {
		c = filepath.Clean(c)
		for i := range m.Entries {
			if filepath.Clean(m.Entries[i].Path) == c {
				return &m.Entries[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%s is not in the manifest", path)
}

func (m *Manifest) SetKeep(path string, keep bool) error {
	e, err := m.Find(path)
	if err != nil {
		return err
	}
	e.Keep = keep
	return nil
}

// Rotate adds delta degrees (clockwise) to the stored rotation.
func (m *Manifest) Rotate(path string, delta int) error {
	e, err := m.Find(path)
	if err != nil {
		return err
	}
	e.Rotation = NormalizeRotation(e.Rotation + delta)
	return nil
}

// Reset restores the scan defaults for path.
func (m *Manifest) Reset(path string) error {
	e, err := m.Find(path)
	if err != nil {
		return err
	}
	e.Keep = true
	e.Rotation = 0
	return nil
}

// Items converts the manifest into pipeline input, keeping manifest order.
func (m *Manifest) Items() []batch.Item {
	items := make([]batch.Item, 0, len(m.Entries))
	for _, e := range m.Entries {
		items = append(items, batch.Item{SourcePath: e.Path, Keep: e.Keep, Rotation: e.Rotation})
	}
	return items
}

// Stats returns the number of kept entries and the total.
func (m *Manifest) Stats() (kept, total int) {
	for _, e := range m.Entries {
		if e.Keep {
			kept++
		}
	}
	return kept, len(m.Entries)
}

func NormalizeRotation(r int) int {
	return ((r % 360) + 360) % 360
}
