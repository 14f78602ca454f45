package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsprep/internal/batch"
	"dsprep/internal/catalog"
	"dsprep/pkg/imgutil"
)

func sample(root string) *Manifest {
	return FromCatalog(root, []catalog.Entry{
		{Path: filepath.Join(root, "a.jpg"), Kind: imgutil.KindJPEG, Orientation: 6},
		{Path: filepath.Join(root, "b.png"), Kind: imgutil.KindPNG},
		{Path: filepath.Join(root, "sub", "c.png"), Kind: imgutil.KindPNG},
	}, false)
}

func TestFromCatalogDefaults(t *testing.T) {
	m := sample("/data")
	require.Len(t, m.Entries, 3)
	for _, e := range m.Entries {
		assert.True(t, e.Keep)
		assert.Equal(t, 0, e.Rotation)
	}
	assert.Equal(t, "jpeg", m.Entries[0].Kind)

	auto := FromCatalog("/data", []catalog.Entry{{Path: "/data/a.jpg", Orientation: 8}}, true)
	assert.Equal(t, 270, auto.Entries[0].Rotation)
}

func TestSaveLoadKeepsOrderAndDecisions(t *testing.T) {
	root := t.TempDir()
	m := sample(root)
	require.NoError(t, m.SetKeep("b.png", false))
	require.NoError(t, m.Rotate(filepath.Join(root, "a.jpg"), 90))

	path := filepath.Join(root, DefaultName)
	require.NoError(t, m.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Root, back.Root)
	assert.Equal(t, m.Entries, back.Entries)

	kept, total := back.Stats()
	assert.Equal(t, 2, kept)
	assert.Equal(t, 3, total)

	assert.Equal(t, []batch.Item{
		{SourcePath: filepath.Join(root, "a.jpg"), Keep: true, Rotation: 90},
		{SourcePath: filepath.Join(root, "b.png"), Keep: false},
		{SourcePath: filepath.Join(root, "sub", "c.png"), Keep: true},
	}, back.Items())
}

func TestRotateAccumulatesModulo360(t *testing.T) {
	m := sample("/data")
	require.NoError(t, m.Rotate("a.jpg", -90))
	assert.Equal(t, 270, m.Entries[0].Rotation)
	require.NoError(t, m.Rotate("a.jpg", 180))
	assert.Equal(t, 90, m.Entries[0].Rotation)
	require.NoError(t, m.Rotate("a.jpg", 270))
	assert.Equal(t, 0, m.Entries[0].Rotation)
}

func TestResetAndMissing(t *testing.T) {
	m := sample("/data")
	require.NoError(t, m.SetKeep("sub/c.png", false))
	require.NoError(t, m.Rotate("sub/c.png", 90))
	require.NoError(t, m.Reset("sub/c.png"))
	assert.True(t, m.Entries[2].Keep)
	assert.Equal(t, 0, m.Entries[2].Rotation)

	assert.Error(t, m.SetKeep("nope.png", true))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 0, NormalizeRotation(360))
	assert.Equal(t, 270, NormalizeRotation(-90))
	assert.Equal(t, 90, NormalizeRotation(450))
}
