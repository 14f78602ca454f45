package transform

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x40, A: 0xff})
		}
	}
	return img
}

func TestRotateZeroIsIdentity(t *testing.T) {
	img := gradient(8, 4)
	out := Rotate(img, 0)
	assert.Same(t, img, out)

	out = Rotate(img, 360)
	assert.Same(t, img, out)
}

func TestRotateIsClockwise(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	red := color.NRGBA{R: 0xff, A: 0xff}
	img.SetNRGBA(0, 0, red)

	out := Rotate(img, 90)
	require.Equal(t, image.Rect(0, 0, 2, 4), out.Bounds())
	// Clockwise turn moves the top-left pixel to the top-right corner.
	assert.Equal(t, red, color.NRGBAModel.Convert(out.At(1, 0)))
}

func TestRotateNegativeMatches270(t *testing.T) {
	img := gradient(6, 3)
	a := Rotate(img, -90)
	b := Rotate(img, 270)
	assert.Equal(t, a.(*image.NRGBA).Pix, b.(*image.NRGBA).Pix)
}

func TestRotateArbitraryExpandsCanvas(t *testing.T) {
	img := gradient(100, 100)
	out := Rotate(img, 45)
	b := out.Bounds()
	assert.Greater(t, b.Dx(), 100)
	assert.Greater(t, b.Dy(), 100)
}

func TestScaleIdentity(t *testing.T) {
	img := gradient(17, 9)
	out := Scale(img, 100)
	assert.Same(t, img, out)
}

func TestScaleFloorsDimensions(t *testing.T) {
	out := Scale(gradient(201, 101), 50)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	out = Scale(gradient(3, 3), 10)
	assert.Equal(t, image.Rect(0, 0, 1, 1), out.Bounds())
}

func TestRotateThenScaleOrder(t *testing.T) {
	img := gradient(200, 100)
	out := Scale(Rotate(img, 90), 50)
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
}

func TestNormalizeDropsAlphaAndPalette(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff},
		color.RGBA{R: 0xff, A: 0xff},
	})
	pal.SetColorIndex(1, 0, 1)

	out := Normalize(pal)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, out.NRGBAAt(1, 0))

	translucent := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	translucent.SetNRGBA(0, 0, color.NRGBA{R: 0x80, G: 0x40, B: 0x20, A: 0x10})
	out = Normalize(translucent)
	assert.Equal(t, color.NRGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff}, out.NRGBAAt(0, 0))
	assert.True(t, out.Opaque())
}

func TestEncodeAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := gradient(20, 10)

	for _, f := range []Format{FormatPNG, FormatJPG, FormatJPEG} {
		path := filepath.Join(dir, "out."+f.String())
		require.NoError(t, Encode(img, path, f, 90))

		back, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 20, 10), back.Bounds())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temp files must not linger")
}

func TestEncodePNGIsLossless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	img := gradient(5, 5)
	require.NoError(t, Encode(img, path, FormatPNG, 1))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, Normalize(back).Pix)
}

func TestEncodeFailsIntoMissingFolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "a.png")
	err := Encode(gradient(2, 2), path, FormatPNG, 95)
	require.Error(t, err)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "encode", terr.Op)
	assert.NoFileExists(t, path)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "nope.png"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = Load(bad)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "decode", terr.Op)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPG, f)
	assert.Equal(t, "jpg", f.String())
	assert.True(t, f.Lossy())

	f, err = ParseFormat(" png ")
	require.NoError(t, err)
	assert.False(t, f.Lossy())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
