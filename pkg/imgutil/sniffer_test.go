package imgutil

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pad(b []byte) []byte {
	out := make([]byte, headerLen)
	copy(out, b)
	return out
}

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", pad([]byte{0xff, 0xd8, 0xff, 0xe0}), KindJPEG},
		{"png", pad(pngSig), KindPNG},
		{"tiff le", pad(tiffSigLE), KindTIFF},
		{"tiff be", pad(tiffSigBE), KindTIFF},
		{"gif", pad(gif89Sig), KindGIF},
		{"bmp", pad([]byte("BM\x36\x00")), KindBMP},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBP"), KindWebP},
		{"riff but not webp", []byte("RIFF\x24\x00\x00\x00WAVE"), KindUnknown},
		{"text", []byte("hello, world"), KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := DetectHeader([]byte{0xff})
	assert.Error(t, err)
}

func TestSniffFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))

	path := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	kind, err := SniffFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindPNG, kind)
	assert.Equal(t, "png", kind.String())
	assert.False(t, kind.HasExif())
}

func TestIsSupportedExt(t *testing.T) {
	assert.True(t, IsSupportedExt("a/B.JPG"))
	assert.True(t, IsSupportedExt("c.webp"))
	assert.True(t, IsSupportedExt("d.tif"))
	assert.False(t, IsSupportedExt("e.gif"))
	assert.False(t, IsSupportedExt("notes.txt"))
}
