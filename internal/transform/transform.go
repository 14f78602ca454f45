// Package transform holds the stateless image operations applied by the
// batch pipeline: load, colour normalisation, rotation, scaling and encoding.
package transform

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Error records which stage failed for which file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &Error{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}

// Normalize returns an opaque 3-channel copy of img. Alpha is discarded
// rather than composited and palettes are expanded.
func Normalize(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// Rotate turns img clockwise by degrees. Zero returns img itself. The
// canvas grows to fit the rotated content and uncovered areas are black.
func Rotate(img image.Image, degrees int) image.Image {
	d := ((degrees % 360) + 360) % 360
	if d == 0 {
		return img
	}
	// imaging rotates counter-clockwise.
	return imaging.Rotate(img, float64(-d), color.Black)
}

// Scale resizes both axes to floor(dim*percent/100) with Lanczos
// resampling. 100 returns img itself. Results never drop below 1px.
func Scale(img image.Image, percent int) image.Image {
	if percent == 100 {
		return img
	}
	b := img.Bounds()
	w := scaledDim(b.Dx(), percent)
	h := scaledDim(b.Dy(), percent)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func scaledDim(dim, percent int) int {
	n := int(math.Floor(float64(dim) * float64(percent) / 100))
	if n < 1 {
		n = 1
	}
	return n
}

// Encode writes img to path in the given format. Quality is clamped to
// [1,100] and only used for JPEG. The file appears atomically: nothing is
// left at path when encoding fails.
func Encode(img image.Image, path string, format Format, quality int) error {
	imgFmt, err := format.imagingFormat()
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dsprep-*.tmp")
	if err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	var opts []imaging.EncodeOption
	if format.Lossy() {
		opts = append(opts, imaging.JPEGQuality(clampQuality(quality)))
	}
	if err := imaging.Encode(tmp, img, imgFmt, opts...); err != nil {
		_ = tmp.Close()
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := replaceFile(tmp.Name(), path); err != nil {
		return &Error{Op: "encode", Path: path, Err: err}
	}
	return nil
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
