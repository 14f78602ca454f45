package transform

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output container format.
type Format int

const (
	FormatPNG Format = iota
	FormatJPG
	FormatJPEG
)

// String returns the lowercase name, which doubles as the file extension.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPG:
		return "jpg"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// Lossy reports whether the quality setting applies to the format.
func (f Format) Lossy() bool {
	return f == FormatJPG || f == FormatJPEG
}

func (f Format) imagingFormat() (imaging.Format, error) {
	switch f {
	case FormatPNG:
		return imaging.PNG, nil
	case FormatJPG, FormatJPEG:
		return imaging.JPEG, nil
	default:
		return 0, fmt.Errorf("unsupported output format %d", int(f))
	}
}

// ParseFormat accepts png, jpg or jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg":
		return FormatJPG, nil
	case "jpeg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q (want png, jpg or jpeg)", s)
	}
}
