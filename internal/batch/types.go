package batch

import (
	"fmt"
	"strconv"

	"dsprep/internal/transform"
)

// Item is one reviewed image. Rotation is in clockwise degrees.
type Item struct {
	SourcePath string
	Keep       bool
	Rotation   int
}

// Config holds the settings shared by every image of one run.
type Config struct {
	OutputFolder string
	Prefix       string
	StartNumber  int
	Padding      int
	ScalePercent int
	Format       transform.Format
	Quality      int
}

// OutputName returns prefix + zero-padded seq + "." + extension.
func (c Config) OutputName(seq int) string {
	return fmt.Sprintf("%s%0*d.%s", c.Prefix, c.Padding, seq, c.Format)
}

// Fits reports whether Padding is wide enough to number count images
// without two names sharing a width-truncated form.
func (c Config) Fits(count int) bool {
	if count <= 0 {
		return true
	}
	last := c.StartNumber + count - 1
	return len(strconv.Itoa(last)) <= c.Padding
}

// Validate checks field ranges. It does not look at the output folder.
func (c Config) Validate() error {
	if c.OutputFolder == "" {
		return fmt.Errorf("output folder is required")
	}
	if c.StartNumber < 0 {
		return fmt.Errorf("start number must be >= 0, got %d", c.StartNumber)
	}
	if c.Padding < 1 {
		return fmt.Errorf("padding must be >= 1, got %d", c.Padding)
	}
	if c.ScalePercent <= 0 || c.ScalePercent > 100 {
		return fmt.Errorf("scale percent must be in (0,100], got %d", c.ScalePercent)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be in [1,100], got %d", c.Quality)
	}
	switch c.Format {
	case transform.FormatPNG, transform.FormatJPG, transform.FormatJPEG:
	default:
		return fmt.Errorf("unsupported output format %d", int(c.Format))
	}
	return nil
}

// Kept returns the items marked Keep, in their original order.
func Kept(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Keep {
			out = append(out, it)
		}
	}
	return out
}

type Summary struct {
	Total     int
	Attempted int
	Succeeded int
	Skipped   int
	Canceled  bool
}

type ProgressUpdate struct {
	TotalDelta     int
	SucceededDelta int
	SkippedDelta   int
	Current        string
}
