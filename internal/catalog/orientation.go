package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

const orientationTag = "Orientation"

// readOrientation returns the EXIF orientation (1-8) of the file, or 0
// when there is none.
func readOrientation(path string) (orientation int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			orientation, err = 0, fmt.Errorf("exif: %v", r)
		}
	}()

	return orientationFrom(f)
}

func orientationFrom(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return 0, nil
		}
		return 0, err
	}

	found := 0
	for _, tag := range tags {
		if tag.TagName != orientationTag {
			continue
		}
		v := firstShort(tag.Value)
		if v == 0 {
			continue
		}
		// IFD0 describes the main image; IFD1 only the embedded thumbnail.
		if tag.IfdPath == "IFD" {
			return v, nil
		}
		if found == 0 {
			found = v
		}
	}
	return found, nil
}

func firstShort(value interface{}) int {
	switch v := value.(type) {
	case []uint16:
		if len(v) > 0 {
			return int(v[0])
		}
	case []uint32:
		if len(v) > 0 {
			return int(v[0])
		}
	case uint16:
		return int(v)
	}
	return 0
}

// RotationFor maps an EXIF orientation to the clockwise rotation that
// makes the image upright. Mirrored orientations are not corrected.
func RotationFor(orientation int) int {
	switch orientation {
	case 3:
		return 180
	case 6:
		return 90
	case 8:
		return 270
	default:
		return 0
	}
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
