package astrocapture

import (
	"image"
	"time"
)

// Format selects the on-disk result of a capture. Its value doubles as
// the output file extension.
type Format string

const (
	FormatImage Format = "jpg"
	FormatVideo Format = "mp4"
)

// Device describes one camera to capture from. Instances come from the
// config loader already validated: Name and URL are non-empty,
// Directory contains only safe filename characters, and Format is one
// of the supported values. The capture engine treats a Device as
// immutable input.
type Device struct {
	Name      string
	URL       string
	Directory string
	Filename  string
	Format    Format
	Duration  time.Duration

	// Crop, when set, restricts snapshots to the given region.
	Crop *image.Rectangle
}
