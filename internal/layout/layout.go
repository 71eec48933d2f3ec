// Package layout classifies the available width into size classes the
// overlay renderers use to pick spacing.
package layout

import (
	"fmt"
)

// SizeClass is the coarse width bucket.
type SizeClass string

const (
	SizeSmall  SizeClass = "sm"
	SizeMedium SizeClass = "md"
	SizeLarge  SizeClass = "lg"
)

// String returns the class tag.
func (c SizeClass) String() string {
	return string(c)
}

// Breakpoints are the exclusive upper bounds of the sm and md classes.
type Breakpoints struct {
	Small  int `toml:"small"`
	Medium int `toml:"medium"`
}

// PixelBreakpoints are the defaults for pixel widths.
var PixelBreakpoints = Breakpoints{Small: 640, Medium: 1024}

// ColumnBreakpoints are the defaults for terminal columns.
var ColumnBreakpoints = Breakpoints{Small: 80, Medium: 120}

// Classify returns sm below Small, md below Medium, lg otherwise.
func (b Breakpoints) Classify(width int) SizeClass {
	switch {
	case width < b.Small:
		return SizeSmall
	case width < b.Medium:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// Validate checks that the thresholds are positive and ordered.
func (b Breakpoints) Validate() error {
	if b.Small <= 0 || b.Medium <= 0 {
		return fmt.Errorf("breakpoints must be positive (small=%d, medium=%d)", b.Small, b.Medium)
	}
	if b.Small >= b.Medium {
		return fmt.Errorf("small breakpoint (%d) must be below medium (%d)", b.Small, b.Medium)
	}
	return nil
}

// Spacing is the padding a renderer applies for a size class.
type Spacing struct {
	PadX, PadY int
	Gap        int
}

// SpacingFor returns compact spacing on small widths.
func SpacingFor(c SizeClass) Spacing {
	switch c {
	case SizeSmall:
		return Spacing{PadX: 1, PadY: 0, Gap: 0}
	case SizeMedium:
		return Spacing{PadX: 2, PadY: 0, Gap: 1}
	default:
		return Spacing{PadX: 2, PadY: 1, Gap: 1}
	}
}
