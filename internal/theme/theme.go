package theme

import (
	"image/color"
)

// Theme defines the colors used by the selection overlay.
type Theme struct {
	Name string

	// Mask covers the parts of the screen outside the selection. The alpha
	// channel controls how strongly the desktop is dimmed.
	Mask color.RGBA

	// Selection chrome
	Outline       color.RGBA
	HandleFill    color.RGBA
	HandleOutline color.RGBA

	// Dimension label
	LabelText       color.RGBA
	LabelBackground color.RGBA
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:            "Default",
		Mask:            color.RGBA{0, 0, 0, 115},
		Outline:         color.RGBA{58, 134, 255, 255},
		HandleFill:      color.RGBA{255, 255, 255, 255},
		HandleOutline:   color.RGBA{58, 134, 255, 255},
		LabelText:       color.RGBA{255, 255, 255, 255},
		LabelBackground: color.RGBA{0, 0, 0, 190},
	}
}
