package theme

import (
	"image/color"
)

// Theme defines the color palette for the board chrome and the built-in
// background templates.
type Theme struct {
	Name string

	// General
	Background color.RGBA // window background behind the board
	Foreground color.RGBA // chrome text

	// Toolbar & status bar
	ToolbarBackground color.RGBA
	StatusBackground  color.RGBA
	StatusText        color.RGBA

	// Tool buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonActive          color.RGBA // selected tool highlight
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Board
	Paper        color.RGBA // template paper fill
	GridInk      color.RGBA // grid, ruled and dot lines
	AccentInk    color.RGBA // axes, frames, margin rules
	CheckerLight color.RGBA // backdrop behind erased regions
	CheckerDark  color.RGBA
}

// Default returns the hardcoded light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{232, 232, 228, 255},
		Foreground:            color.RGBA{20, 20, 20, 255},
		ToolbarBackground:     color.RGBA{226, 226, 222, 255},
		StatusBackground:      color.RGBA{218, 218, 214, 255},
		StatusText:            color.RGBA{40, 40, 40, 255},
		ButtonBackground:      color.RGBA{208, 208, 204, 255},
		ButtonBackgroundHover: color.RGBA{190, 190, 186, 255},
		ButtonBackgroundPress: color.RGBA{160, 160, 158, 255},
		ButtonActive:          color.RGBA{170, 190, 230, 255},
		ButtonText:            color.RGBA{10, 10, 10, 255},
		ButtonBorder:          color.RGBA{90, 90, 90, 255},
		Paper:                 color.RGBA{252, 250, 244, 255},
		GridInk:               color.RGBA{168, 196, 220, 255},
		AccentInk:             color.RGBA{70, 90, 160, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
