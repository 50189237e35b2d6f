package theme

import "embed"

// EmbeddedThemes ships the stock palettes so a fresh install renders the
// same everywhere without a themes directory.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
