package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/example/inkboard/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Export bool
}

// Config holds the application configuration. Zero values mean "use the
// built-in default" so an absent file changes nothing.
type Config struct {
	Theme    string
	SaveDir  string
	Template string
	Tool     string
	Color    string // named or #RRGGBB, resolved at the CLI boundary
	Width    int
	FontSize float64
	ZoomMin  float64
	ZoomMax  float64
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// Unset fields are omitted so the output round-trips through Parse without
// pinning defaults.
func (c *Config) String() string {
	var sb strings.Builder
	field := func(key, value string, set bool) {
		if set {
			fmt.Fprintf(&sb, "%s = %s\n", key, value)
		}
	}
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

	field("theme", c.Theme, c.Theme != "")
	field("save_dir", c.SaveDir, c.SaveDir != "")
	field("template", c.Template, c.Template != "")
	field("tool", c.Tool, c.Tool != "")
	field("color", c.Color, c.Color != "")
	field("width", strconv.Itoa(c.Width), c.Width != 0)
	field("font_size", ftoa(c.FontSize), c.FontSize != 0)
	field("zoom_min", ftoa(c.ZoomMin), c.ZoomMin != 0)
	field("zoom_max", ftoa(c.ZoomMax), c.ZoomMax != 0)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "[notify]\nsave = %v\ncopy = %v\nexport = %v\n\n",
		c.Notify.Save, c.Notify.Copy, c.Notify.Export)

	for _, name := range slices.Sorted(maps.Keys(c.Themes)) {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].Format())
		sb.WriteString("\n")
	}

	return sb.String()
}
