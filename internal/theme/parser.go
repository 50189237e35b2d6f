package theme

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"image/color"
	"io"
	"strings"
)

// Parse reads a palette definition, one "Key: #RRGGBB" or "Key: #RRGGBBAA"
// line per color. Keys missing from the file keep their Default values, and
// unknown keys are skipped so older builds can read newer theme files.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	entries := t.palette()
	fields := make(map[string]*color.RGBA, len(entries))
	for _, e := range entries {
		fields[e.key] = e.ptr
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := splitEntry(scanner.Text())
		if !ok {
			continue
		}
		if key == "Name" {
			t.Name = value
			continue
		}
		dst, known := fields[key]
		if !known {
			continue
		}
		col, err := parseColor(value)
		if err != nil {
			return nil, fmt.Errorf("theme key %s: %w", key, err)
		}
		*dst = col
	}
	return t, scanner.Err()
}

// Format renders the palette in the file format Parse reads, Name first.
func (t *Theme) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", t.Name)
	for _, e := range t.palette() {
		fmt.Fprintf(&sb, "%s: %s\n", e.key, formatColor(*e.ptr))
	}
	return sb.String()
}

// splitEntry reduces a raw line to a trimmed key-value pair. Blank lines,
// comments ("#" or "//") and lines without a colon report ok false.
func splitEntry(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return "", "", false
	}
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

type paletteEntry struct {
	key string
	ptr *color.RGBA
}

// palette lists the file keys and the fields they fill in, in the order
// Format writes them. Renaming a Theme field without updating this table is
// a compile error, not a silent skip.
func (t *Theme) palette() []paletteEntry {
	return []paletteEntry{
		{"Background", &t.Background},
		{"Foreground", &t.Foreground},
		{"ToolbarBackground", &t.ToolbarBackground},
		{"StatusBackground", &t.StatusBackground},
		{"StatusText", &t.StatusText},
		{"ButtonBackground", &t.ButtonBackground},
		{"ButtonBackgroundHover", &t.ButtonBackgroundHover},
		{"ButtonBackgroundPress", &t.ButtonBackgroundPress},
		{"ButtonActive", &t.ButtonActive},
		{"ButtonText", &t.ButtonText},
		{"ButtonBorder", &t.ButtonBorder},
		{"Paper", &t.Paper},
		{"GridInk", &t.GridInk},
		{"AccentInk", &t.AccentInk},
		{"CheckerLight", &t.CheckerLight},
		{"CheckerDark", &t.CheckerDark},
	}
}

func parseColor(s string) (color.RGBA, error) {
	digits, found := strings.CutPrefix(s, "#")
	if !found {
		return color.RGBA{}, fmt.Errorf("color %q must start with #", s)
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	switch len(raw) {
	case 3:
		return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}, nil
	case 4:
		return color.RGBA{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}, nil
	}
	return color.RGBA{}, fmt.Errorf("color %q must have 6 or 8 hex digits", s)
}

// formatColor renders c the way parseColor reads it, dropping the alpha
// digits when the color is opaque.
func formatColor(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
