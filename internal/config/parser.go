package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/inkboard/internal/theme"
)

// Parse reads configuration from an io.Reader. The format is flat
// key = value lines with optional [notify] and [theme.NAME] sections;
// theme sections use the same keys as standalone .theme files.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var themeBody *strings.Builder

	flushTheme := func() error {
		if themeBody == nil {
			return nil
		}
		name := strings.TrimPrefix(currentSection, "theme.")
		t, err := theme.Parse(strings.NewReader(themeBody.String()))
		if err != nil {
			return fmt.Errorf("section [%s]: %w", currentSection, err)
		}
		if t.Name == theme.Default().Name {
			t.Name = name
		}
		cfg.Themes[name] = t
		themeBody = nil
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if section, isHeader := sectionName(line); isHeader {
			if err := flushTheme(); err != nil {
				return nil, err
			}
			currentSection = section
			if strings.HasPrefix(currentSection, "theme.") {
				themeBody = &strings.Builder{}
			}
			continue
		}

		// Inside a theme section the line format is the theme file format;
		// collect it verbatim and let the theme parser handle it.
		if themeBody != nil {
			themeBody.WriteString(strings.ReplaceAll(line, "=", ":"))
			themeBody.WriteString("\n")
			continue
		}

		key, value, ok := cutAssign(line)
		if !ok {
			continue
		}

		switch currentSection {
		case "":
			if err := setRootField(cfg, key, value); err != nil {
				return nil, fmt.Errorf("root section: %w", err)
			}
		case "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("section [notify]: %w", err)
			}
		}
	}
	if err := flushTheme(); err != nil {
		return nil, err
	}

	return cfg, scanner.Err()
}

// sectionName unwraps a "[name]" header line.
func sectionName(line string) (string, bool) {
	inner, ok := strings.CutPrefix(line, "[")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(inner, "]")
}

// cutAssign splits a "key = value" or "key: value" line and strips one pair
// of surrounding quotes from the value.
func cutAssign(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		key, value, ok = strings.Cut(line, ":")
	}
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "template":
		cfg.Template = value
	case "tool":
		cfg.Tool = value
	case "color":
		cfg.Color = value
	case "width":
		return intField(&cfg.Width, key, value)
	case "font_size":
		return floatField(&cfg.FontSize, key, value)
	case "zoom_min":
		return floatField(&cfg.ZoomMin, key, value)
	case "zoom_max":
		return floatField(&cfg.ZoomMax, key, value)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "export":
		n.Export = b
	}
	return nil
}

func intField(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func floatField(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}
