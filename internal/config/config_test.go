package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = sepia
save_dir = /tmp/boards
template = grid
tool = rect
color = #3050A0
width = 4
font_size = 20
zoom_min = 0.5
zoom_max = 8

[notify]
save = true
copy = false
export = true

[theme.chalk]
Paper = #202428
GridInk = #3A4048
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "sepia" {
		t.Errorf("Theme = %q, want sepia", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/boards" {
		t.Errorf("SaveDir = %q, want /tmp/boards", cfg.SaveDir)
	}
	if cfg.Template != "grid" {
		t.Errorf("Template = %q, want grid", cfg.Template)
	}
	if cfg.Tool != "rect" {
		t.Errorf("Tool = %q, want rect", cfg.Tool)
	}
	if cfg.Color != "#3050A0" {
		t.Errorf("Color = %q", cfg.Color)
	}
	if cfg.Width != 4 {
		t.Errorf("Width = %d, want 4", cfg.Width)
	}
	if cfg.FontSize != 20 {
		t.Errorf("FontSize = %g, want 20", cfg.FontSize)
	}
	if cfg.ZoomMin != 0.5 || cfg.ZoomMax != 8 {
		t.Errorf("zoom range = %g..%g, want 0.5..8", cfg.ZoomMin, cfg.ZoomMax)
	}

	if !cfg.Notify.Save || cfg.Notify.Copy || !cfg.Notify.Export {
		t.Errorf("Notify = %+v", cfg.Notify)
	}

	chalk, ok := cfg.Themes["chalk"]
	if !ok {
		t.Fatal("theme section [theme.chalk] not loaded")
	}
	if chalk.Name != "chalk" {
		t.Errorf("theme Name = %q, want section name", chalk.Name)
	}
	if chalk.Paper.R != 0x20 || chalk.Paper.G != 0x24 || chalk.Paper.B != 0x28 {
		t.Errorf("Paper = %+v", chalk.Paper)
	}
	// Keys the section leaves unset keep their defaults.
	if chalk.AccentInk.A != 255 {
		t.Errorf("AccentInk lost its default: %+v", chalk.AccentInk)
	}
}

func TestParseRejectsBadNumbers(t *testing.T) {
	cases := []string{
		"width = wide",
		"font_size = big",
		"zoom_min = tiny",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse(%q) accepted a bad number", input)
		}
	}
}

func TestParseUnknownKeysIgnored(t *testing.T) {
	cfg, err := Parse(strings.NewReader("future_knob = 7\ntheme = dark\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
}

func TestCutAssign(t *testing.T) {
	cases := []struct {
		line       string
		key, value string
		ok         bool
	}{
		{"theme = dark", "theme", "dark", true},
		{"theme: dark", "theme", "dark", true},
		{`save_dir = "/tmp/my boards"`, "save_dir", "/tmp/my boards", true},
		{"save_dir = /tmp/a=b", "save_dir", "/tmp/a=b", true},
		{"just words", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := cutAssign(tc.line)
		if key != tc.key || value != tc.value || ok != tc.ok {
			t.Errorf("cutAssign(%q) = %q, %q, %v; want %q, %q, %v",
				tc.line, key, value, ok, tc.key, tc.value, tc.ok)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/boards
template = ruled
tool = freehand
color = crimson
width = 2
font_size = 16
zoom_min = 0.25
zoom_max = 4

[notify]
save = true
copy = true
export = false

[theme.custom]
Name = custom
Paper = #000000
GridInk = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Template != cfg2.Template || cfg.Tool != cfg2.Tool || cfg.Color != cfg2.Color {
		t.Errorf("board defaults mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Width != cfg2.Width || cfg.FontSize != cfg2.FontSize {
		t.Errorf("stroke defaults mismatch")
	}
	if cfg.ZoomMin != cfg2.ZoomMin || cfg.ZoomMax != cfg2.ZoomMax {
		t.Errorf("zoom range mismatch")
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("custom theme missing in one config")
	}
	if t1.Paper != t2.Paper || t1.GridInk != t2.GridInk {
		t.Errorf("theme colors did not round-trip: %+v vs %+v", t1, t2)
	}
}
