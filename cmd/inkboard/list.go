package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/inkboard/internal/board"
	"github.com/example/inkboard/internal/template"
)

// listCmd prints one of the fixed option tables: templates, colors, or
// widths. The topic doubles as the subcommand name and help template.
type listCmd struct {
	topic string
	*root
	fs *flag.FlagSet
}

func parseListCmd(topic string, args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet(topic, flag.ExitOnError)
	cmd := &listCmd{topic: topic, root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Template() string {
	return c.topic + ".txt"
}

func (c *listCmd) Run() error {
	switch c.topic {
	case "templates":
		return c.runTemplates()
	case "colors":
		return c.runColors()
	case "widths":
		return c.runWidths()
	}
	return fmt.Errorf("unknown listing %q", c.topic)
}

func (c *listCmd) runTemplates() error {
	reg := template.NewRegistry(c.theme())
	all := reg.All()
	if len(all) == 0 {
		fmt.Fprintln(os.Stdout, "no templates available")
		return nil
	}
	startup := "blank"
	if c.root != nil && c.root.config != nil && c.root.config.Template != "" {
		startup = c.root.config.Template
	}
	fmt.Fprintln(os.Stdout, "available board templates (* marks the startup template):")
	for _, t := range all {
		fmt.Fprintf(os.Stdout, "%s %-12s %s\n", mark(t.ID == startup), t.ID, t.Description)
	}
	return nil
}

func (c *listCmd) runColors() error {
	palette := board.PaletteColors()
	if len(palette) == 0 {
		fmt.Fprintln(os.Stdout, "no colors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available palette colors (* marks the default color):")
	def := clampIndex(board.DefaultColorIndex(), len(palette))
	for idx, entry := range palette {
		fmt.Fprintln(os.Stdout, paletteLine(entry, idx, idx == def))
	}
	return nil
}

func (c *listCmd) runWidths() error {
	widths := board.WidthOptions()
	if len(widths) == 0 {
		fmt.Fprintln(os.Stdout, "no widths available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available stroke widths (* marks the default width):")
	def := clampIndex(board.DefaultWidthIndex(), len(widths))
	for idx, width := range widths {
		fmt.Fprintf(os.Stdout, "%s %3dpx\n", mark(idx == def), width)
	}
	return nil
}

// paletteLine renders one swatch row: marker, index, name, hex value, and a
// truecolor sample block.
func paletteLine(entry board.PaletteColor, idx int, isDefault bool) string {
	hex := fmt.Sprintf("#%02X%02X%02X", entry.Color.R, entry.Color.G, entry.Color.B)
	name := entry.Name
	if name == "" {
		name = hex
	}
	swatch := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
	return fmt.Sprintf("%s %2d: %-12s %s %s", mark(isDefault), idx, name, hex, swatch)
}

func mark(on bool) string {
	if on {
		return "*"
	}
	return " "
}
