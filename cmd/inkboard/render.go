package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/inkboard/internal/export"
	"github.com/example/inkboard/internal/surface"
	"github.com/example/inkboard/internal/template"
)

// renderCmd writes one template to a PNG file without opening a window.
type renderCmd struct {
	output   string
	sizeSpec string
	framed   bool
	id       string
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "output file path (defaults to a timestamped name)")
	fs.StringVar(&c.sizeSpec, "size", "960x600", "board size as WxH")
	fs.BoolVar(&c.framed, "framed", false, "matte the result on a shadowed backdrop")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.id = fs.Arg(0)
	if c.output == "" {
		c.output = export.DefaultName("png")
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	w, h, err := parseSize(c.sizeSpec)
	if err != nil {
		return err
	}
	surf, err := surface.New(w, h)
	if err != nil {
		return err
	}
	reg := template.NewRegistry(c.theme())
	if err := renderTemplate(reg, c.id, surf); err != nil {
		return err
	}
	if err := export.PNG(c.output, surf.Image(), export.Options{Frame: c.framed}); err != nil {
		return err
	}
	saved := absOrSame(c.output)
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	c.notifySave(saved)
	return nil
}

// renderTemplate paints the named template, listing the catalog when the
// id is unknown.
func renderTemplate(reg *template.Registry, id string, surf *surface.Surface) error {
	err := reg.Render(id, surf)
	var unknown template.UnknownTemplateError
	if errors.As(err, &unknown) {
		return fmt.Errorf("%w (have %s)", err, strings.Join(reg.IDs(), ", "))
	}
	return err
}
