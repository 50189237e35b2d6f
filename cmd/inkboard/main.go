package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/inkboard/internal/config"
	"github.com/example/inkboard/internal/notify"
	"github.com/example/inkboard/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	saveAlerts   bool
	copyAlerts   bool
	exportAlerts bool
	themeName    string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	cfg, err := config.NewLoader(version, configPathOverride).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("inkboard", flag.ExitOnError),
		program:  "inkboard",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a board")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a board")

	// The empty default lets resolveTheme tell a flag value apart from
	// the environment and config fallbacks.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, sepia)")
	r.fs.Usage = usageFunc(r)
	return r
}

// commands maps each subcommand word to its parser. The three listing
// words share one command keyed on the word itself.
var commands = map[string]func(args []string, r *root) (runnable, error){
	"edit":        parserFor(parseEditCmd),
	"draw":        parserFor(parseDrawCmd),
	"render":      parserFor(parseRenderCmd),
	"templates":   listParser("templates"),
	"colors":      listParser("colors"),
	"widths":      listParser("widths"),
	"config":      parserFor(parseConfigCmd),
	"interactive": parserFor(parseInteractiveCmd),
	"version": func(_ []string, r *root) (runnable, error) {
		return &versionCmd{r: r}, nil
	},
}

// parserFor adapts a typed command parser to the dispatch table shape.
func parserFor[C runnable](parse func([]string, *root) (C, error)) func([]string, *root) (runnable, error) {
	return func(args []string, r *root) (runnable, error) {
		return parse(args, r)
	}
}

func listParser(name string) func([]string, *root) (runnable, error) {
	return func(args []string, r *root) (runnable, error) {
		return parseListCmd(name, args, r)
	}
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("INKBOARD_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme %q: %v. using default (have %s).\n",
				name, err, strings.Join(theme.Builtins(), ", "))
		}
		return theme.Default()
	}
	return t
}

func (r *root) theme() *theme.Theme {
	if r == nil || r.activeTheme == nil {
		return theme.Default()
	}
	return r.activeTheme
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.activeTheme = r.resolveTheme()

	parse, ok := commands[r.fs.Arg(0)]
	if !ok {
		return &UsageError{of: r}
	}
	cmd, err := parse(r.fs.Args()[1:], r)
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	if err := newRoot().Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// Asking for usage is not a failure.
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			os.Exit(1)
		}
	}
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprintln(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func clampIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// alerts returns the notifier. Bare roots built by tests have none; the
// notify package tolerates the nil.
func (r *root) alerts() *notify.Notifier {
	if r == nil {
		return nil
	}
	return r.notifier
}

func (r *root) notifySave(path string)   { r.alerts().Save(path) }
func (r *root) notifyCopy(detail string) { r.alerts().Copy(detail) }
