package main

import (
	"bytes"
	"embed"
	"flag"
	"log"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var helpTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"flags": flagRows,
	}).ParseFS(helpFS, "templates/*.txt"))
})

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

func flagRows(fs *flag.FlagSet) []flagInfo {
	var rows []flagInfo
	fs.VisitAll(func(f *flag.Flag) {
		rows = append(rows, flagInfo{f.Name, f.DefValue, f.Usage})
	})
	return rows
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	var buf bytes.Buffer
	if err := helpTemplates().ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func (r *root) Template() string {
	return "root.txt"
}

func (e *editCmd) Template() string {
	return "edit.txt"
}

func (d *drawCmd) Template() string {
	return "draw.txt"
}

func (c *renderCmd) Template() string {
	return "render.txt"
}

func (c *configCmd) Template() string {
	return "config.txt"
}

func (c *interactiveCmd) Template() string {
	return "interactive.txt"
}
