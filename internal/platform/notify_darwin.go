//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

// asQuote escapes s for an AppleScript string literal.
func asQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Notify displays a notification through Notification Center. The icon
// is ignored; osascript offers no way to attach one.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %s with title %s", asQuote(body), asQuote(title))
	return exec.Command("osascript", "-e", script).Run()
}
