//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"strings"
	"testing"
)

func TestPortalHandleTokensNeverRepeat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := newPortalHandleToken()
		if !strings.HasPrefix(tok, "inkboard_") {
			t.Fatalf("token %q lacks the app prefix", tok)
		}
		if seen[tok] {
			t.Fatalf("token %q issued twice", tok)
		}
		seen[tok] = true
	}
}
