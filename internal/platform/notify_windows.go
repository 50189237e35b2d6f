//go:build windows

package platform

import (
	"os/exec"
	"strings"
)

const toastAppID = "inkboard"

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Notify shows a toast through the Windows notification center. With an
// icon the image-and-text template is used, otherwise the text one.
func Notify(title, body string, opts Options) error {
	icon := strings.TrimSpace(opts.IconPath)
	template := "ToastText02"
	if icon != "" {
		template = "ToastImageAndText02"
	}

	var b strings.Builder
	b.WriteString(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `)
	b.WriteString(`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::` + template + `); `)
	b.WriteString(`$texts = $template.GetElementsByTagName("text"); `)
	b.WriteString(`$texts.Item(0).AppendChild($template.CreateTextNode(` + psQuote(title) + `)) > $null; `)
	b.WriteString(`$texts.Item(1).AppendChild($template.CreateTextNode(` + psQuote(body) + `)) > $null; `)
	if icon != "" {
		b.WriteString(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", ` + psQuote(icon) + `); `)
	}
	b.WriteString(`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); `)
	b.WriteString(`$notifier = [Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(` + psQuote(toastAppID) + `); `)
	b.WriteString(`$notifier.Show($toast);`)

	return exec.Command("powershell.exe", "-NoProfile", "-Command", b.String()).Run()
}
