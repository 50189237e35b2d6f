//go:build linux

package platform

import "github.com/godbus/dbus/v5"

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod  = notifyService + ".Notify"

	notifyAppName  = "inkboard"
	notifyExpireMs = int32(5000)
)

// Notify raises a desktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{}
	if opts.IconPath != "" {
		// image-path renders the file inside the bubble; the app_icon
		// argument carries it too for older daemons.
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	obj := conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyMethod, 0,
		notifyAppName, uint32(0), opts.IconPath, title, body, []string{}, hints, notifyExpireMs)
	return call.Err
}
