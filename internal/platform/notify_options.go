// Package platform holds the per-OS notification backends. Each build
// provides one Notify implementation; unsupported systems get a no-op.
package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification
	// center should show alongside the text if the platform supports it.
	IconPath string
}
