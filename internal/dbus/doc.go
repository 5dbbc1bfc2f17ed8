// Package dbus implements the org.freedesktop.Notifications D-Bus interface.
// It provides a server that receives notifications from applications,
// translates them into toast requests, and exposes GetCapabilities, Notify,
// CloseNotification and GetServerInformation per the freedesktop.org
// notification specification.
package dbus
