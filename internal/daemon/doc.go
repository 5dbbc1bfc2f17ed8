// Package daemon wires the notimand host together. It serialises IPC and
// D-Bus traffic onto the toast event loop, watches the config file for
// changes and raises the host's own toasts.
package daemon
