// Package display renders toasts as GTK4 layer-shell windows.
// It implements toast.Backend: one undecorated popup window per toast,
// positioned absolutely on the configured monitor, with hover and click
// input routed back to the toast engine on the GTK main thread.
package display
