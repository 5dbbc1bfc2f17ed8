package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketPath returns the host socket path. A non-empty override wins;
// otherwise $XDG_RUNTIME_DIR/notiman.sock, falling back to
// /tmp/notiman-<uid>.sock.
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "notiman.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("notiman-%d.sock", os.Getuid()))
}
