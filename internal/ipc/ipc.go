// Package ipc locates and opens the local Unix socket that the clipmgr daemon
// serves its control API on. CLI sub-commands dial the same path.
package ipc

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketName = "clipmgr.sock"

// SocketPath returns the socket path, in order of preference:
//
//   - $CLIPMGR_SOCKET
//   - $XDG_RUNTIME_DIR/clipmgr.sock
//   - $TMPDIR/clipmgr.sock
func SocketPath() string {
	if s := os.Getenv("CLIPMGR_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}

// Target returns the gRPC dial target for path.
func Target(path string) string {
	return "unix://" + path
}

// IsRunning reports whether something is listening on path. It does a cheap
// dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a listener on path, removing a stale socket left by a
// crashed run. The socket is restricted to the current user.
func Listen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, err
	}
	return ln, nil
}
