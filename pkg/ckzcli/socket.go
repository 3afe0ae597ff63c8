package ckzcli

import (
	"os"
	"path/filepath"
)

// SocketPathEnv overrides the unix socket path the client dials.
const SocketPathEnv = "CKZVAULT_SOCKET_PATH"

// SocketPath returns the daemon's unix socket path.
func SocketPath() string {
	if p := os.Getenv(SocketPathEnv); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "ckzvault.sock")
}
