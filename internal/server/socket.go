package server

import (
	"os"
	"path/filepath"
)

// Environment variables overriding the daemon transport.
const (
	// SocketPathEnv overrides the unix socket path.
	SocketPathEnv = "CKZVAULT_SOCKET_PATH"

	// PipeNameEnv overrides the Windows named pipe name.
	PipeNameEnv = "CKZVAULT_PIPE_NAME"
)

// SocketPath returns the unix socket the daemon listens on. The CLI resolves
// the same path when dialing.
func SocketPath() string {
	if path := os.Getenv(SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "ckzvault.sock")
}
