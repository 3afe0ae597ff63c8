//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// createListener opens the unix socket the CLI dials. The socket is created
// owner-only by masking group and other bits for the bind itself, so there
// is no window where another user could connect. A stale socket from a
// crashed daemon is removed first.
func (s *Server) createListener() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)

	old := unix.Umask(0077)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: path,
		Net:  "unix",
	})
	unix.Umask(old)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	_ = os.Chmod(path, 0700)
	return l, nil
}

// cleanupSocket removes the unix socket file.
func cleanupSocket() error {
	if err := os.Remove(SocketPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
