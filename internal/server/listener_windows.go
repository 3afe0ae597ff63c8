//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
)

// pipeSecurityDescriptor restricts pipe access to SYSTEM, the built-in
// Administrators group and the creator owner, so other local users cannot
// drive the daemon.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener opens the Windows named pipe the CLI dials.
func (s *Server) createListener() (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	}
	l, err := winio.ListenPipe(PipePath(), cfg)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", PipePath(), err)
	}
	return l, nil
}

// cleanupSocket is a no-op on Windows: the OS drops the pipe once the last
// handle closes.
func cleanupSocket() error {
	return nil
}
