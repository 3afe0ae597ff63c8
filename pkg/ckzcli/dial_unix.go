//go:build !windows

package ckzcli

import (
	"fmt"
	"net"
)

// dialFunc points at the real dialer; tests swap it out.
var dialFunc = net.Dial

func dial() (net.Conn, error) {
	conn, err := dialFunc("unix", SocketPath())
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return conn, nil
}
