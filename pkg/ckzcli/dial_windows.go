//go:build windows

package ckzcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

const dialTimeout = 10 * time.Second

// dialPipeFunc points at the real pipe dialer; tests swap it out.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

func dial() (net.Conn, error) {
	conn, err := dialPipeFunc(PipePath())
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return conn, nil
}
