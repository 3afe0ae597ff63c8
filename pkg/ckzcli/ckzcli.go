// Package ckzcli is the client library for the vault daemon. It dials the
// local transport (unix socket, or named pipe on Windows) and exposes the
// daemon's operations as plain method calls.
package ckzcli

import (
	"context"
	"net"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
)

// Client is a connection to a running vault daemon.
type Client struct {
	conn net.Conn
	rpc  *jrpc2.Client
}

// NewClient connects to the daemon over the local transport.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		rpc:  jrpc2.NewClient(channel.Line(conn, conn), nil),
	}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.rpc.Close()
	return c.conn.Close()
}

func call[T any](c *Client, method string, params any) (*T, error) {
	var out T
	if err := c.rpc.CallResult(context.Background(), method, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
