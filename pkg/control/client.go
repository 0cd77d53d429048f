package control

import (
	"context"
	"fmt"
	"net"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
)

// Client talks to a running instance over its control socket
type Client struct {
	cli *jrpc2.Client
}

// Dial connects to the socket at path
func Dial(ctx context.Context, path string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("no running instance at %s: %w", path, err)
	}
	return &Client{cli: jrpc2.NewClient(channel.Line(conn, conn), nil)}, nil
}

func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var res StatusResult
	if err := c.cli.CallResult(ctx, "alarm.status", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Replan asks the instance to plan again, typically after settings changed
func (c *Client) Replan(ctx context.Context) (*StatusResult, error) {
	var res StatusResult
	if err := c.cli.CallResult(ctx, "alarm.replan", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Check asks the instance to deliver anything overdue
func (c *Client) Check(ctx context.Context) (int, error) {
	var res CheckResult
	if err := c.cli.CallResult(ctx, "alarm.check", nil, &res); err != nil {
		return 0, err
	}
	return res.Delivered, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}
