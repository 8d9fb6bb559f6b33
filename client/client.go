// Package client talks to a running tetherd over its control socket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"tether"
	"tether/api"
)

// Client dials the tetherd control socket per call; connections are
// one-shot by protocol.
type Client struct {
	socket string
}

// New creates a Client for the given socket path.
func New(socket string) *Client {
	return &Client{socket: socket}
}

// Status fetches the daemon's current view.
func (c *Client) Status(ctx context.Context) (tether.Status, error) {
	resp, err := c.do(ctx, api.Request{Op: api.OpStatus})
	if err != nil {
		return tether.Status{}, err
	}
	if resp.Status == nil {
		return tether.Status{}, errors.New("daemon returned no status")
	}
	return *resp.Status, nil
}

// Start asks the daemon to start the service.
func (c *Client) Start(ctx context.Context) error {
	_, err := c.do(ctx, api.Request{Op: api.OpStart})
	return err
}

// Stop asks the daemon to stop the service.
func (c *Client) Stop(ctx context.Context) error {
	_, err := c.do(ctx, api.Request{Op: api.OpStop})
	return err
}

// Toggle flips the service state.
func (c *Client) Toggle(ctx context.Context) error {
	_, err := c.do(ctx, api.Request{Op: api.OpToggle})
	return err
}

// Settings fetches the stored settings. Keys never written are absent;
// the daemon applies its defaults for those.
func (c *Client) Settings(ctx context.Context) (map[string]string, error) {
	resp, err := c.do(ctx, api.Request{Op: api.OpSettings})
	if err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// Set writes one setting and reloads the daemon's config snapshot.
func (c *Client) Set(ctx context.Context, key, value string) error {
	_, err := c.do(ctx, api.Request{Op: api.OpSet, Key: key, Value: value})
	return err
}

func (c *Client) do(ctx context.Context, req api.Request) (api.Response, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socket)
	if err != nil {
		return api.Response{}, fmt.Errorf("connect to tetherd at %s: %w", c.socket, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return api.Response{}, fmt.Errorf("send request: %w", err)
	}
	var resp api.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return api.Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return api.Response{}, errors.New(resp.Error)
	}
	return resp, nil
}
