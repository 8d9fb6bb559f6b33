package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"tether/api"
)

const connTimeout = 10 * time.Second

// serve listens on the unix control socket. Each connection carries one
// JSON request and gets one JSON response; the actual work happens on
// the event loop, keeping the coordinator single-threaded.
func (d *Daemon) serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}

	// Remove stale socket from a previous run (may not exist).
	_ = os.Remove(socketPath)
	defer func() { _ = os.Remove(socketPath) }()

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen unix %s: %w", socketPath, err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}
		go d.handleConn(ctx, conn)
	}
}

func (d *Daemon) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	req := request{reply: make(chan api.Response, 1)}
	if err := json.NewDecoder(conn).Decode(&req.req); err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			slog.Debug("Malformed control request.", "err", err)
		}
		return
	}

	select {
	case d.requests <- req:
	case <-ctx.Done():
		return
	}

	select {
	case resp := <-req.reply:
		if err := json.NewEncoder(conn).Encode(resp); err != nil {
			slog.Debug("Control response write failed.", "err", err)
		}
	case <-ctx.Done():
	}
}
