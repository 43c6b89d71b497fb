package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/akkadia-lang/akkadia-ls/internal/config"
)

// stdio joins stdin and stdout into one connection. Closing it closes stdin
// only, so pending replies can still be written.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return os.Stdin.Close() }

// connect returns the client connection for the configured transport. In TCP
// mode it waits for exactly one client on the loopback interface.
func connect(ctx context.Context, cfg config.TransportConfig) (io.ReadWriteCloser, error) {
	if !cfg.TCP {
		log.Info("serving over stdio")
		return stdio{}, nil
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer listener.Close()

	log.Infof("waiting for a client on %s", addr)

	accepted := make(chan net.Conn, 1)
	failed := make(chan error, 1)

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			failed <- err
			return
		}
		accepted <- conn
	}()

	select {
	case conn := <-accepted:
		log.Infof("client connected from %s", conn.RemoteAddr())
		return conn, nil
	case err := <-failed:
		return nil, fmt.Errorf("accepting on %s: %w", addr, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
