package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
	clzerolog "github.com/tliron/commonlog/zerolog"
	"github.com/tliron/kutil/util"

	"github.com/akkadia-lang/akkadia-ls/internal/config"
	"github.com/akkadia-lang/akkadia-ls/internal/jsonrpc"
	"github.com/akkadia-lang/akkadia-ls/internal/lsp"
	"github.com/akkadia-lang/akkadia-ls/internal/server"
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

var log = commonlog.GetLogger("akkadia")

func usage() {
	fmt.Fprintf(os.Stderr, "akkadia-ls version %s\n\n", lsp.Version)
	fmt.Fprintf(os.Stderr, "Usage: akkadia-ls [options] [version]\n\n")
	fmt.Fprintf(os.Stderr, "Language Server Protocol implementation for Akkadia\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flags := config.BindFlags(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("akkadia-ls version %s\n", lsp.Version)
		os.Exit(0)
	}

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "akkadia-ls: %v\n", err)
		os.Exit(2)
	}

	if err := setupLogging(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "akkadia-ls: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()

	util.Exit(code)
}

func run(ctx context.Context, cfg *config.Config) int {
	conn, err := connect(ctx, cfg.Transport)
	if err != nil {
		log.Errorf("%s", err)
		return 1
	}
	defer conn.Close()

	code := serve(ctx, conn, server.Config{MaxCompletionItems: cfg.Completion.MaxItems})
	log.Infof("exiting with code %d", code)

	return code
}

// serve runs a service over conn until it stops or ctx is cancelled. A read
// from stdin cannot be interrupted, so on cancellation serve returns without
// waiting for the service and leaves it to the process exit.
func serve(ctx context.Context, conn io.ReadWriter, config server.Config) int {
	service := lsp.NewService(
		vfs.NewMemory(),
		jsonrpc.NewMessageReader(conn),
		jsonrpc.NewOutput(conn),
		config,
	)

	done := make(chan int, 1)

	go func() {
		done <- service.Run(ctx)
	}()

	select {
	case code := <-done:
		return code
	case <-ctx.Done():
		log.Infof("stopping: %v", context.Cause(ctx))
		return 1
	}
}

// setupLogging selects the commonlog backend and applies level and file.
func setupLogging(cfg config.LogConfig) error {
	verbosity, err := config.Verbosity(cfg.Level)
	if err != nil {
		return err
	}

	switch cfg.Backend {
	case config.BackendZerolog:
		commonlog.SetBackend(clzerolog.NewBackend())
	default:
		commonlog.SetBackend(simple.NewBackend())
	}

	var path *string
	if cfg.File != "" {
		path = &cfg.File
	}

	commonlog.Configure(verbosity, path)

	return nil
}
