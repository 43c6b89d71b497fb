// Package server provides the state owned by the dispatch loop: lifecycle
// flags, the action context and the caches shared between actions.
package server

import (
	"sync/atomic"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("akkadia.server")

// DefaultMaxCompletionItems caps completion lists when no limit is configured.
const DefaultMaxCompletionItems = 200

// Server holds the lifecycle state of one connection.
type Server struct {
	// shutDown is set once by the shutdown request and never cleared
	shutDown atomic.Bool

	// exitRequested is set by the exit notification
	exitRequested atomic.Bool

	completionCache *CompletionCache

	config Config
}

// Config holds server configuration options.
type Config struct {
	// MaxCompletionItems limits the number of items in a completion list
	MaxCompletionItems int
}

// New creates the state for a new connection.
func New(config Config) *Server {
	if config.MaxCompletionItems <= 0 {
		config.MaxCompletionItems = DefaultMaxCompletionItems
	}

	return &Server{
		completionCache: NewCompletionCache(),
		config:          config,
	}
}

// IsShutDown reports whether the client has requested shutdown.
func (s *Server) IsShutDown() bool {
	return s.shutDown.Load()
}

// SetShutDown marks the server as shut down.
func (s *Server) SetShutDown() {
	if !s.shutDown.Swap(true) {
		log.Info("shutdown requested")
	}
}

// RequestExit records that the client asked the process to exit.
func (s *Server) RequestExit() {
	s.exitRequested.Store(true)
}

// ExitRequested reports whether exit has been requested.
func (s *Server) ExitRequested() bool {
	return s.exitRequested.Load()
}

// ExitCode is the process exit code: 0 when shutdown preceded exit, 1 otherwise.
func (s *Server) ExitCode() int {
	if s.IsShutDown() {
		return 0
	}

	return 1
}

// CompletionCache returns the completion word cache.
func (s *Server) CompletionCache() *CompletionCache {
	return s.completionCache
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}
