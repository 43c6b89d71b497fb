// Package lsp implements the language server's dispatch loop and the actions
// it routes requests and notifications to.
package lsp

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/akkadia-lang/akkadia-ls/internal/jsonrpc"
	"github.com/akkadia-lang/akkadia-ls/internal/server"
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

var log = commonlog.GetLogger("akkadia.lsp")

// ServerStateChange tells the caller of HandleMessage whether to keep going.
type ServerStateChange int

const (
	Continue ServerStateChange = iota
	Break
)

func (c ServerStateChange) String() string {
	if c == Break {
		return "break"
	}

	return "continue"
}

// Service reads messages one at a time and fully handles each before reading
// the next, so replies go out in the order requests arrived.
type Service struct {
	reader jsonrpc.MessageReader
	out    jsonrpc.Output
	srv    *server.Server
	ctx    *server.ActionContext

	// violated is set when a contract violation ended the connection
	violated bool
}

// NewService creates a service reading from reader and writing to out, with
// fs holding document text.
func NewService(fs vfs.FileSystem, reader jsonrpc.MessageReader, out jsonrpc.Output, config server.Config) *Service {
	return &Service{
		reader: reader,
		out:    out,
		srv:    server.New(config),
		ctx:    server.NewActionContext(fs),
	}
}

// Run handles messages until the client exits, the input ends, a fatal error
// occurs or ctx is cancelled. It returns the process exit code.
func (s *Service) Run(ctx context.Context) int {
	log.Info("language server running")

	for ctx.Err() == nil {
		if s.HandleMessage() == Break {
			break
		}
	}

	code := s.ExitCode()
	log.Infof("language server stopped, exit code %d", code)

	return code
}

// ExitCode is 0 after an orderly shutdown and 1 otherwise.
func (s *Service) ExitCode() int {
	if s.violated {
		return 1
	}

	return s.srv.ExitCode()
}

// HandleMessage reads, parses, routes and handles a single message.
func (s *Service) HandleMessage() (change ServerStateChange) {
	text, err := s.reader.ReadMessage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Info("input closed")
			return Break
		}

		log.Errorf("could not read message: %v", err)
		s.out.Failure(nil, jsonrpc.ParseError())

		return Break
	}

	log.Debugf("read message: %s", text)

	msg, err := jsonrpc.Parse(text)
	if err != nil {
		if s.srv.IsShutDown() {
			log.Debugf("shut down, ignoring unparsable message: %v", err)
			return Continue
		}

		log.Errorf("could not parse message: %v", err)
		s.out.Failure(nil, jsonrpc.AsError(err))

		return Break
	}

	if msg == nil {
		log.Debug("discarding response from client")
		return Continue
	}

	if s.srv.IsShutDown() && msg.Method != protocol.MethodExit && msg.Method != protocol.MethodShutdown {
		log.Debugf("shut down, ignoring %s", msg.Method)
		return Continue
	}

	defer func() {
		if r := recover(); r != nil {
			violation, ok := r.(*server.ContractViolation)
			if !ok {
				panic(r)
			}

			log.Criticalf("%s: %v", msg.Method, violation)
			s.violated = true
			s.out.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
				Type:    protocol.MessageTypeError,
				Message: serverName + ": " + violation.Error(),
			})

			change = Break
		}
	}()

	if err := s.dispatch(msg); err != nil {
		log.Errorf("invalid request %s: %v", msg.Method, err)
		s.out.Failure(msg.ReplyID(), jsonrpc.AsError(err))

		return Break
	}

	if s.srv.ExitRequested() {
		return Break
	}

	return Continue
}

func (s *Service) dispatch(msg *jsonrpc.RawMessage) error {
	a, ok := findAction(msg.Method)
	if !ok {
		return s.methodNotFound(msg)
	}

	log.Debugf("handling %s %s", a.kind, msg.Method)

	h := &handler{srv: s.srv, ctx: s.ctx, out: s.out}

	return a.dispatch(h, msg)
}

func (s *Service) methodNotFound(msg *jsonrpc.RawMessage) error {
	if msg.IsNotification() {
		// Optional protocol notifications may be dropped without complaint.
		if strings.HasPrefix(msg.Method, "$/") {
			log.Debugf("ignoring notification %s", msg.Method)
		} else {
			log.Warningf("method not found: %s", msg.Method)
		}

		return nil
	}

	id, err := msg.RequestID()
	if err != nil {
		// Without a usable id there is nothing to reply to.
		log.Warningf("method not found: %s (unusable id %s)", msg.Method, msg.ID)
		return nil
	}

	log.Warningf("method not found: %s (%s)", msg.Method, id)
	s.out.Failure(&id, jsonrpc.MethodNotFound(msg.Method))

	return nil
}
