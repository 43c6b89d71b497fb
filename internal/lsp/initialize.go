package lsp

import (
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/akkadia-lang/akkadia-ls/internal/jsonrpc"
	"github.com/akkadia-lang/akkadia-ls/internal/server"
)

const serverName = "akkadia-ls"

// Version is the server version reported to clients.
const Version = "0.1.0"

// initialize handles the initialize request.
// The reply goes out before the context is initialized, so the client always
// gets its capabilities even if the transition fails.
func (h *handler) initialize(id jsonrpc2.ID, params protocol.InitializeParams) (NoResponse, error) {
	options := initializationOptions(params.InitializationOptions)
	log.Debugf("initialization options: %+v", options)

	root, ok := rootPath(&params)
	if !ok {
		return NoResponse{}, jsonrpc.InvalidParams("initialize requires a workspace root (rootPath or a file rootUri)")
	}

	serverVersion := Version

	h.out.Success(id, &protocol.InitializeResult{
		Capabilities: capabilities(),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &serverVersion,
		},
	})

	h.ctx.Init(root, options)

	return NoResponse{}, nil
}

func capabilities() protocol.ServerCapabilities {
	return protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncKindIncremental,

		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{".", ":"},
			ResolveProvider:   &[]bool{true}[0],
		},
	}
}

// initializationOptions decodes the client's options leniently: unknown keys
// are ignored and anything malformed yields the defaults.
func initializationOptions(raw any) server.InitializationOptions {
	var options server.InitializationOptions

	if raw == nil {
		return options
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return server.InitializationOptions{}
	}

	if err := json.Unmarshal(data, &options); err != nil {
		log.Warningf("ignoring malformed initialization options: %v", err)
		return server.InitializationOptions{}
	}

	return options
}

// initialized handles the initialized notification, sent once the client has
// processed the initialize reply.
func (h *handler) initialized(NoParams) error {
	log.Debug("client initialized")
	return nil
}

// shutdown handles the shutdown request. Every call is acknowledged.
func (h *handler) shutdown(jsonrpc2.ID, NoParams) (Ack, error) {
	h.srv.SetShutDown()
	return Ack{}, nil
}

// exit handles the exit notification. The dispatch loop stops after it.
func (h *handler) exit(NoParams) error {
	h.srv.RequestExit()
	log.Infof("exit requested, exit code %d", h.srv.ExitCode())

	return nil
}
