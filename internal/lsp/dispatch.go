package lsp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/akkadia-lang/akkadia-ls/internal/jsonrpc"
	"github.com/akkadia-lang/akkadia-ls/internal/server"
)

// NoParams is the parameter type of actions that ignore their params.
type NoParams struct{}

// Ack is an empty acknowledgment. It encodes as null.
type Ack struct{}

func (Ack) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// NoResponse is the result type of request actions that send their reply
// themselves.
type NoResponse struct{}

type actionKind int

const (
	notificationAction actionKind = iota
	requestAction
)

func (k actionKind) String() string {
	if k == requestAction {
		return "request"
	}

	return "notification"
}

// action pairs a method with the typed decode, invoke and reply steps of its
// handler. dispatch returns an error only when the message itself is
// malformed; handler failures are dealt with inside.
type action struct {
	method   string
	kind     actionKind
	dispatch func(h *handler, msg *jsonrpc.RawMessage) error
}

// handler is what an action runs with. A fresh handler is built for every
// dispatched message and dropped afterwards.
type handler struct {
	srv *server.Server
	ctx *server.ActionContext
	out jsonrpc.Output
}

// actions is the fixed table of everything the server answers to. Method
// names are unique, so the first match is the only match.
var actions = sync.OnceValue(func() []action {
	return []action{
		request(protocol.MethodInitialize, (*handler).initialize),
		notification(protocol.MethodInitialized, (*handler).initialized),
		request(protocol.MethodShutdown, (*handler).shutdown),
		notification(protocol.MethodExit, (*handler).exit),

		notification(protocol.MethodCancelRequest, (*handler).cancelRequest),
		notification(protocol.MethodTextDocumentDidOpen, (*handler).didOpen),
		notification(protocol.MethodTextDocumentDidChange, (*handler).didChange),
		notification(protocol.MethodTextDocumentDidSave, (*handler).didSave),
		notification(protocol.MethodWorkspaceDidChangeWatchedFiles, (*handler).didChangeWatchedFiles),

		request(protocol.MethodTextDocumentCompletion, (*handler).completion),
		request(protocol.MethodCompletionItemResolve, (*handler).completionItemResolve),
	}
})

func findAction(method string) (action, bool) {
	for _, a := range actions() {
		if a.method == method {
			return a, true
		}
	}

	return action{}, false
}

func notification[P any](method string, fn func(*handler, P) error) action {
	return action{
		method: method,
		kind:   notificationAction,
		dispatch: func(h *handler, msg *jsonrpc.RawMessage) error {
			params, err := decodeParams[P](msg)
			if err != nil {
				return err
			}

			if err := invoke(func() error { return fn(h, params) }); err != nil {
				log.Errorf("%s failed: %v", method, err)
			}

			return nil
		},
	}
}

func request[P, R any](method string, fn func(*handler, jsonrpc2.ID, P) (R, error)) action {
	return action{
		method: method,
		kind:   requestAction,
		dispatch: func(h *handler, msg *jsonrpc.RawMessage) error {
			id, err := msg.RequestID()
			if err != nil {
				return err
			}

			params, err := decodeParams[P](msg)
			if err != nil {
				return err
			}

			var result R

			err = invoke(func() (err error) {
				result, err = fn(h, id, params)
				return err
			})
			if err != nil {
				log.Errorf("%s (%s) failed: %v", method, id, err)
				h.out.Failure(&id, jsonrpc.AsError(err))

				return nil
			}

			if _, ok := any(result).(NoResponse); !ok {
				h.out.Success(id, result)
			}

			return nil
		},
	}
}

func decodeParams[P any](msg *jsonrpc.RawMessage) (P, error) {
	var params P

	if _, ok := any(params).(NoParams); ok {
		return params, nil
	}

	if !msg.HasParams() {
		log.Debugf("%s: missing params", msg.Method)
		return params, jsonrpc.InvalidRequest()
	}

	if err := json.Unmarshal(msg.Params, &params); err != nil {
		log.Debugf("%s: could not decode params: %v", msg.Method, err)
		return params, jsonrpc.InvalidRequest()
	}

	return params, nil
}

// invoke runs fn and turns a panic into an error, except for contract
// violations which keep unwinding to the dispatch loop.
func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if violation, ok := r.(*server.ContractViolation); ok {
				panic(violation)
			}

			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn()
}
