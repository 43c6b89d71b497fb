package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"

	"github.com/akkadia-lang/akkadia-ls/internal/jsonrpc"
	"github.com/akkadia-lang/akkadia-ls/internal/server"
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

const (
	testRoot = "/work"
	testURI  = "file:///work/main.akk"
	testPath = "/work/main.akk"
)

// scriptedReader hands out a fixed list of messages, then io.EOF.
type scriptedReader struct {
	messages []string
}

func (r *scriptedReader) ReadMessage() (string, error) {
	if len(r.messages) == 0 {
		return "", io.EOF
	}

	msg := r.messages[0]
	r.messages = r.messages[1:]

	return msg, nil
}

func (r *scriptedReader) push(messages ...string) {
	r.messages = append(r.messages, messages...)
}

type harness struct {
	t       *testing.T
	fs      *vfs.Memory
	reader  *scriptedReader
	buf     *bytes.Buffer
	service *Service
}

func newHarness(t *testing.T, config server.Config) *harness {
	t.Helper()

	h := &harness{
		t:      t,
		fs:     vfs.NewMemory(),
		reader: &scriptedReader{},
		buf:    &bytes.Buffer{},
	}
	h.service = NewService(h.fs, h.reader, jsonrpc.NewOutput(h.buf), config)

	return h
}

// send queues messages and handles exactly that many, returning the state
// change of the last one.
func (h *harness) send(messages ...string) ServerStateChange {
	h.t.Helper()
	h.reader.push(messages...)

	change := Continue
	for range messages {
		change = h.service.HandleMessage()
	}

	return change
}

// initialize runs a successful handshake and drops its output.
func (h *harness) initialize() {
	h.t.Helper()

	require.Equal(h.t, Continue, h.send(initializeMsg(0, nil)))
	require.Len(h.t, h.output(), 1)
	require.True(h.t, h.service.ctx.IsInitialized())
}

// output decodes everything written since the previous call.
func (h *harness) output() []map[string]any {
	h.t.Helper()

	var (
		messages []map[string]any
		codec    jsonrpc2.VSCodeObjectCodec
		r        = bufio.NewReader(h.buf)
	)

	for {
		var msg map[string]any

		err := codec.ReadObject(r, &msg)
		if err == io.EOF {
			return messages
		}

		require.NoError(h.t, err)
		messages = append(messages, msg)
	}
}

func requestMsg(id any, method string, params any) string {
	msg := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		msg["params"] = params
	}

	return mustJSON(msg)
}

func notifyMsg(method string, params any) string {
	msg := map[string]any{"jsonrpc": "2.0", "method": method}
	if params != nil {
		msg["params"] = params
	}

	return mustJSON(msg)
}

func initializeMsg(id any, options any) string {
	params := map[string]any{
		"processId":    nil,
		"rootPath":     testRoot,
		"capabilities": map[string]any{},
	}
	if options != nil {
		params["initializationOptions"] = options
	}

	return requestMsg(id, "initialize", params)
}

func didOpenMsg(uri, text string) string {
	return notifyMsg("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": "akkadia",
			"version":    1,
			"text":       text,
		},
	})
}

func completionMsg(id any, uri string, line, character int) string {
	return requestMsg(id, "textDocument/completion", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	})
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return string(data)
}

func errorCode(msg map[string]any) float64 {
	rpcErr, ok := msg["error"].(map[string]any)
	if !ok {
		return 0
	}

	code, _ := rpcErr["code"].(float64)

	return code
}

func labels(msg map[string]any) []string {
	items, _ := msg["result"].([]any)
	labels := make([]string, 0, len(items))

	for _, item := range items {
		labels = append(labels, item.(map[string]any)["label"].(string))
	}

	return labels
}
