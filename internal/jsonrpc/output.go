package jsonrpc

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("akkadia.jsonrpc")

// Output is where the server writes everything it sends to the client.
// Implementations are safe for concurrent use; copies of an Output value
// share the same underlying writer.
type Output interface {
	// Success replies to request id with result.
	Success(id jsonrpc2.ID, result any)

	// Failure replies with an error. A nil id is sent as null.
	Failure(id *jsonrpc2.ID, err *jsonrpc2.Error)

	// Notify sends a server notification.
	Notify(method string, params any)

	// Request sends a server-initiated request and returns the id assigned to it.
	Request(method string, params any) jsonrpc2.ID

	// ProvideID returns a fresh id for a server-initiated request. Provided
	// ids are non-numeric strings and never collide with client request ids.
	ProvideID() jsonrpc2.ID
}

type successResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      jsonrpc2.ID     `json:"id"`
	Result  json.RawMessage `json:"result"`
}

type errorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *jsonrpc2.ID    `json:"id"`
	Error   *jsonrpc2.Error `json:"error"`
}

type requestMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      jsonrpc2.ID `json:"id"`
	Method  string      `json:"method"`
	Params  any         `json:"params,omitempty"`
}

type notificationMessage struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// StreamOutput writes Content-Length framed messages to a stream.
type StreamOutput struct {
	w     io.Writer
	codec jsonrpc2.VSCodeObjectCodec
	mu    sync.Mutex
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer) *StreamOutput {
	return &StreamOutput{w: w}
}

// Success implements Output.
func (o *StreamOutput) Success(id jsonrpc2.ID, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Errorf("could not encode result for request %s: %v", id, err)
		o.Failure(&id, InternalError("could not encode result"))

		return
	}

	o.write(&successResponse{JSONRPC: Version, ID: id, Result: data})
}

// Failure implements Output.
func (o *StreamOutput) Failure(id *jsonrpc2.ID, err *jsonrpc2.Error) {
	o.write(&errorResponse{JSONRPC: Version, ID: id, Error: err})
}

// Notify implements Output.
func (o *StreamOutput) Notify(method string, params any) {
	o.write(&notificationMessage{JSONRPC: Version, Method: method, Params: params})
}

// Request implements Output.
func (o *StreamOutput) Request(method string, params any) jsonrpc2.ID {
	id := o.ProvideID()
	o.write(&requestMessage{JSONRPC: Version, ID: id, Method: method, Params: params})

	return id
}

// ProvideID implements Output.
func (o *StreamOutput) ProvideID() jsonrpc2.ID {
	return jsonrpc2.ID{Str: "akkadia-" + uuid.NewString(), IsString: true}
}

func (o *StreamOutput) write(msg any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.codec.WriteObject(o.w, msg); err != nil {
		log.Errorf("could not write message: %v", err)
	}
}
