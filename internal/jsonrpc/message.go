// Package jsonrpc implements the JSON-RPC 2.0 layer of the language server:
// parsing incoming messages, reading them off a framed stream and writing
// responses, notifications and server requests back.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/sourcegraph/jsonrpc2"
)

// Version is the only JSON-RPC version spoken.
const Version = "2.0"

var jsonNull = json.RawMessage("null")

// RawMessage is a parsed but not yet routed request or notification.
type RawMessage struct {
	Method string

	// ID is the raw JSON of the "id" member, nil when absent.
	ID json.RawMessage

	// Params is always a JSON object, array or null.
	Params json.RawMessage
}

// Parse parses one complete message. A nil message with a nil error means
// the text is a response to a request the server sent; such messages are
// not routed.
func Parse(text string) (*RawMessage, error) {
	data := []byte(text)
	if !json.Valid(data) {
		return nil, ParseError()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Valid JSON but not an object: there is no method to route on.
		return nil, nil
	}

	rawMethod, ok := fields["method"]
	if !ok {
		return nil, nil
	}

	var method string
	if err := json.Unmarshal(rawMethod, &method); err != nil || isNull(rawMethod) {
		return nil, InvalidRequest()
	}

	// A missing or null params member is normalized to null so that
	// parameter decoding always sees the same "no params" value.
	params := jsonNull

	if rawParams, ok := fields["params"]; ok && !isNull(rawParams) {
		switch firstByte(rawParams) {
		case '{', '[':
			params = rawParams
		default:
			return nil, InvalidRequest()
		}
	}

	return &RawMessage{
		Method: method,
		ID:     fields["id"],
		Params: params,
	}, nil
}

// IsNotification reports whether the message carries no id at all.
func (m *RawMessage) IsNotification() bool {
	return len(m.ID) == 0
}

// HasParams reports whether params is anything other than null.
func (m *RawMessage) HasParams() bool {
	return len(m.Params) > 0 && !isNull(m.Params)
}

// RequestID validates the message id for use as a request id. Non-negative
// integers and strings holding a base-10 non-negative integer are accepted;
// the id keeps the form the client sent it in.
func (m *RawMessage) RequestID() (jsonrpc2.ID, error) {
	if len(m.ID) == 0 {
		return jsonrpc2.ID{}, InvalidRequest()
	}

	switch firstByte(m.ID) {
	case '"':
		var s string
		if err := json.Unmarshal(m.ID, &s); err != nil {
			return jsonrpc2.ID{}, InvalidRequest()
		}

		if _, err := strconv.ParseUint(s, 10, 64); err != nil {
			return jsonrpc2.ID{}, InvalidRequest()
		}

		return jsonrpc2.ID{Str: s, IsString: true}, nil

	default:
		var n uint64
		if err := json.Unmarshal(m.ID, &n); err != nil || isNull(m.ID) {
			return jsonrpc2.ID{}, InvalidRequest()
		}

		return jsonrpc2.ID{Num: n}, nil
	}
}

// ReplyID returns the id to use when replying with an error: the request id
// when valid, the raw string when the id is any other string, and nil (null)
// otherwise.
func (m *RawMessage) ReplyID() *jsonrpc2.ID {
	if id, err := m.RequestID(); err == nil {
		return &id
	}

	if firstByte(m.ID) == '"' {
		var s string
		if err := json.Unmarshal(m.ID, &s); err == nil {
			return &jsonrpc2.ID{Str: s, IsString: true}
		}
	}

	return nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}

	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
