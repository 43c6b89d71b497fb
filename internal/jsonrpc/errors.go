package jsonrpc

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"
)

// ParseError reports a message that is not valid JSON.
func ParseError() *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: "Parse error"}
}

// InvalidRequest reports a message whose shape is not a valid request or
// notification.
func InvalidRequest() *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "Invalid request"}
}

// MethodNotFound reports a request for a method the server does not provide.
func MethodNotFound(method string) *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", method)}
}

// InvalidParams reports parameters that decoded but are semantically unusable.
func InvalidParams(message string) *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: message}
}

// InternalError wraps a handler failure.
func InternalError(message string) *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: message}
}

// AsError converts err into a JSON-RPC error object. Errors that already are
// JSON-RPC errors are returned unchanged; anything else becomes an internal
// error carrying err's message.
func AsError(err error) *jsonrpc2.Error {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	return InternalError(err.Error())
}
