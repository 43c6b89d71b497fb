package jsonrpc

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"
)

// MessageReader supplies one complete message per call, blocking until one is
// available. It returns io.EOF once the stream has ended.
type MessageReader interface {
	ReadMessage() (string, error)
}

// StreamReader reads messages framed with LSP Content-Length headers.
type StreamReader struct {
	r     *bufio.Reader
	codec jsonrpc2.VSCodeObjectCodec
}

// NewMessageReader creates a reader for the LSP base protocol over r.
func NewMessageReader(r io.Reader) *StreamReader {
	return &StreamReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// ReadMessage reads the next framed message body.
func (s *StreamReader) ReadMessage() (string, error) {
	var raw json.RawMessage
	if err := s.codec.ReadObject(s.r, &raw); err != nil {
		return "", err
	}

	return string(raw), nil
}
