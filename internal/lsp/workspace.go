package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// cancelRequest handles $/cancelRequest. Requests are handled one at a time
// and to completion, so there is never anything in flight to cancel.
func (h *handler) cancelRequest(params protocol.CancelParams) error {
	log.Debugf("cancel request %v", params.ID.Value)
	return nil
}

// didChangeWatchedFiles handles workspace/didChangeWatchedFiles. The VFS only
// holds documents the client has open, so on-disk changes leave it untouched.
func (h *handler) didChangeWatchedFiles(params protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		log.Debugf("watched file %s changed (type %d)", change.URI, change.Type)
	}

	return nil
}
