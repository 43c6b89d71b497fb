package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/akkadia-lang/akkadia-ls/internal/server"
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

// didOpen handles the textDocument/didOpen notification. Like the other
// document-sync actions it requires an initialized context.
func (h *handler) didOpen(params protocol.DidOpenTextDocumentParams) error {
	inited := h.ctx.Inited()

	path, ok := h.filePath(protocol.MethodTextDocumentDidOpen, params.TextDocument.URI)
	if !ok {
		return nil
	}

	inited.VFS.SetFile(path, params.TextDocument.Text)
	h.srv.CompletionCache().Invalidate(path)

	log.Debugf("opened %s (version %d, %d bytes)", path, params.TextDocument.Version, len(params.TextDocument.Text))

	return nil
}

// didChange handles the textDocument/didChange notification. All content
// changes of one notification are committed as a single batch.
func (h *handler) didChange(params protocol.DidChangeTextDocumentParams) error {
	inited := h.ctx.Inited()

	path, ok := h.filePath(protocol.MethodTextDocumentDidChange, params.TextDocument.URI)
	if !ok {
		return nil
	}

	changes := make([]vfs.Change, 0, len(params.ContentChanges))

	for i, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				changes = append(changes, vfs.AddFile{Path: path, Text: c.Text})
				continue
			}

			changes = append(changes, vfs.ReplaceText{
				Path:  path,
				Range: *c.Range,
				Len:   c.RangeLength,
				Text:  c.Text,
			})

		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, vfs.AddFile{Path: path, Text: c.Text})

		default:
			return fmt.Errorf("content change %d of %s has unexpected type %T", i, path, change)
		}
	}

	if err := inited.VFS.OnChanges(changes); err != nil {
		server.Violate("could not commit changes to %s: %v", path, err)
	}

	h.srv.CompletionCache().Invalidate(path)

	log.Debugf("changed %s (version %d, %d changes)", path, params.TextDocument.Version, len(changes))

	return nil
}

// didSave handles the textDocument/didSave notification.
func (h *handler) didSave(params protocol.DidSaveTextDocumentParams) error {
	inited := h.ctx.Inited()

	path, ok := h.filePath(protocol.MethodTextDocumentDidSave, params.TextDocument.URI)
	if !ok {
		return nil
	}

	if err := inited.VFS.FileSaved(path); err != nil {
		server.Violate("could not mark %s saved: %v", path, err)
	}

	h.srv.CompletionCache().Invalidate(path)

	log.Debugf("saved %s", path)

	return nil
}

// filePath resolves a document URI. URIs that are not file paths are logged
// and reported as not ok so the caller can ignore the message.
func (h *handler) filePath(method string, uri protocol.DocumentUri) (string, bool) {
	path, err := parseFilePath(uri)
	if err != nil {
		log.Warningf("%s: ignoring %s: %v", method, uri, err)
		return "", false
	}

	return path, true
}
