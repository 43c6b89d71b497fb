package lsp

import (
	"slices"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/akkadia-lang/akkadia-ls/internal/document"
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

// completion handles the textDocument/completion request.
// Candidates are the identifiers already used in the document that extend
// the identifier being typed. The result is always a list, possibly empty.
func (h *handler) completion(_ jsonrpc2.ID, params protocol.CompletionParams) ([]protocol.CompletionItem, error) {
	inited := h.ctx.Inited()
	items := []protocol.CompletionItem{}

	path, ok := h.filePath(protocol.MethodTextDocumentCompletion, params.TextDocument.URI)
	if !ok {
		return items, nil
	}

	line, err := inited.VFS.LoadLine(path, int(params.Position.Line))
	if err != nil {
		log.Debugf("no completions for %s: %v", path, err)
		return items, nil
	}

	runes := []rune(line)
	col := document.UTF16ToRuneIndex(line, int(params.Position.Character))
	start, end := document.FindWordAtPos(line, col)
	prefix := string(runes[start:col])
	current := string(runes[start:end])

	words, err := h.documentWords(inited.VFS, path)
	if err != nil {
		log.Debugf("no completions for %s: %v", path, err)
		return items, nil
	}

	kind := protocol.CompletionItemKindText

	for _, word := range words {
		if word == current || !strings.HasPrefix(word, prefix) {
			continue
		}

		items = append(items, protocol.CompletionItem{
			Label: word,
			Kind:  &kind,
		})
	}

	slices.SortFunc(items, func(a, b protocol.CompletionItem) int {
		return strings.Compare(a.Label, b.Label)
	})

	if limit := h.srv.Config().MaxCompletionItems; len(items) > limit {
		items = items[:limit]
	}

	log.Debugf("%d completions for %q in %s (workspace %s)", len(items), prefix, path, inited.WorkspaceRoot)

	return items, nil
}

// documentWords returns the identifiers of path, using the completion cache
// when the document has not changed since they were collected.
func (h *handler) documentWords(fs vfs.FileSystem, path string) ([]string, error) {
	cache := h.srv.CompletionCache()

	if words, ok := cache.Words(path); ok {
		return words, nil
	}

	text, err := fs.LoadFile(path)
	if err != nil {
		return nil, err
	}

	words := document.Words(text)
	cache.SetWords(path, words)

	return words, nil
}

// completionItemResolve handles the completionItem/resolve request. Items are
// complete when first sent, so they are returned as is.
func (h *handler) completionItemResolve(_ jsonrpc2.ID, item protocol.CompletionItem) (protocol.CompletionItem, error) {
	return item, nil
}
