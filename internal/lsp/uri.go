package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrNonFileURI is returned for document URIs outside the file scheme.
var ErrNonFileURI = errors.New("non-file URI scheme")

// parseFilePath converts a file:// URI into an OS-specific absolute path.
func parseFilePath(uri protocol.DocumentUri) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI %q: %w", uri, err)
	}

	if parsed.Scheme != "file" {
		return "", fmt.Errorf("%w: %q", ErrNonFileURI, uri)
	}

	path := parsed.Path
	if path == "" {
		path = parsed.Opaque
	}

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "/") && len(path) >= 3 && path[2] == ':' {
			path = path[1:]
		}
	}

	if path == "" {
		return "", fmt.Errorf("empty path in URI %q", uri)
	}

	return filepath.FromSlash(path), nil
}

// rootPath picks the workspace root from initialize params: rootPath when
// present, otherwise rootUri.
func rootPath(params *protocol.InitializeParams) (string, bool) {
	if params.RootPath != nil && *params.RootPath != "" {
		return *params.RootPath, true
	}

	if params.RootURI != nil {
		if path, err := parseFilePath(*params.RootURI); err == nil {
			return path, true
		}
	}

	return "", false
}
