package lsp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestParseFilePath(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		nonFile bool
		wantErr bool
	}{
		{uri: "file:///work/main.akk", want: "/work/main.akk"},
		{uri: "file:///work/with%20space.akk", want: "/work/with space.akk"},
		{uri: "file:///%C3%BCber.akk", want: "/über.akk"},
		{uri: "untitled:Untitled-1", nonFile: true, wantErr: true},
		{uri: "git:/work/main.akk", nonFile: true, wantErr: true},
		{uri: "https://example.com/main.akk", nonFile: true, wantErr: true},
		{uri: "/work/main.akk", nonFile: true, wantErr: true},
		{uri: "file://", wantErr: true},
		{uri: "::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseFilePath(tt.uri)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.nonFile, errors.Is(err, ErrNonFileURI))
		})
	}
}

func TestRootPath(t *testing.T) {
	str := func(s string) *string { return &s }

	root, ok := rootPath(&protocol.InitializeParams{RootPath: str("/a"), RootURI: str("file:///b")})
	assert.True(t, ok)
	assert.Equal(t, "/a", root)

	root, ok = rootPath(&protocol.InitializeParams{RootURI: str("file:///b")})
	assert.True(t, ok)
	assert.Equal(t, "/b", root)

	_, ok = rootPath(&protocol.InitializeParams{RootURI: str("untitled:b")})
	assert.False(t, ok)

	_, ok = rootPath(&protocol.InitializeParams{})
	assert.False(t, ok)
}
