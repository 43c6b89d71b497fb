// Package vfs holds the authoritative in-memory text of the documents the
// client has opened and applies the client's edits to it.
package vfs

import (
	"errors"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	// ErrFileNotFound is returned for paths the VFS holds no text for.
	ErrFileNotFound = errors.New("file not found in vfs")

	// ErrLineOutOfRange is returned by LoadLine for rows past the end of the file.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrLengthMismatch is returned when an edit's expected length does not
	// match the text it replaces.
	ErrLengthMismatch = errors.New("replaced text length mismatch")
)

// FileSystem is the document storage the language server edits through.
// Implementations must be safe for concurrent use.
type FileSystem interface {
	// SetFile installs text as the full contents of path.
	SetFile(path, text string)

	// OnChanges applies a batch of changes atomically: either every change
	// is committed or none is.
	OnChanges(changes []Change) error

	// FileSaved marks path as saved.
	FileSaved(path string) error

	// LoadFile returns the current contents of path.
	LoadFile(path string) (string, error)

	// LoadLine returns row (zero-indexed) of path without its line terminator.
	LoadLine(path string, row int) (string, error)
}

// Change is one edit in a batch passed to OnChanges.
type Change interface {
	// File returns the path the change applies to.
	File() string

	isChange()
}

// ReplaceText replaces the text covered by Range. Len, when set, is the
// expected length in UTF-16 code units of the text being replaced.
type ReplaceText struct {
	Path  string
	Range protocol.Range
	Len   *uint32
	Text  string
}

// AddFile replaces the whole contents of Path, creating it if needed.
type AddFile struct {
	Path string
	Text string
}

func (c ReplaceText) File() string { return c.Path }
func (c AddFile) File() string     { return c.Path }

func (ReplaceText) isChange() {}
func (AddFile) isChange()     {}
