package server

import (
	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

// InitializationOptions are the client options sent with initialize.
type InitializationOptions struct {
	// OmitInitBuild skips the build normally started after initialization.
	// Reserved: no build is started yet, so it is only recorded and logged.
	OmitInitBuild bool `json:"omitInitBuild"`
}

// ActionContext is the context every action runs in. It is either
// uninitialized or initialized, and moves from the first to the second
// exactly once.
type ActionContext struct {
	state contextState
}

type contextState interface {
	fileSystem() vfs.FileSystem
}

// UninitContext is the context before a successful initialize.
type UninitContext struct {
	VFS vfs.FileSystem
}

// InitContext is the context after a successful initialize.
type InitContext struct {
	VFS vfs.FileSystem

	// WorkspaceRoot is the root the client opened, as a file system path
	WorkspaceRoot string

	Options InitializationOptions
}

func (c *UninitContext) fileSystem() vfs.FileSystem { return c.VFS }
func (c *InitContext) fileSystem() vfs.FileSystem   { return c.VFS }

// NewActionContext creates an uninitialized context over fs.
func NewActionContext(fs vfs.FileSystem) *ActionContext {
	return &ActionContext{state: &UninitContext{VFS: fs}}
}

// Init moves the context to the initialized state. Initializing twice is a
// contract violation.
func (c *ActionContext) Init(root string, options InitializationOptions) *InitContext {
	uninit, ok := c.state.(*UninitContext)
	if !ok {
		Violate("initialize called on an already initialized context")
	}

	inited := &InitContext{
		VFS:           uninit.VFS,
		WorkspaceRoot: root,
		Options:       options,
	}
	c.state = inited

	log.Infof("initialized with workspace root %s (omitInitBuild %t)", root, options.OmitInitBuild)

	return inited
}

// Inited returns the initialized context. Calling it before initialize is a
// contract violation.
func (c *ActionContext) Inited() *InitContext {
	inited, ok := c.state.(*InitContext)
	if !ok {
		Violate("context used before initialize")
	}

	return inited
}

// IsInitialized reports whether initialize has completed.
func (c *ActionContext) IsInitialized() bool {
	_, ok := c.state.(*InitContext)
	return ok
}

// VFS returns the file system, available in either state.
func (c *ActionContext) VFS() vfs.FileSystem {
	return c.state.fileSystem()
}
