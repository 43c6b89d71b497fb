package vfs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/akkadia-lang/akkadia-ls/internal/document"
)

type file struct {
	text  string
	dirty bool
}

// Memory is an in-memory FileSystem.
type Memory struct {
	files map[string]*file
	mu    sync.RWMutex
}

// NewMemory creates an empty in-memory file system.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string]*file),
	}
}

// SetFile stores or replaces a file.
func (m *Memory) SetFile(path, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = &file{text: text}
}

// OnChanges applies changes in order. The batch is applied to copies of the
// affected files and committed only when every change succeeded.
func (m *Memory) OnChanges(changes []Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := make(map[string]string)

	for i, change := range changes {
		path := change.File()

		switch c := change.(type) {
		case AddFile:
			pending[path] = c.Text

		case ReplaceText:
			text, ok := pending[path]
			if !ok {
				f, exists := m.files[path]
				if !exists {
					return fmt.Errorf("change %d: %s: %w", i, path, ErrFileNotFound)
				}

				text = f.text
			}

			if c.Len != nil {
				n, err := document.RangeLength(text, c.Range)
				if err != nil {
					return fmt.Errorf("change %d: %s: %w", i, path, err)
				}

				if n != int(*c.Len) {
					return fmt.Errorf("change %d: %s: expected %d, found %d: %w", i, path, *c.Len, n, ErrLengthMismatch)
				}
			}

			updated, err := document.ApplyEdit(text, c.Range, c.Text)
			if err != nil {
				return fmt.Errorf("change %d: %s: %w", i, path, err)
			}

			pending[path] = updated

		default:
			return fmt.Errorf("change %d: unsupported change type %T", i, change)
		}
	}

	for path, text := range pending {
		m.files[path] = &file{text: text, dirty: true}
	}

	return nil
}

// FileSaved clears the dirty flag of path.
func (m *Memory) FileSaved(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}

	f.dirty = false

	return nil
}

// LoadFile returns the text of path.
func (m *Memory) LoadFile(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}

	return f.text, nil
}

// LoadLine returns a single line of path. A trailing carriage return is
// stripped.
func (m *Memory) LoadLine(path string, row int) (string, error) {
	text, err := m.LoadFile(path)
	if err != nil {
		return "", err
	}

	lines := strings.Split(text, "\n")
	if row < 0 || row >= len(lines) {
		return "", fmt.Errorf("%s: row %d of %d: %w", path, row, len(lines), ErrLineOutOfRange)
	}

	return strings.TrimSuffix(lines[row], "\r"), nil
}

// IsDirty reports whether path has changes that were not followed by a save.
func (m *Memory) IsDirty(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]

	return ok && f.dirty
}

// List returns all paths held by the file system.
func (m *Memory) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}

	return paths
}
