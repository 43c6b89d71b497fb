package server

import (
	"sync"
)

// CompletionCache caches the identifiers found in each file so completion
// does not rescan unchanged text. Document-sync actions invalidate entries.
type CompletionCache struct {
	words map[string][]string

	mu sync.RWMutex
}

// NewCompletionCache creates an empty completion cache.
func NewCompletionCache() *CompletionCache {
	return &CompletionCache{
		words: make(map[string][]string),
	}
}

// Words returns the cached identifiers of path.
func (c *CompletionCache) Words(path string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	words, ok := c.words[path]

	return words, ok
}

// SetWords caches the identifiers of path.
func (c *CompletionCache) SetWords(path string, words []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.words[path] = words
}

// Invalidate drops the entry for path.
func (c *CompletionCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.words, path)
}

// Len returns the number of cached files.
func (c *CompletionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.words)
}
