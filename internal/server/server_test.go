package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkadia-lang/akkadia-ls/internal/vfs"
)

func TestNew_Defaults(t *testing.T) {
	srv := New(Config{})

	assert.Equal(t, DefaultMaxCompletionItems, srv.Config().MaxCompletionItems)
	assert.False(t, srv.IsShutDown())
	assert.False(t, srv.ExitRequested())
	assert.NotNil(t, srv.CompletionCache())

	assert.Equal(t, 5, New(Config{MaxCompletionItems: 5}).Config().MaxCompletionItems)
}

func TestServer_ExitCode(t *testing.T) {
	srv := New(Config{})
	srv.RequestExit()

	assert.True(t, srv.ExitRequested())
	assert.Equal(t, 1, srv.ExitCode(), "exit without shutdown")

	srv = New(Config{})
	srv.SetShutDown()
	srv.SetShutDown()
	srv.RequestExit()

	assert.True(t, srv.IsShutDown())
	assert.Equal(t, 0, srv.ExitCode())
}

func TestActionContext_Init(t *testing.T) {
	fs := vfs.NewMemory()
	ctx := NewActionContext(fs)

	assert.False(t, ctx.IsInitialized())
	assert.Same(t, fs, ctx.VFS())

	inited := ctx.Init("/work", InitializationOptions{OmitInitBuild: true})
	require.NotNil(t, inited)

	assert.True(t, ctx.IsInitialized())
	assert.Same(t, inited, ctx.Inited())
	assert.Equal(t, "/work", inited.WorkspaceRoot)
	assert.True(t, inited.Options.OmitInitBuild)
	assert.Same(t, fs, ctx.VFS())
}

func TestActionContext_Violations(t *testing.T) {
	t.Run("inited before init", func(t *testing.T) {
		ctx := NewActionContext(vfs.NewMemory())

		assertViolation(t, func() { ctx.Inited() })
	})

	t.Run("double init", func(t *testing.T) {
		ctx := NewActionContext(vfs.NewMemory())
		ctx.Init("/a", InitializationOptions{})

		assertViolation(t, func() { ctx.Init("/b", InitializationOptions{}) })
		assert.Equal(t, "/a", ctx.Inited().WorkspaceRoot)
	})
}

func assertViolation(t *testing.T, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")

		violation, ok := r.(*ContractViolation)
		require.True(t, ok, "panic value %T is not a contract violation", r)
		assert.Contains(t, violation.Error(), "contract violation")
	}()

	fn()
}

func TestCompletionCache(t *testing.T) {
	cache := NewCompletionCache()

	_, ok := cache.Words("/a.akk")
	assert.False(t, ok)

	cache.SetWords("/a.akk", []string{"alpha", "beta"})
	cache.SetWords("/b.akk", nil)

	words, ok := cache.Words("/a.akk")
	assert.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, words)
	assert.Equal(t, 2, cache.Len())

	cache.Invalidate("/a.akk")
	cache.Invalidate("/missing.akk")

	_, ok = cache.Words("/a.akk")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestCompletionCache_Concurrent(t *testing.T) {
	cache := NewCompletionCache()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			path := fmt.Sprintf("/f%d.akk", i)
			cache.SetWords(path, []string{path})
			cache.Words(path)
		}()
	}

	wg.Wait()

	assert.Equal(t, 10, cache.Len())
}
