package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name string
}

func (s stubTool) Name() string        { return s.name }
func (s stubTool) Description() string { return "stub" }
func (s stubTool) Schema() map[string]any { return nil }
func (s stubTool) Timeout() time.Duration { return time.Second }
func (s stubTool) Call(ctx context.Context, args map[string]any) (Result, error) {
	return Result{Output: "ok"}, nil
}

func TestCatalogSnapshotIsIsolated(t *testing.T) {
	a := stubTool{name: "list_files"}
	cat := NewCatalog(a)

	found, ok := cat.Get("list_files")
	require.True(t, ok)
	require.Equal(t, "list_files", found.Name())

	_, ok = cat.Get("not_registered")
	require.False(t, ok)
}

func TestCatalogNamesSorted(t *testing.T) {
	cat := NewCatalog(stubTool{name: "zeta"}, stubTool{name: "alpha"})
	require.Equal(t, []string{"alpha", "zeta"}, cat.Names())
}

func TestResultFailed(t *testing.T) {
	require.True(t, Result{Error: "boom"}.Failed())
	require.False(t, Result{Output: "ok"}.Failed())
}
