package knowledge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(Item{
		ID: "git-commit", Scope: ScopeCoding, Category: CategoryBestPractice,
		Content: "Write small, focused commits.", Triggers: []string{"commit", "git"},
		Priority: 5, Enabled: true,
	}))
	require.NoError(t, r.Register(Item{
		ID: "browser-wait", Scope: ScopeBrowser, Category: CategoryTip,
		Content: "Wait for network idle before reading DOM.", Triggers: []string{"screenshot"},
		Priority: 10, Enabled: true,
	}))
	require.NoError(t, r.Register(Item{
		ID: "disabled-item", Scope: ScopeGeneral, Category: CategoryWarning,
		Content: "Should never appear.", Triggers: []string{"anything"},
		Priority: 100, Enabled: false,
	}))
	return r
}

func TestRelevantMatchesByTrigger(t *testing.T) {
	r := newTestRegistry(t)
	items := r.Relevant("please commit this change", nil)
	require.Len(t, items, 1)
	require.Equal(t, "git-commit", items[0].ID)
}

func TestRelevantMatchesByActiveToolScope(t *testing.T) {
	r := newTestRegistry(t)
	items := r.Relevant("no keyword here", []string{"browser_use"})
	require.Len(t, items, 1)
	require.Equal(t, "browser-wait", items[0].ID)
}

func TestRelevantExcludesDisabled(t *testing.T) {
	r := newTestRegistry(t)
	items := r.Relevant("anything goes", nil)
	for _, it := range items {
		require.NotEqual(t, "disabled-item", it.ID)
	}
}

func TestRelevantSortedByPriorityDescending(t *testing.T) {
	r := newTestRegistry(t)
	items := r.Relevant("commit", []string{"browser_use"})
	require.Len(t, items, 2)
	require.Equal(t, "browser-wait", items[0].ID)
	require.Equal(t, "git-commit", items[1].ID)
}

func TestRelevantDeterministicOrderInsensitiveInTools_L3(t *testing.T) {
	r := newTestRegistry(t)
	a := r.Relevant("commit", []string{"browser_use", "shell"})
	b := r.Relevant("commit", []string{"shell", "browser_use"})
	require.Equal(t, a, b)
}

func TestRelevantTruncatesToMaxInjections(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 10; i++ {
		require.NoError(t, r.Register(Item{
			ID: string(rune('a' + i)), Scope: ScopeGeneral, Triggers: []string{"x"},
			Priority: i, Enabled: true,
		}))
	}
	items := r.Relevant("x", nil)
	require.Len(t, items, DefaultMaxInjections)
}

func TestToolScopeDetect(t *testing.T) {
	scopes := ToolScopeDetect([]string{"bash_exec", "file_read"})
	require.True(t, scopes[ScopeShell])
	require.True(t, scopes[ScopeFileOps])
	require.False(t, scopes[ScopeBrowser])
}

func TestUnregisterRemovesItem(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Unregister("git-commit"))
	items := r.Relevant("commit", nil)
	require.Empty(t, items)
	require.Error(t, r.Unregister("git-commit"))
}
