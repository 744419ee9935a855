package assembler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// maskSet tracks which tools are currently masked and renders the
// `[UNAVAILABLE TOOLS — Do not attempt to use:]` block (spec §4.5b).
type maskSet struct {
	mu    sync.RWMutex
	masks map[string]ToolMask
}

func newMaskSet() *maskSet {
	return &maskSet{masks: make(map[string]ToolMask)}
}

func (m *maskSet) mask(tool, reason string, conditions ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masks[tool] = ToolMask{State: ToolMasked, Reason: reason, Conditions: conditions}
}

func (m *maskSet) unmask(tool string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.masks, tool)
}

func (m *maskSet) isMasked(tool string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mk, ok := m.masks[tool]
	return ok && mk.State == ToolMasked
}

// render emits the masked-tools block, outside the stable prefix region
// so masking never invalidates the prompt cache (I7). Tools are listed
// lexicographically for determinism.
func (m *maskSet) render() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.masks) == 0 {
		return ""
	}

	names := make([]string, 0, len(m.masks))
	for name := range m.masks {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("[UNAVAILABLE TOOLS — Do not attempt to use:]\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s (%s)\n", name, m.masks[name].Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}
