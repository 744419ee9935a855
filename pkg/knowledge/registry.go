package knowledge

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultMaxInjections caps how many relevant items are surfaced per
// call to Relevant (spec §4.3).
const DefaultMaxInjections = 5

// Registry is the read-mostly Knowledge Registry. Writes (Register /
// Unregister) happen only at initialization or via explicit calls,
// serialized by an exclusive section (spec §5); Relevant is safe to call
// concurrently with other reads.
type Registry struct {
	mu              sync.RWMutex
	items           map[string]Item
	maxInjections   int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Item), maxInjections: DefaultMaxInjections}
}

// Register adds or replaces an item by id.
func (r *Registry) Register(item Item) error {
	if item.ID == "" {
		return fmt.Errorf("knowledge: item id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// Unregister removes an item by id.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("knowledge: item %q not found", id)
	}
	delete(r.items, id)
	return nil
}

// ToolScopeDetect maps tool names to the scopes they activate, per the
// canonical substring table in §4.3.
func ToolScopeDetect(tools []string) map[Scope]bool {
	out := make(map[Scope]bool)
	for _, t := range tools {
		lower := strings.ToLower(t)
		for scope, substrings := range scopeToolSubstrings {
			for _, sub := range substrings {
				if strings.Contains(lower, sub) {
					out[scope] = true
					break
				}
			}
		}
	}
	return out
}

// Relevant implements §4.3's relevant(): an item matches when enabled AND
// (a trigger keyword appears in context case-insensitively, OR an active
// tool's scope intersects the item's scope). Matches are sorted by
// descending priority and truncated to maxInjections. Order of `tools`
// does not affect the result (L3).
func (r *Registry) Relevant(context string, activeTools []string, scopes ...Scope) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowerContext := strings.ToLower(context)
	activeScopes := ToolScopeDetect(activeTools)
	var scopeFilter map[Scope]bool
	if len(scopes) > 0 {
		scopeFilter = make(map[Scope]bool, len(scopes))
		for _, s := range scopes {
			scopeFilter[s] = true
		}
	}

	var matches []Item
	for _, item := range r.items {
		if !item.Enabled {
			continue
		}
		if scopeFilter != nil && !scopeFilter[item.Scope] {
			continue
		}
		if !r.matches(item, lowerContext, activeScopes) {
			continue
		}
		matches = append(matches, item)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].ID < matches[j].ID
	})

	max := r.maxInjections
	if max <= 0 || max > len(matches) {
		max = len(matches)
	}
	return matches[:max]
}

func (r *Registry) matches(item Item, lowerContext string, activeScopes map[Scope]bool) bool {
	for _, trigger := range item.Triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(lowerContext, strings.ToLower(trigger)) {
			return true
		}
	}
	return activeScopes[item.Scope]
}

// Count returns the number of registered items (any enabled state).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
