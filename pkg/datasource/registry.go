package datasource

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultLimit is find_relevant's default result cap (spec §4.4).
const DefaultLimit = 3

// Registry is the read-mostly Datasource Registry.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Datasource
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Datasource)}
}

// Register adds or replaces a datasource by id.
func (r *Registry) Register(d Datasource) error {
	if d.ID == "" {
		return fmt.Errorf("datasource: id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.ID] = d
	return nil
}

// Unregister removes a datasource by id.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("datasource: %q not found", id)
	}
	delete(r.items, id)
	return nil
}

// Get returns a datasource by id.
func (r *Registry) Get(id string) (Datasource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	return d, ok
}

// IncrementUsage bumps a datasource's usage_count, maintained under the
// same exclusion as structural writes (spec "Shared resources").
func (r *Registry) IncrementUsage(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return fmt.Errorf("datasource: %q not found", id)
	}
	d.usageCount++
	r.items[id] = d
	return nil
}

// FindRelevant implements §4.4's find_relevant: boolean OR across name
// substring, any tag substring, any endpoint description substring (all
// case-insensitive), restricted to enabled sources. Ties break by
// descending priority, then descending usage_count, then ascending id.
func (r *Registry) FindRelevant(query string, limit int) []Datasource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultLimit
	}
	q := strings.ToLower(query)

	var matches []Datasource
	for _, d := range r.items {
		if !d.Enabled {
			continue
		}
		if matchesQuery(d, q) {
			matches = append(matches, d)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		if matches[i].usageCount != matches[j].usageCount {
			return matches[i].usageCount > matches[j].usageCount
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > len(matches) {
		limit = len(matches)
	}
	return matches[:limit]
}

func matchesQuery(d Datasource, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(d.Name), lowerQuery) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	for _, ep := range d.Endpoints {
		if strings.Contains(strings.ToLower(ep.Description), lowerQuery) {
			return true
		}
	}
	return false
}

// Count returns the number of registered datasources.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
