package tool

import "sort"

// Catalog is an immutable snapshot of the tools visible to one agent
// step (SPEC_FULL.md §4.6 Design Notes §9 "Dynamic tool catalogs": a
// snapshot taken once per step, never the live registry, so a
// concurrent registration cannot change the tool set mid-step).
type Catalog struct {
	tools map[string]CallableTool
}

// NewCatalog snapshots the given tools by name.
func NewCatalog(tools ...CallableTool) Catalog {
	m := make(map[string]CallableTool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return Catalog{tools: m}
}

// Get looks up a tool by name within this snapshot.
func (c Catalog) Get(name string) (CallableTool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Names returns the snapshot's tool names, sorted for deterministic
// iteration (e.g. when rendering a tool list in a prompt).
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many tools this snapshot holds.
func (c Catalog) Len() int {
	return len(c.tools)
}

// All returns every tool in the snapshot, ordered by name for
// deterministic iteration.
func (c Catalog) All() []CallableTool {
	names := c.Names()
	out := make([]CallableTool, len(names))
	for i, name := range names {
		out[i] = c.tools[name]
	}
	return out
}
