// Package knowledge implements the Knowledge Registry (component C3):
// an indexed collection of best-practice items, returning those matching
// a context and active-tool set, ranked by priority.
//
// Grounded on github.com/kadirpekel/hector's pkg/registry generic
// BaseRegistry[T] (a name-keyed map behind a RWMutex) for the
// register/unregister/list mechanics, specialized here to Item's
// relevance-matching semantics instead of hector's plain get-by-name.
package knowledge

// Scope is the domain an Item applies to (spec §3).
type Scope string

const (
	ScopeBrowser       Scope = "browser"
	ScopeCoding        Scope = "coding"
	ScopeDataAnalysis  Scope = "data-analysis"
	ScopeFileOps       Scope = "file-ops"
	ScopeSearch        Scope = "search"
	ScopeAPI           Scope = "api"
	ScopeShell         Scope = "shell"
	ScopeGeneral       Scope = "general"
)

// Category classifies an Item's purpose.
type Category string

const (
	CategoryBestPractice Category = "best-practice"
	CategoryWarning      Category = "warning"
	CategoryReference    Category = "reference"
	CategoryTip          Category = "tip"
	CategoryConstraint   Category = "constraint"
)

// Item is one best-practice entry (spec §3 Knowledge Item).
type Item struct {
	ID         string
	Scope      Scope
	Category   Category
	Content    string
	Triggers   []string
	Conditions []string
	Priority   int
	Enabled    bool
}

// scopeToolSubstrings is the canonical scope-to-tool mapping from §4.3.
var scopeToolSubstrings = map[Scope][]string{
	ScopeBrowser:      {"browser", "browser_use", "web"},
	ScopeCoding:       {"python", "code", "execute"},
	ScopeDataAnalysis: {"pandas", "data", "analyze"},
	ScopeFileOps:      {"file", "read", "write", "edit"},
	ScopeSearch:       {"search", "google", "bing"},
	ScopeAPI:          {"api", "http", "request"},
	ScopeShell:        {"bash", "shell", "terminal"},
}
