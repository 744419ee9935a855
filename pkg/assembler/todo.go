package assembler

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultUpdateFrequency is the default recitation cadence in steps
// (spec §4.5c).
const DefaultUpdateFrequency = 3

// maxRecitationItems caps how many remaining items the recitation block
// names by description, per spec §4.5c ("up to the next three items").
const maxRecitationItems = 3

// todoRecitation tracks the plan's remaining/completed items and emits
// a `[CURRENT PROGRESS]` block every updateFrequency steps.
type todoRecitation struct {
	mu              sync.Mutex
	remaining       []string
	completed       []string
	updateFrequency int
	lastUpdated     time.Time
}

func newTodoRecitation(updateFrequency int) *todoRecitation {
	if updateFrequency <= 0 {
		updateFrequency = DefaultUpdateFrequency
	}
	return &todoRecitation{updateFrequency: updateFrequency}
}

func (t *todoRecitation) update(remaining, completed []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
	t.completed = completed
	t.lastUpdated = time.Now()
}

// render returns the recitation block and whether step is a cadence
// step (a positive multiple of updateFrequency).
func (t *todoRecitation) render(step int) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if step <= 0 || step%t.updateFrequency != 0 {
		return "", false
	}

	total := len(t.remaining) + len(t.completed)
	pct := float64(0)
	if total > 0 {
		pct = float64(len(t.completed)) / float64(total) * 100
	}

	upcoming := t.remaining
	if len(upcoming) > maxRecitationItems {
		upcoming = upcoming[:maxRecitationItems]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[CURRENT PROGRESS]\n")
	fmt.Fprintf(&b, "%d remaining, %.0f%% complete\n", len(t.remaining), pct)
	for _, desc := range upcoming {
		fmt.Fprintf(&b, "- %s\n", desc)
	}
	return strings.TrimRight(b.String(), "\n"), true
}
