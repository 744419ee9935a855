package assembler

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultErrorRingCap is the ring's storage cap (spec §4.5d default 10).
const DefaultErrorRingCap = 10

// DefaultErrorThreshold is how many of the most recent errors are shown
// in the rendered block (spec §4.5d default 5).
const DefaultErrorThreshold = 5

type errorEntry struct {
	Tool  string
	Error string
}

// errorRing is a bounded FIFO of tool failures, rendered as the
// `[PREVIOUS ERRORS — Avoid repeating these mistakes:]` block.
type errorRing struct {
	mu        sync.Mutex
	entries   []errorEntry
	cap       int
	threshold int
}

func newErrorRing(cap, threshold int) *errorRing {
	if cap <= 0 {
		cap = DefaultErrorRingCap
	}
	if threshold <= 0 {
		threshold = DefaultErrorThreshold
	}
	return &errorRing{cap: cap, threshold: threshold}
}

// record appends an error, evicting the oldest entry once the ring is
// at capacity. Errors are preserved verbatim (spec §4.5d).
func (r *errorRing) record(tool, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, errorEntry{Tool: tool, Error: errMsg})
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
}

func (r *errorRing) render() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return ""
	}

	start := 0
	if len(r.entries) > r.threshold {
		start = len(r.entries) - r.threshold
	}

	var b strings.Builder
	b.WriteString("[PREVIOUS ERRORS — Avoid repeating these mistakes:]\n")
	for _, e := range r.entries[start:] {
		fmt.Fprintf(&b, "- %s: %s\n", e.Tool, e.Error)
	}
	return strings.TrimRight(b.String(), "\n")
}
