package plan

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kadirpekel/agentcore/pkg/event"
)

// DefaultMaxHistory bounds the archived-plan history (spec §8 Open
// Question: the source grows plan history unboundedly; this module
// caps it, see SPEC_FULL.md §4.2).
const DefaultMaxHistory = 50

// failureLexemes drives should_replan (§4.2), matched case-insensitively
// as substrings of the observation text.
var failureLexemes = []string{"error", "failed", "unable", "cannot", "blocked"}

// Store holds the current plan and its history. It is owned exclusively
// by the agent loop (§3 Ownership); the mutex exists so tests and
// metrics collectors can read Current concurrently with a run.
type Store struct {
	mu             sync.RWMutex
	current        *Plan
	history        []*Plan
	maxHistory     int
	replanOnError  bool
	planner        *Planner
	now            func() time.Time
}

// NewStore creates an empty Store bound to a Planner. replanOnError
// gates should_replan per spec §4.2.
func NewStore(planner *Planner, replanOnError bool) *Store {
	return &Store{
		planner:       planner,
		replanOnError: replanOnError,
		maxHistory:    DefaultMaxHistory,
		now:           time.Now,
	}
}

// Create builds a fresh Plan from explicit steps (used when the caller
// already has a plan, e.g. tests) with all steps Pending, current_index
// 0, first step InProgress.
func (s *Store) Create(title, objective string, steps []string) *Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.planner.build(title, objective, steps)
	s.current = p
	return p
}

// Plan runs the full LLM-backed planning subroutine and installs the
// result as the current plan.
func (s *Store) Plan(ctx context.Context, request, extraContext string) (*Plan, error) {
	p, err := s.planner.Create(ctx, request, extraContext)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return p, nil
}

// Current returns the current plan, or nil if none exists yet.
func (s *Store) Current() *Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// History returns archived plans, oldest first.
func (s *Store) History() []*Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Plan, len(s.history))
	copy(out, s.history)
	return out
}

// Advance marks the current step Completed (if not already terminal),
// moves to the next step, and sets it InProgress. Returns the newly
// current step, or nil if the plan is now complete. A zero-step plan
// completes immediately (spec §8 boundary behavior).
func (s *Store) Advance() (*Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.current
	if p == nil {
		return nil, fmt.Errorf("plan: advance called with no current plan")
	}
	if len(p.Steps) == 0 {
		p.Complete = true
		p.CurrentIndex = 0
		return nil, nil
	}

	cur := &p.Steps[p.CurrentIndex]
	if !terminal(cur.Status) {
		cur.Status = event.StepCompleted
		completed := s.now()
		cur.CompletedAt = &completed
	}

	next := p.CurrentIndex + 1
	p.UpdatedAt = s.now()
	if next >= len(p.Steps) {
		p.Complete = true
		p.CurrentIndex = len(p.Steps)
		if err := p.validate(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	p.CurrentIndex = next
	started := s.now()
	p.Steps[next].Status = event.StepInProgress
	p.Steps[next].StartedAt = &started
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p.Steps[next], nil
}

// SetStatus performs a direct status transition on step i, honoring the
// state-machine constraints in spec §3. Fails on an illegal transition.
func (s *Store) SetStatus(i int, status event.StepStatus, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.current
	if p == nil {
		return fmt.Errorf("plan: set_status called with no current plan")
	}
	if i < 0 || i >= len(p.Steps) {
		return fmt.Errorf("plan: step index %d out of range", i)
	}
	step := &p.Steps[i]
	if !validTransition(step.Status, status) {
		return fmt.Errorf("plan: illegal transition for step %d: %s -> %s", i, step.Status, status)
	}

	if status == event.StepInProgress {
		for j := range p.Steps {
			if j != i && p.Steps[j].Status == event.StepInProgress {
				return fmt.Errorf("plan: step %d is already in progress", j)
			}
		}
		started := s.now()
		step.StartedAt = &started
	}
	if status == event.StepCompleted || status == event.StepSkipped {
		completed := s.now()
		step.CompletedAt = &completed
	}
	step.Status = status
	if notes != "" {
		step.Notes = notes
	}
	p.UpdatedAt = s.now()
	return p.validate()
}

// ShouldReplan implements spec §4.2: true when replan_on_error is set
// and the observation contains any failure lexeme, case-insensitively.
func (s *Store) ShouldReplan(observationText string) bool {
	if !s.replanOnError {
		return false
	}
	lower := strings.ToLower(observationText)
	for _, lex := range failureLexemes {
		if strings.Contains(lower, lex) {
			return true
		}
	}
	return false
}

// Replan archives the current plan (marking it complete), runs the
// planning subroutine with reason+context folded in, installs the
// result as current, and records both old and new plans in history
// (I8). History is capped at maxHistory, oldest-archived evicted first.
func (s *Store) Replan(ctx context.Context, reason, extraContext string, request string) (*Plan, error) {
	s.mu.Lock()
	old := s.current
	s.mu.Unlock()

	fullContext := extraContext
	if reason != "" {
		fullContext = "Replan reason: " + reason + "\n" + extraContext
	}

	newPlan, err := s.planner.Create(ctx, request, fullContext)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old != nil {
		old.Complete = true
		old.CurrentIndex = len(old.Steps)
		s.history = append(s.history, old)
	}
	s.history = append(s.history, newPlan)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.current = newPlan
	return newPlan, nil
}

// Progress implements §4.2's progress() operation.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.current
	if p == nil {
		return Progress{}
	}
	completed := 0
	for _, st := range p.Steps {
		if st.Status == event.StepCompleted || st.Status == event.StepSkipped {
			completed++
		}
	}
	total := len(p.Steps)
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(completed) / float64(total)
	} else if p.Complete {
		pct = 100
	}
	current := ""
	if !p.Complete && p.CurrentIndex < len(p.Steps) {
		current = p.Steps[p.CurrentIndex].Description
	}
	return Progress{Completed: completed, Total: total, Pct: pct, Current: current, Complete: p.Complete}
}
