// Package plan implements the plan state machine (component C2): plan
// creation via the LLM planning subroutine, step advancement, direct
// status transitions, replan-trigger detection, and progress reporting.
//
// Grounded on github.com/kadirpekel/hector's pkg/agent/llmagent/flow.go
// outer-loop/termination pattern (IsFinalResponse-driven progression) and
// pkg/agent/task_status_validation.go's state-machine validation style,
// adapted from hector's A2A task-status enum to the spec's five-valued
// Plan Step status.
package plan

import (
	"fmt"
	"time"

	"github.com/kadirpekel/agentcore/pkg/event"
)

// Step is one unit of work in a Plan.
type Step struct {
	Index        int
	Description  string
	Status       event.StepStatus
	Notes        string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Dependencies []int
}

// Plan is the current unit of work the agent loop is executing.
type Plan struct {
	ID           string
	Title        string
	Objective    string
	Steps        []Step
	CurrentIndex int
	Complete     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// terminal reports whether a step status admits no further transitions.
func terminal(s event.StepStatus) bool {
	return s == event.StepCompleted || s == event.StepSkipped
}

// validTransition implements the state machine in spec §3:
// Pending -> InProgress -> {Completed | Blocked | Skipped}, with
// re-entry from Blocked to InProgress allowed on replan. Completed and
// Skipped are terminal.
func validTransition(from, to event.StepStatus) bool {
	if from == to {
		return true
	}
	if terminal(from) {
		return false
	}
	switch from {
	case event.StepPending:
		return to == event.StepInProgress
	case event.StepInProgress:
		return to == event.StepCompleted || to == event.StepBlocked || to == event.StepSkipped
	case event.StepBlocked:
		return to == event.StepInProgress
	}
	return false
}

// Progress summarizes plan completion for §4.2's progress() operation.
type Progress struct {
	Completed int
	Total     int
	Pct       float64
	Current   string
	Complete  bool
}

// ToPayload renders the plan as an event.PlanPayload snapshot suitable
// for appending to the event log.
func (p *Plan) ToPayload() event.PlanPayload {
	descs := make([]string, len(p.Steps))
	statuses := make([]event.StepStatus, len(p.Steps))
	for i, s := range p.Steps {
		descs[i] = s.Description
		statuses[i] = s.Status
	}
	return event.PlanPayload{
		PlanID:       p.ID,
		Title:        p.Title,
		Steps:        descs,
		StepStatuses: statuses,
		CurrentIndex: p.CurrentIndex,
		Complete:     p.Complete,
	}
}

// validate checks the plan invariant from spec §3: CurrentIndex points
// either to an InProgress step, the first non-terminal step, or equals
// len(Steps) when Complete is true; at most one step is InProgress.
func (p *Plan) validate() error {
	inProgress := 0
	for _, s := range p.Steps {
		if s.Status == event.StepInProgress {
			inProgress++
		}
	}
	if inProgress > 1 {
		return fmt.Errorf("plan %s: %d steps in progress, at most one allowed", p.ID, inProgress)
	}
	if p.Complete {
		if p.CurrentIndex != len(p.Steps) {
			return fmt.Errorf("plan %s: complete but current_index=%d != len(steps)=%d", p.ID, p.CurrentIndex, len(p.Steps))
		}
		return nil
	}
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Steps) {
		return fmt.Errorf("plan %s: current_index %d out of range", p.ID, p.CurrentIndex)
	}
	cur := p.Steps[p.CurrentIndex].Status
	if cur == event.StepInProgress {
		return nil
	}
	for _, s := range p.Steps {
		if !terminal(s.Status) {
			if s.Index != p.CurrentIndex {
				return fmt.Errorf("plan %s: current_index %d is not the first non-terminal step (that is %d)", p.ID, p.CurrentIndex, s.Index)
			}
			break
		}
	}
	return nil
}
