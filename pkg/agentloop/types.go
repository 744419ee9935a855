// Package agentloop implements the Agent Loop (component C6): the
// execution loop that interleaves LLM reasoning with tool dispatch,
// owns the Event Log, Plan Store, and Context Assembler for the
// duration of one run, and steers replanning on tool failure.
//
// Grounded on github.com/kadirpekel/hector's pkg/agent/llmagent/flow.go
// outer-loop ("think/act until IsFinalResponse") shape, adapted from
// hector's session-backed event stream to this module's owned
// Event Log/Plan Store/Assembler triple, and from hector's tool-approval
// branching to the simpler sequential dispatch + replan-on-failure this
// spec calls for.
package agentloop

import "fmt"

// State is the Agent Loop's run state machine (spec §4.6).
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateFinished State = "finished"
	StateError    State = "error"
)

// ErrorKind names the taxonomy in spec §7 (kinds, not Go type names).
type ErrorKind string

const (
	ErrInvalidState    ErrorKind = "InvalidState"
	ErrPlanningFailure ErrorKind = "PlanningFailure"
	ErrToolNotFound    ErrorKind = "ToolNotFound"
	ErrToolFailure     ErrorKind = "ToolFailure"
	ErrToolTimeout     ErrorKind = "ToolTimeout"
	ErrLlmTransient    ErrorKind = "LlmTransient"
	ErrLlmFatal        ErrorKind = "LlmFatal"
	ErrBudgetExhausted ErrorKind = "BudgetExhausted"
)

// RunError wraps the triggering error with its spec §7 kind. It
// satisfies errors.Is/errors.As via Unwrap, matching the teacher's
// plain-error-wrapping style (no custom error package anywhere in the
// teacher).
type RunError struct {
	Kind ErrorKind
	Err  error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// StepResult records one tool invocation's outcome for the run summary.
type StepResult struct {
	ToolName string
	Output   string
	Error    string
}

// Summary is the structured result returned on Finished or Error (spec
// §7 "User-visible behavior").
type Summary struct {
	FinalMessage string
	StepResults  []StepResult
	PlanComplete bool
	PlanPct      float64
	Truncated    bool
}
