// Package event implements the append-only event log (component C1):
// an ordered, content-addressed record of everything that happens during
// an agent run. Events are immutable once constructed; the only mutation
// the log supports is appending new ones.
//
// Grounded on github.com/kadirpekel/hector's pkg/agent/event.go (the
// Event/EventActions shape) and its tagged-union-over-kind approach to
// polymorphic payloads, generalized here to the seven kinds in §3 of the
// spec rather than hector's agent-authored/tool-call/thinking shape.
package event

import "time"

// Kind identifies the seven event payload shapes the log can hold.
type Kind string

const (
	KindMessage     Kind = "message"
	KindAction      Kind = "action"
	KindObservation Kind = "observation"
	KindPlan        Kind = "plan"
	KindKnowledge   Kind = "knowledge"
	KindDatasource  Kind = "datasource"
	KindSystem      Kind = "system"
)

// Role identifies the speaker of a Message event.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Event is an immutable record in the log. Events are built only by
// Log.Append; never mutate a field after construction — the id is a function of the fields
// below and a reused Event with changed fields would violate I1.
type Event struct {
	ID        string
	Kind      Kind
	Timestamp time.Time
	Payload   any
}

// MessagePayload backs KindMessage events.
type MessagePayload struct {
	Role    Role
	Content string
	Image   []byte
}

// ActionPayload backs KindAction events: a single tool invocation request.
type ActionPayload struct {
	ToolName   string
	ToolCallID string
	Input      map[string]any
}

// ObservationPayload backs KindObservation events: the result of
// dispatching the Action with the same ToolCallID.
type ObservationPayload struct {
	ToolName   string
	ToolCallID string
	Output     string
	Error      string
	Image      []byte
}

// Failed reports whether this observation represents a tool failure,
// per §6.1: a non-empty Error, or output prefixed with "Error:".
func (o ObservationPayload) Failed() bool {
	if o.Error != "" {
		return true
	}
	return len(o.Output) >= len("Error:") && o.Output[:len("Error:")] == "Error:"
}

// StepStatus is a plan step's state-machine value (§3 Plan Step).
type StepStatus string

const (
	StepPending     StepStatus = "pending"
	StepInProgress  StepStatus = "in_progress"
	StepCompleted   StepStatus = "completed"
	StepBlocked     StepStatus = "blocked"
	StepSkipped     StepStatus = "skipped"
)

// PlanPayload backs KindPlan events: a snapshot of the plan at the moment
// it was injected into the log (creation, advance, or replan).
type PlanPayload struct {
	PlanID       string
	Title        string
	Steps        []string
	StepStatuses []StepStatus
	CurrentIndex int
	Complete     bool
}

// KnowledgePayload backs KindKnowledge events: a best-practice item
// injected into context.
type KnowledgePayload struct {
	Scope      string
	Category   string
	Content    string
	Conditions []string
	Priority   int
}

// DatasourcePayload backs KindDatasource events: an authoritative API
// descriptor injected into context.
type DatasourcePayload struct {
	SourceID      string
	Name          string
	Endpoint      string
	Auth          string
	Documentation string
	Priority      int
}

// SystemPayload backs KindSystem events: bookkeeping entries not shown to
// the LLM (§6.3: System is omitted from the direct projection).
type SystemPayload struct {
	EventName string
	Data      map[string]any
}
