// Package llm defines the transport-facing interface the rest of the
// core depends on (spec §6.2). The core never talks to a concrete model
// provider: it is handed a Client at construction (Design Notes §9 "Lazy
// LLM handle inside the Planner" strategy — inject eagerly via
// constructor rather than deferring construction to avoid circular
// initialization, which is how the source repo did it).
//
// Grounded on github.com/kadirpekel/hector's pkg/model package, which
// defines a provider-agnostic Model interface and lets pkg/agent/llmagent
// depend only on that interface, never on a concrete provider SDK. This
// package reduces that surface to exactly the two calls spec §6.2 names.
package llm

import "context"

// Message is one transport-role message in a conversation.
type Message struct {
	Role    string
	Content string
	Image   []byte
}

// ToolSpec describes one callable tool to the model, mirroring the
// JSON-Schema-style parameter spec required by spec §6.1.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is one element of an AskTool reply: the model's request to
// invoke a tool. Arguments is left as the raw string the transport
// returned; the agent loop parses it into structured data before
// emitting the Action event (§6.2).
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolReply is the result of AskTool: either plain content (no tool
// calls) or an ordered list of tool calls.
type ToolReply struct {
	Content   string
	ToolCalls []ToolCall
}

// Client is the two-call LLM transport interface required by §6.2.
// The agent loop never retries a failed call itself, and neither Stub
// nor gemini.Client retries a transient error. A Fatal error (see
// errors.go) must never be retried and must propagate immediately.
type Client interface {
	// Ask requests a plain-text completion, used by the planning
	// subroutine (§4.2) among others.
	Ask(ctx context.Context, messages []Message, systemMessages []Message, temperature float64) (string, error)

	// AskTool requests the next action(s) given a tool catalog. ToolChoice
	// is a transport-specific hint ("auto", "required", a tool name, ...);
	// implementations that don't support it may ignore it.
	AskTool(ctx context.Context, messages []Message, systemMessages []Message, tools []ToolSpec, toolChoice string, temperature float64) (ToolReply, error)
}
