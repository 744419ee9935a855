// Package assembler implements the Context Assembler (component C5): a
// stateful composer that maintains a stable prefix, masks tools, drives
// todo recitation, retains errors, and varies serialization.
//
// Grounded on github.com/kadirpekel/hector's pkg/agent/llmagent.Pipeline,
// which composes distinct request processors ahead of an LLM call; here
// the five §4.5 techniques are each a small collaborator type composed
// by Assembler instead of hector's chained processor interface, since
// the techniques here read and render independent state rather than
// mutating a shared request in sequence.
package assembler

// MaskState is a tool's visibility state in the emitted prompt. Tools
// are never removed from the catalog the LLM sees; masking only adds an
// advisory block (spec §4.5b).
type MaskState string

const (
	ToolAvailable MaskState = "available"
	ToolMasked    MaskState = "masked"
)

// ToolMask records why a tool is currently masked.
type ToolMask struct {
	State      MaskState
	Reason     string
	Conditions []string
}
