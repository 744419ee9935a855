package agentloop

import "strings"

// DefaultMaxSteps is the think/act step budget when none is configured
// (spec §4.6: "default 20-30").
const DefaultMaxSteps = 20

// DefaultMaxObserve bounds Observation output length (spec §4.6 step
// 6.4.d: "default 10000-15000").
const DefaultMaxObserve = 10000

// successLexemes drives the step-completion heuristic (spec §4.6 step
// 6.4.f): a conservative, auditable substring match rather than an
// LLM-as-judge call.
var successLexemes = []string{"success", "completed", "done", "created", "updated"}

// Config configures one Loop. MaxSteps < 0 selects DefaultMaxSteps;
// MaxSteps == 0 is itself a valid, tested boundary (the loop exits
// immediately with Finished, spec §8). MaxObserve <= 0 selects
// DefaultMaxObserve.
type Config struct {
	MaxSteps      int
	MaxObserve    int
	TerminalTools []string
	ToolChoice    string
	Temperature   float64
}

func (c Config) withDefaults() Config {
	if c.MaxSteps < 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MaxObserve <= 0 {
		c.MaxObserve = DefaultMaxObserve
	}
	if c.ToolChoice == "" {
		c.ToolChoice = "auto"
	}
	return c
}

func isTerminalTool(name string, terminalTools []string) bool {
	for _, t := range terminalTools {
		if t == name {
			return true
		}
	}
	return false
}

func containsSuccessLexeme(text string) bool {
	lower := strings.ToLower(text)
	for _, lex := range successLexemes {
		if strings.Contains(lower, lex) {
			return true
		}
	}
	return false
}
