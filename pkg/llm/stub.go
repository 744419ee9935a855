package llm

import (
	"context"
	"fmt"
)

// Stub is a deterministic in-memory Client used throughout this module's
// tests (spec §8 scenarios S1–S6 require byte-identical, seeded replies
// across runs, which no real network transport can guarantee). It plays
// back a scripted sequence of AskTool replies and, separately, a
// scripted sequence of Ask replies (used by the planning subroutine).
type Stub struct {
	AskReplies     []string
	AskToolReplies []ToolReply

	askCalls     int
	askToolCalls int

	// OnAsk and OnAskTool, if set, are called with the call index before
	// the scripted reply is returned, letting a test assert on the
	// prompt the assembler built for that step.
	OnAsk     func(i int, messages, systemMessages []Message)
	OnAskTool func(i int, messages, systemMessages []Message, tools []ToolSpec)
}

var _ Client = (*Stub)(nil)

// Ask returns the next scripted plain-text reply.
func (s *Stub) Ask(_ context.Context, messages []Message, systemMessages []Message, _ float64) (string, error) {
	if s.OnAsk != nil {
		s.OnAsk(s.askCalls, messages, systemMessages)
	}
	if s.askCalls >= len(s.AskReplies) {
		return "", fmt.Errorf("stub: no more Ask replies scripted (call %d)", s.askCalls)
	}
	reply := s.AskReplies[s.askCalls]
	s.askCalls++
	return reply, nil
}

// AskTool returns the next scripted tool-call reply.
func (s *Stub) AskTool(_ context.Context, messages []Message, systemMessages []Message, tools []ToolSpec, _ string, _ float64) (ToolReply, error) {
	if s.OnAskTool != nil {
		s.OnAskTool(s.askToolCalls, messages, systemMessages, tools)
	}
	if s.askToolCalls >= len(s.AskToolReplies) {
		return ToolReply{}, fmt.Errorf("stub: no more AskTool replies scripted (call %d)", s.askToolCalls)
	}
	reply := s.AskToolReplies[s.askToolCalls]
	s.askToolCalls++
	return reply, nil
}
