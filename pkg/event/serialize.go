package event

import (
	"encoding/json"
)

// wireEvent is the canonical on-wire shape for Serialize: a flat record
// with explicit field names so encoding/json's (already-sorted) map-key
// ordering and our own struct field order combine to give byte-identical
// output for byte-identical append histories (I5).
type wireEvent struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Timestamp int64  `json:"ts"`
	Payload   any    `json:"payload"`
}

// Serialize renders the log as a canonical JSON array: sorted map keys
// (via sortValue, reused from id.go), minimal separators, one object per
// event in append order. Two logs built from identical append histories
// produce byte-identical output.
func (l *Log) Serialize() []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()

	wire := make([]wireEvent, len(l.events))
	for i, ev := range l.events {
		wire[i] = wireEvent{
			ID:        ev.ID,
			Kind:      ev.Kind,
			Timestamp: ev.Timestamp.UnixNano(),
			Payload:   canonicalPayload(ev.Kind, ev.Payload),
		}
	}

	// Marshal through sortValue so that any map-typed payload field
	// (ActionPayload.Input, SystemPayload.Data) has its keys sorted at
	// every nesting level, not just the top level encoding/json handles
	// natively.
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return raw
	}
	out, err := json.Marshal(sortValue(generic))
	if err != nil {
		return raw
	}
	return out
}

// canonicalPayload converts a typed payload struct into a map so that
// sortValue can walk it uniformly regardless of kind.
func canonicalPayload(k Kind, payload any) any {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	return v
}
