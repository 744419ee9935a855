package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// idLength is the number of hex characters kept from the SHA-256 digest.
const idLength = 16

// computeID implements spec §4.1: the first 16 hex chars of
// SHA-256(kind || timestamp || payload-hash), where payload-hash is
// kind-specific. Two events with identical kind, timestamp, and payload
// therefore collide on id by construction (I1).
func computeID(k Kind, ts int64, payload any) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s", k, ts, payloadHash(k, payload))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:idLength]
}

// payloadHash renders the identity-relevant fields of a payload as a
// stable string. It leaves out an Action's tool_call_id and the image
// bytes of a Message or Observation; Plan, Knowledge, Datasource and
// System payloads are hashed whole.
func payloadHash(k Kind, payload any) string {
	switch k {
	case KindMessage:
		p := payload.(MessagePayload)
		return canonicalJSON(map[string]any{
			"role":    p.Role,
			"content": p.Content,
		})
	case KindAction:
		p := payload.(ActionPayload)
		return p.ToolName + "|" + canonicalJSON(p.Input)
	case KindObservation:
		p := payload.(ObservationPayload)
		return canonicalJSON(map[string]any{
			"tool_name":    p.ToolName,
			"tool_call_id": p.ToolCallID,
			"output":       p.Output,
			"error":        p.Error,
		})
	case KindPlan:
		p := payload.(PlanPayload)
		return canonicalJSON(map[string]any{
			"plan_id":       p.PlanID,
			"title":         p.Title,
			"steps":         p.Steps,
			"step_statuses": p.StepStatuses,
			"current_index": p.CurrentIndex,
			"complete":      p.Complete,
		})
	case KindKnowledge:
		p := payload.(KnowledgePayload)
		return canonicalJSON(p)
	case KindDatasource:
		p := payload.(DatasourcePayload)
		return canonicalJSON(p)
	case KindSystem:
		p := payload.(SystemPayload)
		return canonicalJSON(map[string]any{
			"event_name": p.EventName,
			"data":       p.Data,
		})
	default:
		return canonicalJSON(payload)
	}
}

// canonicalJSON marshals v with sorted map keys and minimal separators,
// the same property serialize() needs for the whole log (I5). encoding/json
// already sorts map[string]any keys; this helper documents that invariant
// at the call sites that rely on it.
func canonicalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return sortedJSONKeys(b)
}

// sortedJSONKeys re-marshals arbitrary JSON bytes through a generic
// structure so that map keys at every nesting level are sorted
// lexicographically, guaranteeing byte-identical output for
// structurally-identical values regardless of construction order.
func sortedJSONKeys(b []byte) string {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	out, err := json.Marshal(sortValue(v))
	if err != nil {
		return string(b)
	}
	return string(out)
}

func sortValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make(orderedMap, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, kv{k, sortValue(t[k])})
		}
		return ordered
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sortValue(e)
		}
		return out
	default:
		return t
	}
}

// kv and orderedMap implement json.Marshaler to emit a map's keys in a
// fixed, pre-sorted order (encoding/json's own map handling already sorts
// string keys, but nested values reached via reflection on arbitrary
// `any` need the same treatment applied recursively).
type kv struct {
	Key   string
	Value any
}

type orderedMap []kv

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	for i, pair := range m {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyBytes, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyBytes...)
		buf = append(buf, ':')
		valBytes, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valBytes...)
	}
	buf = append(buf, '}')
	return buf, nil
}
