package trace

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the event type.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = []string{"", "begin", "end", "point"}

// kindMarks are the text-format arrows, indexed by Kind.
var kindMarks = []string{"", "→ ", "← ", "• "}

func (k Kind) String() string { return nameOf(kindNames, int(k)) }

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command
	ScopePass                    // parse, irgen, validate, run
	ScopeFile                    // one input file in batch mode
	ScopeNode                    // one AST node
)

var scopeNames = []string{"", "driver", "pass", "file", "node"}

func (s Scope) String() string { return nameOf(scopeNames, int(s)) }

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // "irgen", "file:main.nu", node kind
	Detail   string
	Extra    map[string]string
}

// FormatEvent encodes ev as one newline-terminated line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return encodeNDJSON(ev)
	}
	return encodeText(ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func encodeNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// encodeText: "#seq  scope  → name (detail) {k=v, ...}"; child events are
// indented by two spaces.
func encodeText(ev *Event) []byte {
	var sb strings.Builder
	sb.WriteByte('#')
	seq := strconv.FormatUint(ev.Seq, 10)
	sb.WriteString(seq)
	pad(&sb, 6-len(seq))
	scope := ev.Scope.String()
	sb.WriteString(scope)
	pad(&sb, 7-len(scope))
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + ev.Extra[k]
		}
		sb.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

func pad(sb *strings.Builder, n int) {
	sb.WriteString(strings.Repeat(" ", max(n, 1)))
}
