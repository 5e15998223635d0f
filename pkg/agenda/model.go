package agenda

import "strings"

// Lane is the temporal grouping a component is drawn in.
type Lane string

const (
	LanePast    Lane = "past"
	LaneCurrent Lane = "current"
	LaneFuture  Lane = "future"
)

// Lanes lists every lane in rendering order.
var Lanes = []Lane{LanePast, LaneCurrent, LaneFuture}

// ParseLane normalizes s to a lane. Matching is case-insensitive and ignores
// surrounding whitespace and quotes; anything unrecognized is [LaneCurrent].
func ParseLane(s string) Lane {
	switch Lane(strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'`))) {
	case LanePast:
		return LanePast
	case LaneFuture:
		return LaneFuture
	default:
		return LaneCurrent
	}
}

// Title returns the lane name with its first letter upper-cased ("Past").
func (l Lane) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Model is the parsed form of an agenda. It is plain data: relations refer to
// components by name and may name components that do not exist.
type Model struct {
	Theme      string      `json:"theme" yaml:"theme"`
	Components []Component `json:"components" yaml:"components"`
	Relations  []Relation  `json:"relations" yaml:"relations"`
}

// Component is a named diagram node. Parent, when set, names another component.
type Component struct {
	Name   string `json:"name" yaml:"name"`
	Time   Lane   `json:"time" yaml:"time"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Relation is a typed, directed edge between two component names.
type Relation struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type" yaml:"type"`
}

// ByLane groups the model's components by lane, keeping model order within
// each lane. A repeated name is kept only where it first occurs, so its first
// lane wins.
func (m *Model) ByLane() map[Lane][]Component {
	out := make(map[Lane][]Component, len(Lanes))
	seen := make(map[string]bool, len(m.Components))
	for _, c := range m.Components {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		lane := ParseLane(string(c.Time))
		out[lane] = append(out[lane], c)
	}
	return out
}
