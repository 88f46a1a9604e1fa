package stone

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Edge names one side of a rectangular piece.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Edges lists the four sides in stable drawing order.
func Edges() []Edge {
	return []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}
}

// EdgeSet is a set over the four edges. The zero value is the empty
// set; duplicates are impossible by construction.
type EdgeSet uint8

func edgeBit(e Edge) (EdgeSet, bool) {
	switch e {
	case EdgeTop:
		return 1 << 0, true
	case EdgeBottom:
		return 1 << 1, true
	case EdgeLeft:
		return 1 << 2, true
	case EdgeRight:
		return 1 << 3, true
	}
	return 0, false
}

// NewEdgeSet builds a set from the given edges. Unknown edge names are
// ignored; use ParseEdges to reject them.
func NewEdgeSet(edges ...Edge) EdgeSet {
	var s EdgeSet
	for _, e := range edges {
		s.Add(e)
	}
	return s
}

// ParseEdges builds a set from edge names, folding case and
// whitespace. It fails on names outside the four known sides.
func ParseEdges(names []string) (EdgeSet, error) {
	var s EdgeSet
	for _, n := range names {
		e := Edge(strings.ToLower(strings.TrimSpace(n)))
		b, ok := edgeBit(e)
		if !ok {
			return 0, fmt.Errorf("%w: unknown edge %q", ErrInvalidSpec, n)
		}
		s |= b
	}
	return s, nil
}

// Add inserts e into the set. Unknown edges are ignored.
func (s *EdgeSet) Add(e Edge) {
	if b, ok := edgeBit(e); ok {
		*s |= b
	}
}

// Remove deletes e from the set.
func (s *EdgeSet) Remove(e Edge) {
	if b, ok := edgeBit(e); ok {
		*s &^= b
	}
}

// Has reports whether e is in the set.
func (s EdgeSet) Has(e Edge) bool {
	b, ok := edgeBit(e)
	return ok && s&b != 0
}

// Len counts the edges in the set.
func (s EdgeSet) Len() int {
	n := 0
	for _, e := range Edges() {
		if s.Has(e) {
			n++
		}
	}
	return n
}

// List returns the edges present, in stable drawing order.
func (s EdgeSet) List() []Edge {
	out := make([]Edge, 0, 4)
	for _, e := range Edges() {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// String joins the edge names with commas; the empty set reads "none".
func (s EdgeSet) String() string {
	if s == 0 {
		return "none"
	}
	names := make([]string, 0, 4)
	for _, e := range s.List() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

// MarshalYAML encodes the set as a sequence of edge names.
func (s EdgeSet) MarshalYAML() (interface{}, error) {
	names := make([]string, 0, 4)
	for _, e := range s.List() {
		names = append(names, string(e))
	}
	return names, nil
}

// UnmarshalYAML decodes a sequence of edge names.
func (s *EdgeSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	set, err := ParseEdges(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
