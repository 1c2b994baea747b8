package graph

import "maps"

// Attrs stores arbitrary key-value pairs attached to nodes or edges.
// It is commonly used for labels, colors, icon references, and per-kind
// fields (table columns, subtitles). Keys the core understands are listed
// as Attr* constants; everything else passes through untouched.
type Attrs map[string]any

// Well-known attribute keys.
const (
	AttrLabel = "label"
	AttrColor = "color"
	AttrIcon  = "icon"
)

// Point is an absolute canvas position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node's bounding box dimensions in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a vertex in the canonical diagram graph.
//
// Position and Size are nil until a layout has run; consumers that need
// geometry before then should use [Node.Bounds], which applies per-kind
// defaults. Container names the ID of an enclosing container node, or is
// empty for top-level nodes.
type Node struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind,omitempty"`
	Position  *Point `json:"position,omitempty"`
	Size      *Size  `json:"size,omitempty"`
	Container string `json:"container,omitempty"`
	Attrs     Attrs  `json:"attributes,omitempty"`
}

// Label returns the node's display label, or the ID if none is set.
func (n Node) Label() string {
	if s, ok := n.Attrs[AttrLabel].(string); ok && s != "" {
		return s
	}
	return n.ID
}

// Edge is a directed connection between two nodes. Source and Target must
// reference existing node IDs; Normalize drops edges that do not resolve.
// Anchor sides are empty until a layout assigns them or a converter
// carries them over from an external format.
type Edge struct {
	ID           string `json:"id,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceAnchor Anchor `json:"sourceAnchor,omitempty"`
	TargetAnchor Anchor `json:"targetAnchor,omitempty"`
	Attrs        Attrs  `json:"attributes,omitempty"`
}

// Label returns the edge's display label, or "" if none is set.
func (e Edge) Label() string {
	s, _ := e.Attrs[AttrLabel].(string)
	return s
}

// Graph is the canonical diagram representation: a flat node list and a
// flat edge list. The zero value is an empty, usable graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Index returns a lookup table from node ID to position in Nodes.
// When duplicate IDs exist the first occurrence wins, matching the
// behavior of Normalize.
func (g Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = i
		}
	}
	return idx
}

// Node returns the node with the given ID and true, or a zero node and
// false if it does not exist.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Parents returns the source IDs of all edges targeting id, in edge order.
func (g Graph) Parents(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Target == id {
			out = append(out, e.Source)
		}
	}
	return out
}

// Children returns the target IDs of all edges leaving id, in edge order.
func (g Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Members returns the IDs of nodes declared inside the given container.
func (g Graph) Members(containerID string) []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Container == containerID {
			out = append(out, n.ID)
		}
	}
	return out
}

// Clone returns a deep copy of the graph. Positions, sizes, and attribute
// maps are copied so mutations of the clone never reach the original.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = cloneNode(n)
	}
	for i, e := range g.Edges {
		out.Edges[i] = e
		if e.Attrs != nil {
			out.Edges[i].Attrs = maps.Clone(e.Attrs)
		}
	}
	return out
}

func cloneNode(n Node) Node {
	if n.Position != nil {
		p := *n.Position
		n.Position = &p
	}
	if n.Size != nil {
		s := *n.Size
		n.Size = &s
	}
	if n.Attrs != nil {
		n.Attrs = maps.Clone(n.Attrs)
	}
	return n
}

// Normalize returns a copy of the graph with the structural invariants
// enforced:
//
//   - node IDs are unique (the first occurrence wins; later duplicates
//     and nodes with empty IDs are dropped)
//   - every edge endpoint resolves to a surviving node (dangling edges
//     are dropped, never stored)
//   - container references to missing nodes are cleared
//
// Malformed elements are discarded silently. A converter feeding
// Normalize never fails on bad structure, it degrades.
func (g Graph) Normalize() Graph {
	out := Graph{}
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out.Nodes = append(out.Nodes, cloneNode(n))
	}
	for i, n := range out.Nodes {
		if n.Container != "" && !seen[n.Container] {
			out.Nodes[i].Container = ""
		}
	}
	for _, e := range g.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			continue
		}
		if e.Attrs != nil {
			e.Attrs = maps.Clone(e.Attrs)
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}
