package sketch

import (
	"strings"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// kindForShape inverts the kind → primitive table for import.
var kindForShape = map[Type]graph.Kind{
	TypeRectangle: graph.KindBox,
	TypeDiamond:   graph.KindDecision,
	TypeEllipse:   graph.KindTerminal,
	TypeText:      graph.KindText,
}

// ToGraph converts whiteboard elements into a canonical graph.
//
// Two passes are required because arrow bindings may reference an element
// defined later in the input. Pass one builds every non-connector element
// into a node and records an external-ID → node-ID table. Pass two builds
// one edge per arrow or line whose start and end both resolve through
// that table; a connector with an unresolved endpoint is dropped, never
// defaulted to a fabricated target.
//
// Text elements bound to a container become the container node's label;
// freestanding text becomes a standalone text node.
func ToGraph(elements []Element) graph.Graph {
	var g graph.Graph
	nodeID := make(map[string]string, len(elements))

	// Pass one: shapes and freestanding text become nodes.
	var boundText []Element
	for _, el := range elements {
		if el.Type.IsLinear() || el.ID == "" {
			continue
		}
		if el.Type == TypeText && el.ContainerID != "" {
			boundText = append(boundText, el)
			continue
		}
		n := nodeForElement(el)
		nodeID[el.ID] = n.ID
		g.Nodes = append(g.Nodes, n)
	}

	// Bound text resolves against the table like any other forward
	// reference: its content becomes the container's label.
	idx := g.Index()
	for _, el := range boundText {
		cid, ok := nodeID[el.ContainerID]
		if !ok {
			// Container never materialized; keep the text alive as a
			// standalone node instead of losing content.
			n := nodeForElement(el)
			n.Container = ""
			nodeID[el.ID] = n.ID
			g.Nodes = append(g.Nodes, n)
			idx[n.ID] = len(g.Nodes) - 1
			continue
		}
		i := idx[cid]
		if g.Nodes[i].Attrs == nil {
			g.Nodes[i].Attrs = graph.Attrs{}
		}
		g.Nodes[i].Attrs[graph.AttrLabel] = el.Text
	}

	// Pass two: connectors whose bindings both resolve become edges.
	for _, el := range elements {
		if !el.Type.IsLinear() {
			continue
		}
		src, okS := resolve(el.StartBinding, nodeID)
		dst, okT := resolve(el.EndBinding, nodeID)
		if !okS || !okT {
			continue
		}
		e := graph.Edge{ID: stripPrefix(el.ID), Source: src, Target: dst}
		if el.Label != "" {
			e.Attrs = graph.Attrs{graph.AttrLabel: el.Label}
		}
		g.Edges = append(g.Edges, e)
	}

	return g.Normalize()
}

func nodeForElement(el Element) graph.Node {
	kind, ok := kindForShape[el.Type]
	if !ok {
		kind = graph.KindBox
	}

	n := graph.Node{
		ID:       stripPrefix(el.ID),
		Kind:     kind,
		Position: &graph.Point{X: el.X, Y: el.Y},
	}
	if el.Width > 0 || el.Height > 0 {
		n.Size = &graph.Size{Width: el.Width, Height: el.Height}
	}

	attrs := graph.Attrs{}
	switch {
	case el.Type == TypeText && el.Text != "":
		attrs[graph.AttrLabel] = el.Text
	case el.Label != "":
		attrs[graph.AttrLabel] = el.Label
	}
	if el.StrokeColor != "" && el.StrokeColor != DefaultStroke {
		attrs[graph.AttrColor] = el.StrokeColor
	}
	if len(attrs) > 0 {
		n.Attrs = attrs
	}
	return n
}

func resolve(b *Binding, nodeID map[string]string) (string, bool) {
	if b == nil || b.ElementID == "" {
		return "", false
	}
	id, ok := nodeID[b.ElementID]
	return id, ok
}

// stripPrefix undoes the generated-ID prefix so round-trips through the
// whiteboard format preserve original canonical IDs.
func stripPrefix(id string) string {
	if s := strings.TrimPrefix(id, IDPrefix); s != "" {
		return s
	}
	return id
}
