package sketch

import (
	"github.com/google/uuid"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// IDPrefix marks element IDs generated from canonical node IDs, keeping
// them distinguishable from IDs minted by external producers.
const IDPrefix = "sk-"

// shapeForKind is the fixed kind → primitive lookup. Kinds not listed
// fall back to a generic rectangle with the default fill/stroke pair.
var shapeForKind = map[graph.Kind]Type{
	graph.KindBox:       TypeRectangle,
	graph.KindDecision:  TypeDiamond,
	graph.KindTerminal:  TypeEllipse,
	graph.KindText:      TypeText,
	graph.KindContainer: TypeRectangle,
	graph.KindDatabase:  TypeRectangle,
}

// FromGraph converts a canonical graph into whiteboard elements.
//
// Pass one emits one shape per node under a prefixed external ID, sized
// from the node or the per-kind default. Pass two emits one arrow per
// edge referencing the IDs produced in pass one; an edge whose endpoints
// failed to map is silently skipped. Labels attach as a field on the
// owning element, never as a separate element - except when the source
// graph already modeled a label as a text node bound to a container, in
// which case that binding is preserved as a bound text element.
//
// The input graph is not modified. The result satisfies the [Normalize]
// ordering contract (shapes before connectors).
func FromGraph(g graph.Graph) []Element {
	g = g.Normalize()

	elements := make([]Element, 0, len(g.Nodes)+len(g.Edges))
	extID := make(map[string]string, len(g.Nodes))
	byExtID := make(map[string]int, len(g.Nodes))

	for _, n := range g.Nodes {
		el := elementForNode(n)
		extID[n.ID] = el.ID
		byExtID[el.ID] = len(elements)
		elements = append(elements, el)
	}

	// Re-bind container text now that every container has an external ID.
	for i := range elements {
		if elements[i].ContainerID == "" {
			continue
		}
		cid, ok := extID[elements[i].ContainerID]
		if !ok {
			elements[i].ContainerID = ""
			continue
		}
		elements[i].ContainerID = cid
		c := byExtID[cid]
		elements[c].BoundTo = append(elements[c].BoundTo, BoundElement{ID: elements[i].ID, Type: TypeText})
	}

	for _, e := range g.Edges {
		src, okS := extID[e.Source]
		dst, okT := extID[e.Target]
		if !okS || !okT {
			continue
		}
		arrow := Element{
			ID:           arrowID(e),
			Type:         TypeArrow,
			Label:        e.Label(),
			StrokeColor:  DefaultStroke,
			StartBinding: &Binding{ElementID: src},
			EndBinding:   &Binding{ElementID: dst},
		}
		a := elements[byExtID[src]].Bounds()
		b := elements[byExtID[dst]].Bounds()
		arrow.X, arrow.Y = a.CenterX(), a.CenterY()
		arrow.Width = b.CenterX() - a.CenterX()
		arrow.Height = b.CenterY() - a.CenterY()

		s, d := byExtID[src], byExtID[dst]
		elements[s].BoundTo = append(elements[s].BoundTo, BoundElement{ID: arrow.ID, Type: TypeArrow})
		elements[d].BoundTo = append(elements[d].BoundTo, BoundElement{ID: arrow.ID, Type: TypeArrow})
		elements = append(elements, arrow)
	}

	return elements
}

func elementForNode(n graph.Node) Element {
	shape, known := shapeForKind[n.Kind]
	if !known {
		shape = TypeRectangle
	}

	el := Element{
		ID:              IDPrefix + n.ID,
		Type:            shape,
		StrokeColor:     DefaultStroke,
		BackgroundColor: DefaultFill,
	}
	if c, ok := n.Attrs[graph.AttrColor].(string); ok && c != "" {
		el.StrokeColor = c
	}

	b := n.Bounds()
	el.X, el.Y, el.Width, el.Height = b.X, b.Y, b.W, b.H

	if shape == TypeText {
		el.Text = n.Label()
		el.BackgroundColor = ""
		// Carried through FromGraph's second loop once the container's
		// external ID is known.
		el.ContainerID = n.Container
		return el
	}

	if s, ok := n.Attrs[graph.AttrLabel].(string); ok {
		el.Label = s
	}
	return el
}

// Bounds returns the element's bounding box as a canonical rect.
func (el Element) Bounds() graph.Rect {
	return graph.Rect{X: el.X, Y: el.Y, W: el.Width, H: el.Height}
}

func arrowID(e graph.Edge) string {
	if e.ID != "" {
		return IDPrefix + e.ID
	}
	return IDPrefix + uuid.NewString()
}
