// Package flowxml imports structured flowchart XML documents into the
// canonical graph.
//
// The wire format is a flat list of cell elements, each carrying an ID, a
// semicolon-separated style string, vertex/edge flags, a parent reference,
// and for edges a source/target cell ID, plus a nested geometry element.
// Two reserved IDs represent the implicit document root and are always
// skipped. The import is one-directional: structural output in this
// format is an external concern.
package flowxml

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// Reserved cell IDs for the implicit document root layer.
const (
	rootCellID  = "0"
	layerCellID = "1"
)

// Geometry is the nested position/size element of a cell.
type Geometry struct {
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

// Cell is a single flowchart cell. Vertex and EdgeFlag are the raw "1"
// markers from the document; exactly one is set on meaningful cells.
type Cell struct {
	ID       string    `xml:"id,attr"`
	Value    string    `xml:"value,attr"`
	Style    string    `xml:"style,attr"`
	Vertex   string    `xml:"vertex,attr"`
	EdgeFlag string    `xml:"edge,attr"`
	Parent   string    `xml:"parent,attr"`
	Source   string    `xml:"source,attr"`
	Target   string    `xml:"target,attr"`
	Geometry *Geometry `xml:"mxGeometry"`
}

// IsVertex reports whether the cell is a shape.
func (c Cell) IsVertex() bool { return c.Vertex == "1" }

// IsEdge reports whether the cell is a connector.
func (c Cell) IsEdge() bool { return c.EdgeFlag == "1" }

// Style is a parsed cell style string. Tokens of the form k=v map to
// their value; a token without "=" is treated as a boolean flag keyed by
// its own text. That convention is permissive on purpose: stray
// punctuation in a malformed style becomes a spurious flag rather than an
// error, matching the producing editors.
type Style map[string]string

// ParseStyle splits a semicolon-separated style string into a Style map.
func ParseStyle(s string) Style {
	style := Style{}
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if k, v, found := strings.Cut(tok, "="); found {
			style[k] = v
		} else {
			style[tok] = "1"
		}
	}
	return style
}

// Has reports whether the style carries the key, as a flag or with a value.
func (s Style) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Parse extracts every cell from an XML document. Any wrapper structure
// around the cells is tolerated, including documents without a single
// root element; the decoder simply collects each mxCell start element it
// encounters. Malformed trailing XML aborts with an error only if no
// cells were decoded before the failure.
func Parse(r io.Reader) ([]Cell, error) {
	dec := xml.NewDecoder(r)
	var cells []Cell
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return cells, nil
		}
		if err != nil {
			if len(cells) > 0 {
				return cells, nil
			}
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "mxCell" {
			continue
		}
		var c Cell
		if err := dec.DecodeElement(&c, &start); err != nil {
			// A single unreadable cell is dropped, not fatal.
			continue
		}
		cells = append(cells, c)
	}
}

// ToGraph converts cells into a canonical graph.
//
// The reserved root cells are skipped, as are embedded-image cells
// (images are not structurally editable) and vertex cells without
// geometry. Vertex kind is decided by a small table over style flags:
// rhombus becomes a decision, ellipse a terminal, cylinders a database
// entity, anything else a generic box. Edge cells become edges only when
// both endpoints already mapped to nodes.
func ToGraph(cells []Cell) graph.Graph {
	var g graph.Graph
	mapped := make(map[string]bool, len(cells))

	for _, c := range cells {
		if !c.IsVertex() || reserved(c.ID) || c.Geometry == nil {
			continue
		}
		style := ParseStyle(c.Style)
		if style.Has("image") || style["shape"] == "image" {
			continue
		}

		n := graph.Node{
			ID:       c.ID,
			Kind:     kindForStyle(style),
			Position: &graph.Point{X: c.Geometry.X, Y: c.Geometry.Y},
			Size:     &graph.Size{Width: c.Geometry.Width, Height: c.Geometry.Height},
		}
		if !reserved(c.Parent) && c.Parent != "" {
			n.Container = c.Parent
		}
		if c.Value != "" {
			n.Attrs = graph.Attrs{graph.AttrLabel: c.Value}
		}
		mapped[c.ID] = true
		g.Nodes = append(g.Nodes, n)
	}

	for _, c := range cells {
		if !c.IsEdge() || reserved(c.ID) {
			continue
		}
		if !mapped[c.Source] || !mapped[c.Target] {
			continue
		}
		e := graph.Edge{ID: c.ID, Source: c.Source, Target: c.Target}
		if c.Value != "" {
			e.Attrs = graph.Attrs{graph.AttrLabel: c.Value}
		}
		g.Edges = append(g.Edges, e)
	}

	return g.Normalize()
}

// FromReader parses and converts in one step.
func FromReader(r io.Reader) (graph.Graph, error) {
	cells, err := Parse(r)
	if err != nil {
		return graph.Graph{}, err
	}
	return ToGraph(cells), nil
}

func reserved(id string) bool { return id == rootCellID || id == layerCellID }

func kindForStyle(s Style) graph.Kind {
	switch {
	case s.Has("rhombus"):
		return graph.KindDecision
	case s.Has("ellipse"):
		return graph.KindTerminal
	case s["shape"] == "cylinder" || s["shape"] == "cylinder3":
		return graph.KindDatabase
	default:
		return graph.KindBox
	}
}
