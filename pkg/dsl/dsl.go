// Package dsl expands the compact diagram shorthand into full whiteboard
// elements.
//
// The shorthand keeps records terse: colors are single-letter codes
// resolved through a fixed palette, types are short tags (rect, ellipse,
// diamond, arrow, text), and connections reference other records by their
// shorthand ID. Expansion is one-directional - the shorthand is consumed
// as converter input only, never produced.
package dsl

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/inkgraph/pkg/sketch"
)

// Record is one shorthand entry.
type Record struct {
	ID     string  `json:"id,omitempty"`
	Type   string  `json:"type"` // rect|ellipse|diamond|arrow|text
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Label  string  `json:"label,omitempty"`
	Color  string  `json:"color,omitempty"` // single-letter palette code

	StartBind string `json:"startBind,omitempty"`
	EndBind   string `json:"endBind,omitempty"`
	Container string `json:"container,omitempty"` // for bound text records
}

// palette maps single-letter color codes to stroke colors. Unknown codes
// fall back to the default stroke.
var palette = map[string]string{
	"k": "#1e1e1e", // black
	"r": "#e03131",
	"g": "#2f9e44",
	"b": "#1971c2",
	"y": "#f08c00",
	"v": "#9c36b5",
	"o": "#e8590c",
	"w": "#ffffff",
}

var typeForTag = map[string]sketch.Type{
	"rect":    sketch.TypeRectangle,
	"ellipse": sketch.TypeEllipse,
	"diamond": sketch.TypeDiamond,
	"arrow":   sketch.TypeArrow,
	"line":    sketch.TypeLine,
	"text":    sketch.TypeText,
}

// Label sizing heuristic for synthetic text elements.
const (
	charWidth  = 9.0
	lineHeight = 24.0
)

// Expand converts shorthand records into whiteboard elements.
//
// Pass one instantiates every record and builds a shorthand-ID →
// generated-ID table. A shape record with an inline label additionally
// produces a synthetic text element bound to the shape, sized by a
// character-width/line-height heuristic. Pass two resolves startBind,
// endBind, and container references through the table and pushes a
// back-reference onto each referenced element. A reference to a
// shorthand ID that exists nowhere in the input is left unresolved, not
// pointed at a fallback element.
func Expand(records []Record) []sketch.Element {
	elements := make([]sketch.Element, 0, len(records))
	genID := make(map[string]string, len(records))
	byID := make(map[string]int, len(records))

	add := func(el sketch.Element) int {
		byID[el.ID] = len(elements)
		elements = append(elements, el)
		return len(elements) - 1
	}

	type pending struct {
		index     int
		startBind string
		endBind   string
		container string
	}
	var unresolved []pending

	for _, r := range records {
		t, ok := typeForTag[r.Type]
		if !ok {
			continue
		}

		el := sketch.Element{
			ID:          uuid.NewString(),
			Type:        t,
			X:           r.X,
			Y:           r.Y,
			Width:       r.Width,
			Height:      r.Height,
			StrokeColor: strokeFor(r.Color),
		}
		if r.ID != "" {
			genID[r.ID] = el.ID
		}

		switch {
		case t == sketch.TypeText:
			el.Text = r.Label
			if el.Width == 0 {
				el.Width, el.Height = labelSize(r.Label)
			}
			i := add(el)
			if r.Container != "" {
				unresolved = append(unresolved, pending{index: i, container: r.Container})
			}
		case t.IsLinear():
			i := add(el)
			unresolved = append(unresolved, pending{index: i, startBind: r.StartBind, endBind: r.EndBind})
		default:
			el.BackgroundColor = sketch.DefaultFill
			i := add(el)
			if r.Label != "" {
				w, h := labelSize(r.Label)
				label := sketch.Element{
					ID:          uuid.NewString(),
					Type:        sketch.TypeText,
					X:           el.X + (el.Width-w)/2,
					Y:           el.Y + (el.Height-h)/2,
					Width:       w,
					Height:      h,
					Text:        r.Label,
					ContainerID: el.ID,
				}
				add(label)
				elements[i].BoundTo = append(elements[i].BoundTo, sketch.BoundElement{ID: label.ID, Type: sketch.TypeText})
			}
		}
	}

	// Pass two: shorthand references resolve through the table built in
	// pass one, so forward references work without lazy resolution.
	for _, p := range unresolved {
		if p.container != "" {
			if id, ok := genID[p.container]; ok {
				elements[p.index].ContainerID = id
				c := byID[id]
				elements[c].BoundTo = append(elements[c].BoundTo, sketch.BoundElement{ID: elements[p.index].ID, Type: sketch.TypeText})
			}
			continue
		}
		if id, ok := genID[p.startBind]; ok && p.startBind != "" {
			elements[p.index].StartBinding = &sketch.Binding{ElementID: id}
			pushBound(elements, byID[id], elements[p.index].ID)
		}
		if id, ok := genID[p.endBind]; ok && p.endBind != "" {
			elements[p.index].EndBinding = &sketch.Binding{ElementID: id}
			pushBound(elements, byID[id], elements[p.index].ID)
		}
	}

	return sketch.Normalize(elements)
}

func pushBound(elements []sketch.Element, target int, arrowID string) {
	elements[target].BoundTo = append(elements[target].BoundTo, sketch.BoundElement{ID: arrowID, Type: sketch.TypeArrow})
}

func strokeFor(code string) string {
	if c, ok := palette[strings.ToLower(code)]; ok {
		return c
	}
	return sketch.DefaultStroke
}

func labelSize(label string) (w, h float64) {
	lines := strings.Split(label, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return float64(longest) * charWidth, float64(len(lines)) * lineHeight
}
