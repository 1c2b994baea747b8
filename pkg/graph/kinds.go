package graph

// Kind is a node's visual role. The set is open: converters map unknown
// kinds to a generic box rather than failing.
type Kind string

// Node kinds.
const (
	KindBox       Kind = "box"       // generic rectangle
	KindDecision  Kind = "decision"  // rhombus/diamond
	KindTerminal  Kind = "terminal"  // rounded/ellipse start-end marker
	KindText      Kind = "text"      // freeform text, no border
	KindContainer Kind = "container" // groups member nodes
	KindDatabase  Kind = "database"  // database entity/cylinder
)

// Anchor identifies the side of a node where an edge attaches.
// The empty string means "unset" - the layout engine decides.
type Anchor string

// Anchor sides.
const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// Opposite returns the anchor on the facing side.
func (a Anchor) Opposite() Anchor {
	switch a {
	case AnchorTop:
		return AnchorBottom
	case AnchorBottom:
		return AnchorTop
	case AnchorLeft:
		return AnchorRight
	case AnchorRight:
		return AnchorLeft
	}
	return a
}

// Default node dimensions, used whenever a node carries no explicit size.
const (
	DefaultWidth  = 160.0
	DefaultHeight = 60.0

	defaultTextWidth  = 120.0
	defaultTextHeight = 24.0
)

// Rect is an axis-aligned bounding box.
type Rect struct {
	X, Y, W, H float64
}

// CenterX returns the horizontal center of the rect.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rect.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Expand grows the rect by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// DefaultSize returns the per-kind default dimensions.
func DefaultSize(k Kind) Size {
	if k == KindText {
		return Size{Width: defaultTextWidth, Height: defaultTextHeight}
	}
	return Size{Width: DefaultWidth, Height: DefaultHeight}
}

// Bounds returns the node's bounding box. Missing size falls back to the
// per-kind default; a missing position is treated as the origin.
func (n Node) Bounds() Rect {
	s := DefaultSize(n.Kind)
	if n.Size != nil {
		s = *n.Size
	}
	r := Rect{W: s.Width, H: s.Height}
	if n.Position != nil {
		r.X = n.Position.X
		r.Y = n.Position.Y
	}
	return r
}
