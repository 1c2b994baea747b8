package sketch

// Type identifies a whiteboard element primitive.
type Type string

// Element types.
const (
	TypeRectangle Type = "rectangle"
	TypeDiamond   Type = "diamond"
	TypeEllipse   Type = "ellipse"
	TypeText      Type = "text"
	TypeArrow     Type = "arrow"
	TypeLine      Type = "line"
)

// IsLinear reports whether the type is a connector (arrow or line).
func (t Type) IsLinear() bool { return t == TypeArrow || t == TypeLine }

// Binding attaches one end of an arrow or line to another element.
type Binding struct {
	ElementID string `json:"elementId"`
}

// BoundElement is the back-reference a shape keeps to elements bound to
// it (its label text, or arrows attached to it). The forward binding
// (Binding.ElementID, or text ContainerID) and this back-reference must
// stay consistent.
type BoundElement struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

// Element is a single whiteboard primitive. Shapes use X/Y/Width/Height
// as their bounding box; arrows and lines use it as the box spanned by
// their endpoints. Text elements either stand alone or bind to a
// container shape via ContainerID, in which case they render as that
// shape's label.
type Element struct {
	ID     string  `json:"id"`
	Type   Type    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Text  string `json:"text,omitempty"`  // content of text elements
	Label string `json:"label,omitempty"` // inline label on shapes and arrows

	StrokeColor     string `json:"strokeColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`

	StartBinding *Binding       `json:"startBinding,omitempty"`
	EndBinding   *Binding       `json:"endBinding,omitempty"`
	ContainerID  string         `json:"containerId,omitempty"`
	BoundTo      []BoundElement `json:"boundElements,omitempty"`
}

// Default stroke/fill applied when the source carries no color data and
// for unknown node kinds.
const (
	DefaultStroke = "#1e1e1e"
	DefaultFill   = "#ffffff"
)
