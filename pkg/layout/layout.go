package layout

import (
	"context"

	"github.com/matzehuels/inkgraph/pkg/collide"
	"github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/graph"
)

// Direction is the primary axis a layout flows along.
type Direction string

// Axis directions.
const (
	DirectionRight Direction = "right"
	DirectionLeft  Direction = "left"
	DirectionDown  Direction = "down"
	DirectionUp    Direction = "up"
)

// Valid reports whether d is one of the four axis directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionRight, DirectionLeft, DirectionDown, DirectionUp:
		return true
	}
	return false
}

// horizontal reports whether the primary axis is X.
func (d Direction) horizontal() bool {
	return d == DirectionRight || d == DirectionLeft
}

// Default gaps between sibling nodes (cross axis) and between levels
// (primary axis).
const (
	DefaultSpacingX = 60.0
	DefaultSpacingY = 80.0
)

// Options tunes a layout run. The zero value infers the direction and
// uses the default spacing and collision tuning.
type Options struct {
	// Direction pins the primary axis; empty means infer from the graph.
	Direction Direction
	// SpacingX and SpacingY are the minimum gaps between node boxes on
	// each axis. Zero means the package default.
	SpacingX float64
	SpacingY float64
	// Collide tunes the post-layout collision pass. The zero value uses
	// collide.DefaultOptions.
	Collide collide.Options
}

func (o Options) withDefaults() Options {
	if o.SpacingX == 0 {
		o.SpacingX = DefaultSpacingX
	}
	if o.SpacingY == 0 {
		o.SpacingY = DefaultSpacingY
	}
	if o.Collide == (collide.Options{}) {
		o.Collide = collide.DefaultOptions()
	}
	return o
}

// Layout produces a graph where every node has a position and every edge
// has resolved anchor sides, with no two node boxes overlapping beyond
// the collision tolerance.
//
// The input graph is treated as read-only. On failure (a family panic or
// an expired context) Layout returns the input graph unchanged plus an
// error carrying errors.ErrCodeLayoutFailed or errors.ErrCodeTimeout;
// the caller may log it and keep the previous drawing.
func Layout(ctx context.Context, g graph.Graph, opts Options) (graph.Graph, error) {
	opts = opts.withDefaults()

	work := g.Normalize()
	if len(work.Nodes) == 0 {
		return work, nil
	}

	dir := opts.Direction
	if !dir.Valid() {
		dir = InferDirection(work)
	}

	family := Classify(work)
	out, err := runFamily(ctx, family, work, dir, opts)
	if err != nil {
		return g, err
	}

	assignAnchors(&out, dir)
	out.Nodes = collide.Resolve(out.Nodes, opts.Collide)
	return out, nil
}

// runFamily executes one algorithm family under panic and context
// protection, so a misbehaving algorithm degrades to a no-op.
func runFamily(ctx context.Context, family Family, g graph.Graph, dir Direction, opts Options) (out graph.Graph, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeTimeout, ctxErr, "layout canceled before start")
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeLayoutFailed, "%s layout panicked: %v", family, r)
		}
	}()

	switch family {
	case FamilyTree:
		out = layoutTree(g, dir, opts.SpacingX, opts.SpacingY)
	case FamilyLayered:
		out = layoutLayered(g, dir, opts.SpacingX, opts.SpacingY)
	default:
		out = layoutForce(g, opts.SpacingX, opts.SpacingY)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeTimeout, ctxErr, "%s layout exceeded deadline", family)
	}
	return out, nil
}

// primary/cross size helpers shared by the families.

func primSize(n graph.Node, dir Direction) float64 {
	b := n.Bounds()
	if dir.horizontal() {
		return b.W
	}
	return b.H
}

func crossSize(n graph.Node, dir Direction) float64 {
	b := n.Bounds()
	if dir.horizontal() {
		return b.H
	}
	return b.W
}

// place converts (primary, cross) coordinates into an absolute position
// respecting the direction's sign and axis mapping.
func place(n *graph.Node, dir Direction, primary, cross float64) {
	b := n.Bounds()
	switch dir {
	case DirectionRight:
		n.Position = &graph.Point{X: primary, Y: cross}
	case DirectionLeft:
		n.Position = &graph.Point{X: -primary - b.W, Y: cross}
	case DirectionDown:
		n.Position = &graph.Point{X: cross, Y: primary}
	case DirectionUp:
		n.Position = &graph.Point{X: cross, Y: -primary - b.H}
	}
}

// ensureSizes fills in default sizes so downstream math never sees nil.
func ensureSizes(nodes []graph.Node) {
	for i := range nodes {
		if nodes[i].Size == nil {
			s := graph.DefaultSize(nodes[i].Kind)
			nodes[i].Size = &s
		}
	}
}
