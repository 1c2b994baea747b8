package layout

import (
	"math"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// assignAnchors resolves the side each edge leaves and enters once final
// node positions are known. In a left-to-right layout an edge exits the
// right side and enters the left side - unless the target actually sits
// behind or beside the source, in which case the cross-axis pair
// (top/bottom) keeps the line short instead. Anchors already pinned by
// the caller are preserved.
func assignAnchors(g *graph.Graph, dir Direction) {
	idx := g.Index()
	for i, e := range g.Edges {
		si, okS := idx[e.Source]
		ti, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		src := g.Nodes[si].Bounds()
		dst := g.Nodes[ti].Bounds()

		srcAnchor, dstAnchor := anchorPair(src, dst, dir)
		if g.Edges[i].SourceAnchor == "" {
			g.Edges[i].SourceAnchor = srcAnchor
		}
		if g.Edges[i].TargetAnchor == "" {
			g.Edges[i].TargetAnchor = dstAnchor
		}
	}
}

func anchorPair(src, dst graph.Rect, dir Direction) (graph.Anchor, graph.Anchor) {
	dx := dst.CenterX() - src.CenterX()
	dy := dst.CenterY() - src.CenterY()

	// Preferred pair along the layout's primary axis.
	var primary graph.Anchor
	var forward bool
	switch dir {
	case DirectionRight:
		primary, forward = graph.AnchorRight, dx > 0
	case DirectionLeft:
		primary, forward = graph.AnchorLeft, dx < 0
	case DirectionDown:
		primary, forward = graph.AnchorBottom, dy > 0
	case DirectionUp:
		primary, forward = graph.AnchorTop, dy < 0
	}

	if forward {
		return primary, primary.Opposite()
	}

	// Geometry contradicts the flow: fall back to the cross axis.
	if dir.horizontal() {
		if dy >= 0 {
			return graph.AnchorBottom, graph.AnchorTop
		}
		return graph.AnchorTop, graph.AnchorBottom
	}
	if dx >= 0 {
		return graph.AnchorRight, graph.AnchorLeft
	}
	return graph.AnchorLeft, graph.AnchorRight
}

// edgeLength is the straight-line distance between two anchor points,
// used by tests to assert the minimization property.
func edgeLength(src, dst graph.Rect, a, b graph.Anchor) float64 {
	ax, ay := anchorPoint(src, a)
	bx, by := anchorPoint(dst, b)
	return math.Hypot(bx-ax, by-ay)
}

func anchorPoint(r graph.Rect, a graph.Anchor) (float64, float64) {
	switch a {
	case graph.AnchorTop:
		return r.CenterX(), r.Y
	case graph.AnchorBottom:
		return r.CenterX(), r.Y + r.H
	case graph.AnchorLeft:
		return r.X, r.CenterY()
	case graph.AnchorRight:
		return r.X + r.W, r.CenterY()
	}
	return r.CenterX(), r.CenterY()
}
