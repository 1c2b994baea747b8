// Package collide separates overlapping node boxes after a layout pass.
//
// The resolver is deliberately O(n²) per iteration: it runs on small,
// already-roughly-laid-out graphs as a cleanup step, never as a primary
// layout strategy.
package collide

import (
	"math"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// Options tunes the resolver.
type Options struct {
	// Margin expands every node box on all sides before overlap tests.
	Margin float64
	// Tolerance is the overlap depth (per axis) that is still acceptable.
	Tolerance float64
	// MaxIterations caps the number of full pair passes.
	MaxIterations int
}

// DefaultOptions returns the tuning used by the layout engine.
func DefaultOptions() Options {
	return Options{Margin: 8, Tolerance: 0.5, MaxIterations: 16}
}

// Resolve pushes overlapping nodes apart and returns a new node slice.
//
// Every positioned node is treated as an axis-aligned box expanded by the
// margin. For each unordered pair overlapping beyond the tolerance on
// both axes, the two boxes are pushed apart along the axis with the
// smaller overlap (ties broken toward X), splitting the distance evenly.
// Passes repeat until a full pass moves nothing or the iteration cap is
// hit.
//
// The input slice is not modified. Nodes that never moved keep their
// original Position pointer, so callers that diff by identity see no
// churn for them. Nodes without a position are left untouched.
//
// Container members never collide on their own: a container and its
// transitive members move as one rigid cluster, and only top-level
// nodes take part in the pair tests.
func Resolve(nodes []graph.Node, opts Options) []graph.Node {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	out := make([]graph.Node, len(nodes))
	copy(out, nodes)

	top, members := clusters(out)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		moved := false
		for a := 0; a < len(top); a++ {
			i := top[a]
			if out[i].Position == nil {
				continue
			}
			for b := a + 1; b < len(top); b++ {
				j := top[b]
				if out[j].Position == nil {
					continue
				}
				if separate(out, i, j, members, opts) {
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}
	return out
}

// clusters splits the slice into top-level node indices and, per
// top-level index, the indices of its transitive container members. A
// node whose container id is absent from the slice counts as top-level.
func clusters(nodes []graph.Node) (top []int, members map[int][]int) {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}

	root := func(i int) int {
		seen := map[int]bool{i: true}
		for nodes[i].Container != "" {
			p, ok := idx[nodes[i].Container]
			if !ok || seen[p] {
				break
			}
			seen[p] = true
			i = p
		}
		return i
	}

	members = map[int][]int{}
	for i, n := range nodes {
		if r := root(i); n.Container == "" || r == i {
			top = append(top, i)
		} else {
			members[r] = append(members[r], i)
		}
	}
	return top, members
}

func separate(nodes []graph.Node, i, j int, members map[int][]int, opts Options) bool {
	a := nodes[i].Bounds().Expand(opts.Margin)
	b := nodes[j].Bounds().Expand(opts.Margin)

	overlapX := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
	overlapY := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
	if overlapX <= opts.Tolerance || overlapY <= opts.Tolerance {
		return false
	}

	// Push along the axis with less overlap; ties go to X.
	if overlapX <= overlapY {
		half := overlapX / 2
		if a.CenterX() <= b.CenterX() {
			shift(nodes, i, members, -half, 0)
			shift(nodes, j, members, half, 0)
		} else {
			shift(nodes, i, members, half, 0)
			shift(nodes, j, members, -half, 0)
		}
	} else {
		half := overlapY / 2
		if a.CenterY() <= b.CenterY() {
			shift(nodes, i, members, 0, -half)
			shift(nodes, j, members, 0, half)
		} else {
			shift(nodes, i, members, 0, half)
			shift(nodes, j, members, 0, -half)
		}
	}
	return true
}

// shift moves a node and its container members by allocating fresh
// Points, leaving the caller's original position values intact.
func shift(nodes []graph.Node, i int, members map[int][]int, dx, dy float64) {
	move := func(k int) {
		if nodes[k].Position == nil {
			return
		}
		p := *nodes[k].Position
		p.X += dx
		p.Y += dy
		nodes[k].Position = &p
	}
	move(i)
	for _, m := range members[i] {
		move(m)
	}
}
