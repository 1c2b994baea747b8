package layout

import (
	"sort"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// containerPadding is the border kept between a container and the
// bounding box of its members.
const containerPadding = 24.0

// layoutTree computes a tidy tree layout: each subtree occupies its own
// band on the cross axis, parents center on their children, and levels
// advance along the primary axis by the thickest node of the level.
//
// Containers are handled by a grouping pass first: members lay out in
// their own local coordinate space, the container is sized to their
// bounding box plus padding, and only then does the container itself
// take part in the outer layout. Positions are a pure function of
// structure, so laying out twice without a structural change yields the
// same result.
func layoutTree(g graph.Graph, dir Direction, sx, sy float64) graph.Graph {
	out := g.Clone()
	ensureSizes(out.Nodes)

	locals := layoutContainers(&out, dir, sx, sy)

	outer := make([]int, 0, len(out.Nodes))
	idx := out.Index()
	for i, n := range out.Nodes {
		if n.Container == "" {
			outer = append(outer, i)
		}
	}
	placeTree(&out, outer, dir, sx, sy)

	// Shift each container's members into place under its final position,
	// outermost container first: a nested container's own position is
	// assigned by its parent's shift, so the parent must resolve before
	// the nested container's members read it.
	order := make([]string, 0, len(locals))
	for cid := range locals {
		order = append(order, cid)
	}
	sort.Slice(order, func(i, j int) bool {
		di, dj := nestingDepth(out, idx, order[i]), nestingDepth(out, idx, order[j])
		if di != dj {
			return di < dj
		}
		return order[i] < order[j]
	})
	for _, cid := range order {
		c := out.Nodes[idx[cid]]
		for _, m := range locals[cid] {
			i := idx[m.id]
			out.Nodes[i].Position = &graph.Point{
				X: c.Position.X + containerPadding + m.x,
				Y: c.Position.Y + containerPadding + m.y,
			}
		}
	}
	return out
}

// nestingDepth counts Container links from id up to a top-level node.
// A dangling or cyclic chain stops counting at the break.
func nestingDepth(g graph.Graph, idx map[string]int, id string) int {
	d := 0
	seen := map[string]bool{}
	for {
		i, ok := idx[id]
		if !ok || seen[id] {
			return d
		}
		seen[id] = true
		parent := g.Nodes[i].Container
		if parent == "" {
			return d
		}
		d++
		id = parent
	}
}

type localPos struct {
	id   string
	x, y float64
}

// layoutContainers lays out the members of every container in local
// space, resizes the container, and returns the local offsets keyed by
// container ID. Member nodes keep Container set, so the outer pass skips
// them.
func layoutContainers(g *graph.Graph, dir Direction, sx, sy float64) map[string][]localPos {
	locals := map[string][]localPos{}
	idx := g.Index()

	containers := make([]int, 0, len(g.Nodes))
	for ci, c := range g.Nodes {
		if len(g.Members(c.ID)) > 0 {
			containers = append(containers, ci)
		}
	}
	// Deepest container first, so a nested container carries its final
	// size by the time its parent lays out around it.
	sort.Slice(containers, func(i, j int) bool {
		di := nestingDepth(*g, idx, g.Nodes[containers[i]].ID)
		dj := nestingDepth(*g, idx, g.Nodes[containers[j]].ID)
		if di != dj {
			return di > dj
		}
		return g.Nodes[containers[i]].ID < g.Nodes[containers[j]].ID
	})

	for _, ci := range containers {
		c := g.Nodes[ci]
		memberIDs := g.Members(c.ID)
		isMember := make(map[string]bool, len(memberIDs))
		for _, id := range memberIDs {
			isMember[id] = true
		}

		sub := graph.Graph{}
		for _, id := range memberIDs {
			n := g.Nodes[idx[id]]
			n.Container = ""
			sub.Nodes = append(sub.Nodes, n)
		}
		for _, e := range g.Edges {
			if isMember[e.Source] && isMember[e.Target] {
				sub.Edges = append(sub.Edges, e)
			}
		}

		laid := sub.Clone()
		members := make([]int, len(laid.Nodes))
		for i := range members {
			members[i] = i
		}
		placeTree(&laid, members, dir, sx, sy)

		// Normalize local space to start at the origin, then size the
		// container around it.
		minX, minY := laid.Nodes[0].Position.X, laid.Nodes[0].Position.Y
		maxX, maxY := minX, minY
		for _, n := range laid.Nodes {
			b := n.Bounds()
			minX = min(minX, b.X)
			minY = min(minY, b.Y)
			maxX = max(maxX, b.X+b.W)
			maxY = max(maxY, b.Y+b.H)
		}
		for _, n := range laid.Nodes {
			locals[c.ID] = append(locals[c.ID], localPos{
				id: n.ID,
				x:  n.Position.X - minX,
				y:  n.Position.Y - minY,
			})
		}
		g.Nodes[ci].Size = &graph.Size{
			Width:  maxX - minX + 2*containerPadding,
			Height: maxY - minY + 2*containerPadding,
		}
	}
	return locals
}

// placeTree positions the given node indices (a forest) as tidy trees.
// Roots stack along the cross axis in input order.
func placeTree(g *graph.Graph, indices []int, dir Direction, sx, sy float64) {
	if len(indices) == 0 {
		return
	}
	included := make(map[string]int, len(indices))
	for _, i := range indices {
		included[g.Nodes[i].ID] = i
	}

	children := map[string][]string{}
	hasParent := map[string]bool{}
	for _, e := range g.Edges {
		if _, okS := included[e.Source]; !okS {
			continue
		}
		if _, okT := included[e.Target]; !okT {
			continue
		}
		if e.Source == e.Target || hasParent[e.Target] {
			continue
		}
		children[e.Source] = append(children[e.Source], e.Target)
		hasParent[e.Target] = true
	}

	primaryGap, crossGap := sy, sx
	if dir.horizontal() {
		primaryGap, crossGap = sx, sy
	}

	// Level extents: every node at the same depth advances by the
	// thickest node of that depth, keeping columns aligned.
	depth := map[string]int{}
	var levelExtent []float64
	var walkDepth func(id string, d int)
	walkDepth = func(id string, d int) {
		depth[id] = d
		for len(levelExtent) <= d {
			levelExtent = append(levelExtent, 0)
		}
		if s := primSize(g.Nodes[included[id]], dir); s > levelExtent[d] {
			levelExtent[d] = s
		}
		for _, c := range children[id] {
			walkDepth(c, d+1)
		}
	}
	var roots []string
	for _, i := range indices {
		if id := g.Nodes[i].ID; !hasParent[id] {
			roots = append(roots, id)
			walkDepth(id, 0)
		}
	}

	levelOffset := make([]float64, len(levelExtent))
	for d := 1; d < len(levelExtent); d++ {
		levelOffset[d] = levelOffset[d-1] + levelExtent[d-1] + primaryGap
	}

	// span computes the cross-axis band a subtree occupies.
	var span func(id string) float64
	span = func(id string) float64 {
		own := crossSize(g.Nodes[included[id]], dir)
		kids := children[id]
		if len(kids) == 0 {
			return own
		}
		total := 0.0
		for _, c := range kids {
			total += span(c)
		}
		total += float64(len(kids)-1) * crossGap
		return max(own, total)
	}

	var placeSub func(id string, crossStart float64)
	placeSub = func(id string, crossStart float64) {
		s := span(id)
		n := &g.Nodes[included[id]]
		own := crossSize(*n, dir)
		place(n, dir, levelOffset[depth[id]], crossStart+(s-own)/2)

		kids := children[id]
		kidSpan := 0.0
		for _, c := range kids {
			kidSpan += span(c)
		}
		kidSpan += float64(max(len(kids)-1, 0)) * crossGap

		cursor := crossStart + (s-kidSpan)/2
		for _, c := range kids {
			placeSub(c, cursor)
			cursor += span(c) + crossGap
		}
	}

	cursor := 0.0
	for _, r := range roots {
		placeSub(r, cursor)
		cursor += span(r) + crossGap
	}

	// Cycle guard: nodes unreachable from any root (possible inside a
	// malformed container subgraph) still get a position.
	for _, i := range indices {
		if _, ok := depth[g.Nodes[i].ID]; ok {
			continue
		}
		depth[g.Nodes[i].ID] = 0
		if len(levelOffset) == 0 {
			levelOffset = []float64{0}
		}
		place(&g.Nodes[i], dir, levelOffset[0], cursor)
		cursor += crossSize(g.Nodes[i], dir) + crossGap
	}
}
