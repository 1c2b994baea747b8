package layout

import (
	"sort"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// layoutLayered computes a layered directed layout: break cycles, assign
// every node to a layer via longest-path topological traversal, reduce
// crossings with barycenter sweeps, then stack each layer along the
// cross axis. Multiple components layer independently from their own
// roots, which naturally lays forests side by side.
func layoutLayered(g graph.Graph, dir Direction, sx, sy float64) graph.Graph {
	out := g.Clone()
	ensureSizes(out.Nodes)

	edges := dropBackEdges(out)
	layer := assignLayers(out, edges)

	// Group nodes per layer, keeping input order as the initial ordering.
	byLayer := map[int][]int{}
	maxLayer := 0
	for i, n := range out.Nodes {
		l := layer[n.ID]
		byLayer[l] = append(byLayer[l], i)
		if l > maxLayer {
			maxLayer = l
		}
	}

	orderLayers(out, byLayer, maxLayer, edges)

	primaryGap, crossGap := sy, sx
	if dir.horizontal() {
		primaryGap, crossGap = sx, sy
	}

	// Primary offsets: each level starts after the thickest node of the
	// previous one.
	offset := 0.0
	for l := 0; l <= maxLayer; l++ {
		extent := 0.0
		for _, i := range byLayer[l] {
			if s := primSize(out.Nodes[i], dir); s > extent {
				extent = s
			}
		}
		span := 0.0
		for _, i := range byLayer[l] {
			span += crossSize(out.Nodes[i], dir)
		}
		if n := len(byLayer[l]); n > 1 {
			span += float64(n-1) * crossGap
		}

		cross := -span / 2
		for _, i := range byLayer[l] {
			place(&out.Nodes[i], dir, offset, cross)
			cross += crossSize(out.Nodes[i], dir) + crossGap
		}
		offset += extent + primaryGap
	}

	return out
}

// dropBackEdges returns the edge set with back edges removed, using
// depth-first white/gray/black coloring from every root. The graph's own
// edge list is untouched; only the layering works on the reduced set.
func dropBackEdges(g graph.Graph) []graph.Edge {
	const (
		white = iota
		gray
		black
	)

	children := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}

	color := make(map[string]int, len(g.Nodes))
	back := make(map[[2]string]bool)

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, c := range children[id] {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				back[[2]string{id, c}] = true
			}
		}
		color[id] = black
	}

	inDegree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		inDegree[e.Target]++
	}
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 && color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	kept := make([]graph.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if back[[2]string{e.Source, e.Target}] {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// assignLayers runs Kahn's algorithm, placing each node one past the
// deepest of its parents. Roots sit at layer 0.
func assignLayers(g graph.Graph, edges []graph.Edge) map[string]int {
	children := make(map[string][]string, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for _, e := range edges {
		children[e.Source] = append(children[e.Source], e.Target)
		inDegree[e.Target]++
	}

	layer := make(map[string]int, len(g.Nodes))
	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			if l := layer[curr] + 1; l > layer[child] {
				layer[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return layer
}

// orderLayers runs barycenter sweeps to reduce crossings: two downward
// passes ordering each layer by the mean position of its parents, then
// two upward passes by children.
func orderLayers(g graph.Graph, byLayer map[int][]int, maxLayer int, edges []graph.Edge) {
	parents := map[string][]string{}
	children := map[string][]string{}
	for _, e := range edges {
		parents[e.Target] = append(parents[e.Target], e.Source)
		children[e.Source] = append(children[e.Source], e.Target)
	}

	pos := map[string]int{}
	refresh := func(l int) {
		for p, i := range byLayer[l] {
			pos[g.Nodes[i].ID] = p
		}
	}
	for l := 0; l <= maxLayer; l++ {
		refresh(l)
	}

	barycenter := func(id string, neighbors map[string][]string) float64 {
		ns := neighbors[id]
		if len(ns) == 0 {
			return float64(pos[id])
		}
		sum := 0.0
		for _, n := range ns {
			sum += float64(pos[n])
		}
		return sum / float64(len(ns))
	}

	sweep := func(neighbors map[string][]string, l int) {
		ids := byLayer[l]
		sort.SliceStable(ids, func(a, b int) bool {
			return barycenter(g.Nodes[ids[a]].ID, neighbors) < barycenter(g.Nodes[ids[b]].ID, neighbors)
		})
		refresh(l)
	}

	for pass := 0; pass < 2; pass++ {
		for l := 1; l <= maxLayer; l++ {
			sweep(parents, l)
		}
		for l := maxLayer - 1; l >= 0; l-- {
			sweep(children, l)
		}
	}
}
