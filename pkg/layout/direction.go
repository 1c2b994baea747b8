package layout

import "github.com/matzehuels/inkgraph/pkg/graph"

// InferDirection picks a primary axis for a graph with no caller
// preference. The heuristic compares the hierarchy's depth against its
// widest level: wide, shallow graphs read best top-down (levels become
// rows), while deep, narrow graphs read best left-to-right (the chain
// becomes a timeline). High fan-out also pushes toward top-down, since
// horizontal sibling stacks cross fewer edges than vertical ones.
func InferDirection(g graph.Graph) Direction {
	if len(g.Nodes) == 0 {
		return DirectionDown
	}

	edges := dropBackEdges(g)
	layer := assignLayers(g, edges)

	depth := 0
	width := map[int]int{}
	breadth := 0
	for _, n := range g.Nodes {
		l := layer[n.ID]
		width[l]++
		if l > depth {
			depth = l
		}
		if width[l] > breadth {
			breadth = width[l]
		}
	}

	if breadth > depth+1 {
		return DirectionDown
	}
	return DirectionRight
}
