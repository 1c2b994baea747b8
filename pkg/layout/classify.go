package layout

import "github.com/matzehuels/inkgraph/pkg/graph"

// Family is the algorithm family chosen for a graph.
type Family int

// Algorithm families.
const (
	// FamilyTree is a tidy tree layout for rooted trees (mind maps,
	// org charts): every node has at most one parent, one component.
	FamilyTree Family = iota
	// FamilyLayered is a layered directed layout for flat hierarchies
	// and multi-component DAGs.
	FamilyLayered
	// FamilyForce is a force-directed simulation for dense or cyclic
	// graphs where layers carry no meaning.
	FamilyForce
)

// String returns the family name for logs.
func (f Family) String() string {
	switch f {
	case FamilyTree:
		return "tree"
	case FamilyLayered:
		return "layered"
	default:
		return "force"
	}
}

// Classify picks the algorithm family from graph shape alone. It is a
// pure function: equal graphs always classify identically.
//
//   - rooted tree (single component, every node has at most one incoming
//     edge, no cycle): FamilyTree
//   - cyclic or dense (more than 3 edges per 2 nodes): FamilyForce
//   - everything else, including forests and flat fan-outs: FamilyLayered
func Classify(g graph.Graph) Family {
	if len(g.Nodes) == 0 {
		return FamilyLayered
	}

	if isRootedTree(g) {
		return FamilyTree
	}
	if hasCycle(g) || len(g.Edges)*2 > len(g.Nodes)*3 {
		return FamilyForce
	}
	return FamilyLayered
}

func isRootedTree(g graph.Graph) bool {
	inDegree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		inDegree[e.Target]++
		if inDegree[e.Target] > 1 {
			return false
		}
	}
	if components(g) != 1 {
		return false
	}
	// Single component with n-1 edges and max in-degree 1 cannot contain
	// a cycle unless the root itself is the target of a back edge.
	return len(g.Edges) == len(g.Nodes)-1 && !hasCycle(g)
}

// components counts weakly connected components.
func components(g graph.Graph) int {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	seen := make(map[string]bool, len(g.Nodes))
	count := 0
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		count++
		stack := []string{n.ID}
		seen[n.ID] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return count
}

// hasCycle detects a directed cycle with white/gray/black DFS coloring.
func hasCycle(g graph.Graph) bool {
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
	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, c := range children[id] {
			switch color[c] {
			case white:
				if dfs(c) {
					return true
				}
			case gray:
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.Nodes {
		if color[n.ID] == white && dfs(n.ID) {
			return true
		}
	}
	return false
}
