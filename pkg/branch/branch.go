// Package branch derives the mind-map branch a node belongs to and a
// stable per-branch display color.
//
// Colors are never stored on the graph: they are a pure function of the
// branch node's id, so re-running the classifier on an unchanged graph
// always yields the same result, and every node on the same first-level
// branch shares one color.
package branch

import (
	"hash/fnv"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// Palette holds the branch colors, indexed by id hash.
var Palette = []string{
	"#e64980", // pink
	"#f76707", // orange
	"#f2b705", // yellow
	"#37b24d", // green
	"#0ca678", // teal
	"#228be6", // blue
	"#7048e8", // violet
	"#9c36b5", // grape
}

// PathToRoot walks parent links from id up to the root and returns the
// node ids visited, starting with id itself and ending at the root.
//
// A node's parent is the source of the first edge targeting it, in edge
// order. The walk expects a tree but must not hang on anything else: a
// repeated node ends the walk and the path built so far is returned.
func PathToRoot(g graph.Graph, id string) []string {
	if _, ok := g.Node(id); !ok {
		return nil
	}

	path := []string{id}
	seen := map[string]bool{id: true}

	curr := id
	for {
		parent, ok := parentOf(g, curr)
		if !ok || seen[parent] {
			return path
		}
		seen[parent] = true
		path = append(path, parent)
		curr = parent
	}
}

// Branch returns the id of the node one step below the root on id's
// path, the node that names id's first-level branch. The root and
// isolated nodes are their own branch.
func Branch(g graph.Graph, id string) string {
	path := PathToRoot(g, id)
	switch len(path) {
	case 0:
		return ""
	case 1:
		return path[0]
	default:
		return path[len(path)-2]
	}
}

// Color returns the palette color for id's branch, or the empty string
// for an unknown id.
func Color(g graph.Graph, id string) string {
	b := Branch(g, id)
	if b == "" {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(b))
	// Unsigned modulo: converting the sum to int first can go negative
	// on 32-bit platforms and index out of range.
	return Palette[h.Sum32()%uint32(len(Palette))]
}

func parentOf(g graph.Graph, id string) (string, bool) {
	for _, e := range g.Edges {
		if e.Target == id {
			return e.Source, true
		}
	}
	return "", false
}
