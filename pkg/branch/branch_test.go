package branch

import (
	"testing"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// mindMap is a root with two branches, one of them two levels deep.
func mindMap() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "root"}, {ID: "left"}, {ID: "right"},
			{ID: "left-1"}, {ID: "left-1-a"},
		},
		Edges: []graph.Edge{
			{Source: "root", Target: "left"},
			{Source: "root", Target: "right"},
			{Source: "left", Target: "left-1"},
			{Source: "left-1", Target: "left-1-a"},
		},
	}
}

func TestPathToRoot(t *testing.T) {
	g := mindMap()

	tests := []struct {
		id   string
		want []string
	}{
		{"left-1-a", []string{"left-1-a", "left-1", "left", "root"}},
		{"right", []string{"right", "root"}},
		{"root", []string{"root"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := PathToRoot(g, tt.id)
			if len(got) != len(tt.want) {
				t.Fatalf("PathToRoot(%s) = %v, want %v", tt.id, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PathToRoot(%s)[%d] = %s, want %s", tt.id, i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := PathToRoot(g, "missing"); got != nil {
		t.Errorf("PathToRoot(missing) = %v, want nil", got)
	}
}

func TestPathToRoot_CycleGuard(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{Source: "b", Target: "a"},
			{Source: "c", Target: "b"},
			{Source: "a", Target: "c"},
		},
	}

	got := PathToRoot(g, "a")
	if len(got) != 3 {
		t.Fatalf("cyclic walk returned %v, want the 3 nodes before the repeat", got)
	}
}

func TestBranch(t *testing.T) {
	g := mindMap()

	tests := []struct {
		id, want string
	}{
		{"left-1-a", "left"},
		{"left-1", "left"},
		{"left", "left"},
		{"right", "right"},
		{"root", "root"},
	}
	for _, tt := range tests {
		if got := Branch(g, tt.id); got != tt.want {
			t.Errorf("Branch(%s) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestColor_SameBranchSameColor(t *testing.T) {
	g := mindMap()

	left := Color(g, "left")
	for _, id := range []string{"left-1", "left-1-a"} {
		if got := Color(g, id); got != left {
			t.Errorf("Color(%s) = %s, want branch color %s", id, got, left)
		}
	}

	// Pure function of the branch id: repeated calls never change.
	if Color(g, "left") != left {
		t.Error("Color is not stable across calls")
	}

	if Color(g, "missing") != "" {
		t.Error("unknown id should have no color")
	}
}

func TestColor_FromPalette(t *testing.T) {
	g := mindMap()
	c := Color(g, "right")
	found := false
	for _, p := range Palette {
		if c == p {
			found = true
		}
	}
	if !found {
		t.Errorf("Color() = %s, not in the palette", c)
	}
}

func TestColor_HighHashBranch(t *testing.T) {
	// "north" hashes with the top bit set (0xdaef9304); the palette
	// index must come from unsigned arithmetic on every platform.
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "root"}, {ID: "north"}, {ID: "tip"}},
		Edges: []graph.Edge{
			{Source: "root", Target: "north"},
			{Source: "north", Target: "tip"},
		},
	}

	if got, want := Color(g, "tip"), Palette[4]; got != want {
		t.Errorf("Color(tip) = %s, want %s", got, want)
	}
}
