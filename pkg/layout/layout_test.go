package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/inkgraph/pkg/errors"
	"github.com/matzehuels/inkgraph/pkg/graph"
)

func chain(ids ...string) graph.Graph {
	var g graph.Graph
	for _, id := range ids {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	for i := 1; i < len(ids); i++ {
		g.Edges = append(g.Edges, graph.Edge{Source: ids[i-1], Target: ids[i]})
	}
	return g
}

func TestClassify(t *testing.T) {
	tree := graph.Graph{
		Nodes: []graph.Node{{ID: "r"}, {ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{Source: "r", Target: "a"}, {Source: "r", Target: "b"}},
	}
	forest := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{{Source: "a", Target: "b"}, {Source: "c", Target: "d"}},
	}
	diamond := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"}, {Source: "a", Target: "c"},
			{Source: "b", Target: "d"}, {Source: "c", Target: "d"},
		},
	}
	ring := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"},
		},
	}

	tests := []struct {
		name string
		g    graph.Graph
		want Family
	}{
		{"rooted tree", tree, FamilyTree},
		{"forest", forest, FamilyLayered},
		{"diamond dag", diamond, FamilyLayered},
		{"cycle", ring, FamilyForce},
		{"single node", chain("a"), FamilyTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.g); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func assertLaidOut(t *testing.T, g graph.Graph) {
	t.Helper()
	for _, n := range g.Nodes {
		if n.Position == nil {
			t.Errorf("node %s has no position after layout", n.ID)
		}
	}
	for _, e := range g.Edges {
		if e.SourceAnchor == "" || e.TargetAnchor == "" {
			t.Errorf("edge %s→%s has unresolved anchors", e.Source, e.Target)
		}
	}
}

func assertNoOverlap(t *testing.T, g graph.Graph, margin, tol float64) {
	t.Helper()
	for i := 0; i < len(g.Nodes); i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			// Containers legitimately overlap their members.
			if g.Nodes[i].Container != "" || g.Nodes[j].Container != "" ||
				g.Nodes[i].Kind == graph.KindContainer || g.Nodes[j].Kind == graph.KindContainer {
				continue
			}
			a := g.Nodes[i].Bounds().Expand(margin)
			b := g.Nodes[j].Bounds().Expand(margin)
			ox := min(a.X+a.W, b.X+b.W) - max(a.X, b.X)
			oy := min(a.Y+a.H, b.Y+b.H) - max(a.Y, b.Y)
			if ox > tol && oy > tol {
				t.Errorf("nodes %s and %s overlap after layout", g.Nodes[i].ID, g.Nodes[j].ID)
			}
		}
	}
}

func TestLayout_Tree(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "root"}, {ID: "a"}, {ID: "b"}, {ID: "a1"}, {ID: "a2"}},
		Edges: []graph.Edge{
			{Source: "root", Target: "a"},
			{Source: "root", Target: "b"},
			{Source: "a", Target: "a1"},
			{Source: "a", Target: "a2"},
		},
	}

	out, err := Layout(context.Background(), g, Options{Direction: DirectionRight})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	assertLaidOut(t, out)
	assertNoOverlap(t, out, 8, 0.5)

	// Children sit strictly to the right of the root.
	root, _ := out.Node("root")
	for _, id := range []string{"a", "b"} {
		n, _ := out.Node(id)
		if n.Position.X <= root.Position.X {
			t.Errorf("node %s should be right of root (%v vs %v)", id, n.Position.X, root.Position.X)
		}
	}

	// Input graph untouched.
	if g.Nodes[0].Position != nil {
		t.Error("Layout() mutated the input graph")
	}
}

func TestLayout_LayeredAndForce(t *testing.T) {
	diamond := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"}, {Source: "a", Target: "c"},
			{Source: "b", Target: "d"}, {Source: "c", Target: "d"},
		},
	}
	ring := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"}, {Source: "b", Target: "c"},
			{Source: "c", Target: "d"}, {Source: "d", Target: "a"},
		},
	}

	for _, tt := range []struct {
		name string
		g    graph.Graph
	}{{"layered", diamond}, {"force", ring}} {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Layout(context.Background(), tt.g, Options{})
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			assertLaidOut(t, out)
			assertNoOverlap(t, out, 8, 0.5)
		})
	}
}

func TestLayout_ForceDeterministic(t *testing.T) {
	ring := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"},
		},
	}

	one, err := Layout(context.Background(), ring, Options{})
	if err != nil {
		t.Fatal(err)
	}
	two, err := Layout(context.Background(), ring, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range one.Nodes {
		if *one.Nodes[i].Position != *two.Nodes[i].Position {
			t.Errorf("node %s moved between identical runs: %v vs %v",
				one.Nodes[i].ID, one.Nodes[i].Position, two.Nodes[i].Position)
		}
	}
}

func TestLayout_CanceledContextReturnsInput(t *testing.T) {
	g := chain("a", "b", "c")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Layout(ctx, g, Options{})
	if err == nil {
		t.Fatal("Layout() with canceled context should report a failure")
	}
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error code = %v, want TIMEOUT", errors.GetCode(err))
	}
	// Best effort means the exact input comes back, not a partial layout.
	if len(out.Nodes) != len(g.Nodes) || out.Nodes[0].Position != nil {
		t.Error("failed layout must return the input graph unchanged")
	}
}

func TestLayout_ContainerGroupingIdempotent(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "root"},
			{ID: "grp", Kind: graph.KindContainer},
			{ID: "m1", Container: "grp"},
			{ID: "m2", Container: "grp"},
		},
		Edges: []graph.Edge{
			{Source: "root", Target: "grp"},
			{Source: "grp", Target: "m1"},
			{Source: "m1", Target: "m2"},
		},
	}

	if got := Classify(g); got != FamilyTree {
		t.Fatalf("Classify() = %v, want tree", got)
	}

	once, err := Layout(context.Background(), g, Options{Direction: DirectionRight})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	twice, err := Layout(context.Background(), once, Options{Direction: DirectionRight})
	if err != nil {
		t.Fatalf("second Layout() error = %v", err)
	}

	grp, _ := once.Node("grp")
	if grp.Size == nil || grp.Size.Width <= 2*containerPadding {
		t.Fatalf("container not sized to members: %+v", grp.Size)
	}

	// Members sit inside the container bounds.
	cb := grp.Bounds()
	for _, id := range []string{"m1", "m2"} {
		n, _ := once.Node(id)
		b := n.Bounds()
		if b.X < cb.X || b.Y < cb.Y || b.X+b.W > cb.X+cb.W || b.Y+b.H > cb.Y+cb.H {
			t.Errorf("member %s escapes its container: %+v not in %+v", id, b, cb)
		}
	}

	for i := range once.Nodes {
		if *once.Nodes[i].Position != *twice.Nodes[i].Position {
			t.Errorf("node %s moved on repeated layout: %v vs %v",
				once.Nodes[i].ID, once.Nodes[i].Position, twice.Nodes[i].Position)
		}
	}
}

func TestLayout_NestedContainers(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "root"},
			{ID: "outer", Kind: graph.KindContainer},
			{ID: "inner", Kind: graph.KindContainer, Container: "outer"},
			{ID: "m", Container: "inner"},
		},
		Edges: []graph.Edge{
			{Source: "root", Target: "outer"},
			{Source: "outer", Target: "inner"},
			{Source: "inner", Target: "m"},
		},
	}

	if got := Classify(g); got != FamilyTree {
		t.Fatalf("Classify() = %v, want tree", got)
	}

	// Member shifts resolve through map-keyed bookkeeping; repeat enough
	// times that an iteration-order dependency cannot hide.
	var first graph.Graph
	for run := 0; run < 20; run++ {
		laid, err := Layout(context.Background(), g, Options{Direction: DirectionRight})
		if err != nil {
			t.Fatalf("run %d: Layout() error = %v", run, err)
		}
		for _, n := range laid.Nodes {
			if n.Position == nil {
				t.Fatalf("run %d: node %s has no position", run, n.ID)
			}
		}
		if run == 0 {
			first = laid
			continue
		}
		for i := range laid.Nodes {
			if *laid.Nodes[i].Position != *first.Nodes[i].Position {
				t.Fatalf("run %d: node %s at %v, first run had %v",
					run, laid.Nodes[i].ID, laid.Nodes[i].Position, first.Nodes[i].Position)
			}
		}
	}

	outer, _ := first.Node("outer")
	inner, _ := first.Node("inner")
	m, _ := first.Node("m")

	ob, ib, mb := outer.Bounds(), inner.Bounds(), m.Bounds()
	if ib.X < ob.X || ib.Y < ob.Y || ib.X+ib.W > ob.X+ob.W || ib.Y+ib.H > ob.Y+ob.H {
		t.Errorf("inner container escapes outer: %+v not in %+v", ib, ob)
	}
	if mb.X < ib.X || mb.Y < ib.Y || mb.X+mb.W > ib.X+ib.W || mb.Y+mb.H > ib.Y+ib.H {
		t.Errorf("member escapes inner container: %+v not in %+v", mb, ib)
	}
	if inner.Size == nil || outer.Size == nil || outer.Size.Width <= inner.Size.Width {
		t.Errorf("outer container not sized around inner: outer %+v, inner %+v", outer.Size, inner.Size)
	}
}

func TestLayout_DirectionOverride(t *testing.T) {
	g := chain("a", "b", "c")

	down, err := Layout(context.Background(), g, Options{Direction: DirectionDown})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := down.Node("a")
	c, _ := down.Node("c")
	if c.Position.Y <= a.Position.Y {
		t.Error("down layout should advance along Y")
	}
	if down.Edges[0].SourceAnchor != graph.AnchorBottom || down.Edges[0].TargetAnchor != graph.AnchorTop {
		t.Errorf("down anchors = %s/%s, want bottom/top",
			down.Edges[0].SourceAnchor, down.Edges[0].TargetAnchor)
	}
}

func TestInferDirection(t *testing.T) {
	deep := chain("a", "b", "c", "d", "e")
	if got := InferDirection(deep); got != DirectionRight {
		t.Errorf("deep chain direction = %v, want right", got)
	}

	wide := graph.Graph{Nodes: []graph.Node{{ID: "r"}}}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		wide.Nodes = append(wide.Nodes, graph.Node{ID: id})
		wide.Edges = append(wide.Edges, graph.Edge{Source: "r", Target: id})
	}
	if got := InferDirection(wide); got != DirectionDown {
		t.Errorf("wide fan-out direction = %v, want down", got)
	}
}

func TestAnchors_GeometryFallback(t *testing.T) {
	// Target sits behind the source in a right-flowing layout.
	src := graph.Rect{X: 100, Y: 0, W: 50, H: 50}
	dst := graph.Rect{X: 0, Y: 200, W: 50, H: 50}

	a, b := anchorPair(src, dst, DirectionRight)
	if a != graph.AnchorBottom || b != graph.AnchorTop {
		t.Errorf("fallback anchors = %s/%s, want bottom/top", a, b)
	}

	// The chosen pair is no longer than the primary pair would be.
	if edgeLength(src, dst, a, b) > edgeLength(src, dst, graph.AnchorRight, graph.AnchorLeft) {
		t.Error("fallback pair should not lengthen the edge")
	}
}

func TestLayout_EmptyGraph(t *testing.T) {
	out, err := Layout(context.Background(), graph.Graph{}, Options{})
	if err != nil {
		t.Fatalf("Layout() on empty graph error = %v", err)
	}
	if len(out.Nodes) != 0 {
		t.Error("empty in, empty out")
	}
}
