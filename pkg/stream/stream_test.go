package stream

import (
	"testing"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

const fullDoc = `{"nodes":[{"id":"a","kind":"box"},{"id":"b","kind":"box"}],"edges":[{"source":"a","target":"b","id":"e1"}]}`

func TestParser_IncrementalScenario(t *testing.T) {
	p := NewParser()

	first := p.Feed(`{"nodes":[{"id":"a"`)
	if len(first.Nodes) != 0 || len(first.Edges) != 0 {
		t.Fatalf("partial object must not emit, got %d nodes %d edges", len(first.Nodes), len(first.Edges))
	}
	if first.Phase != PhaseNodes {
		t.Errorf("phase = %v, want nodes", first.Phase)
	}

	second := p.Feed(`{"nodes":[{"id":"a","kind":"box"},{"id":"b","kind":"box"}],"edges":[{"source":"a","target":"b","id":"e1"}`)
	if len(second.Nodes) != 2 || len(second.Edges) != 0 {
		t.Fatalf("second call = %d nodes %d edges, want 2 nodes 0 edges", len(second.Nodes), len(second.Edges))
	}
	if second.Nodes[0].ID != "a" || second.Nodes[1].ID != "b" {
		t.Errorf("node ids = %s, %s", second.Nodes[0].ID, second.Nodes[1].ID)
	}

	third := p.Feed(fullDoc)
	if len(third.Nodes) != 0 || len(third.Edges) != 1 {
		t.Fatalf("third call = %d nodes %d edges, want 0 nodes 1 edge", len(third.Nodes), len(third.Edges))
	}
	if e := third.Edges[0]; e.Source != "a" || e.Target != "b" || e.ID != "e1" {
		t.Errorf("edge = %+v", e)
	}
	if third.Phase != PhaseDone {
		t.Errorf("phase = %v, want done", third.Phase)
	}
}

func TestParser_OneShotMatchesIncremental(t *testing.T) {
	oneShot := NewParser().Feed(fullDoc)

	inc := NewParser()
	var nodes []graph.Node
	var edges []graph.Edge
	for i := 1; i <= len(fullDoc); i++ {
		r := inc.Feed(fullDoc[:i])
		nodes = append(nodes, r.Nodes...)
		edges = append(edges, r.Edges...)
	}

	if len(oneShot.Nodes) != len(nodes) || len(oneShot.Edges) != len(edges) {
		t.Fatalf("one-shot %d/%d vs incremental %d/%d",
			len(oneShot.Nodes), len(oneShot.Edges), len(nodes), len(edges))
	}
	for i := range nodes {
		if oneShot.Nodes[i].ID != nodes[i].ID {
			t.Errorf("node %d: %s vs %s", i, oneShot.Nodes[i].ID, nodes[i].ID)
		}
	}
	if oneShot.Phase != PhaseDone || inc.Phase() != PhaseDone {
		t.Error("both parsers should end in the done phase")
	}
}

func TestParser_SameBufferTwiceEmitsNothing(t *testing.T) {
	buf := `{"nodes":[{"id":"a"},{"id":"b"`
	p := NewParser()
	if r := p.Feed(buf); len(r.Nodes) != 1 {
		t.Fatalf("first feed = %d nodes, want 1", len(r.Nodes))
	}
	if r := p.Feed(buf); len(r.Nodes) != 0 {
		t.Errorf("re-feeding the same buffer emitted %d nodes", len(r.Nodes))
	}
}

func TestParser_BracesInsideStrings(t *testing.T) {
	p := NewParser()
	r := p.Feed(`{"nodes":[{"id":"a","label":"open { and \" escaped"},{"id":"b"}],"edges":[]}`)
	if len(r.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(r.Nodes))
	}
	if r.Nodes[0].Attrs[graph.AttrLabel] != `open { and " escaped` {
		t.Errorf("label = %q", r.Nodes[0].Attrs[graph.AttrLabel])
	}
	if r.Phase != PhaseDone {
		t.Errorf("phase = %v, want done", r.Phase)
	}
}

func TestParser_DiscardsObjectsMissingDiscriminator(t *testing.T) {
	p := NewParser()
	r := p.Feed(`{"nodes":[{"kind":"box"},{"id":"keep"}],"edges":[{"source":"keep"},{"source":"keep","target":"keep","id":"e"}]}`)
	if len(r.Nodes) != 1 || r.Nodes[0].ID != "keep" {
		t.Errorf("nodes = %+v, want the one with an id", r.Nodes)
	}
	if len(r.Edges) != 1 || r.Edges[0].ID != "e" {
		t.Errorf("edges = %+v, want the one with both endpoints", r.Edges)
	}
}

func TestParser_ExtrasLandInAttributes(t *testing.T) {
	p := NewParser()
	r := p.Feed(`{"nodes":[{"id":"a","kind":"decision","color":"#f00","icon":"db"},{"id":"z"}],"edges":[]}`)
	if len(r.Nodes) != 2 {
		t.Fatal("want 2 nodes")
	}
	n := r.Nodes[0]
	if n.Kind != graph.KindDecision {
		t.Errorf("kind = %v", n.Kind)
	}
	if n.Attrs[graph.AttrColor] != "#f00" || n.Attrs[graph.AttrIcon] != "db" {
		t.Errorf("attrs = %v, want flattened extras folded in", n.Attrs)
	}
}

func TestParser_NestedObjectsDoNotSplit(t *testing.T) {
	p := NewParser()
	r := p.Feed(`{"nodes":[{"id":"a","position":{"x":1,"y":2},"size":{"width":10,"height":20}},{"id":"b"}],"edges":[]}`)
	if len(r.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(r.Nodes))
	}
	a := r.Nodes[0]
	if a.Position == nil || a.Position.X != 1 || a.Position.Y != 2 {
		t.Errorf("position = %+v", a.Position)
	}
	if a.Size == nil || a.Size.Width != 10 {
		t.Errorf("size = %+v", a.Size)
	}
}

func TestArrayParser_Incremental(t *testing.T) {
	p := NewArrayParser()

	if got := p.Feed(`[{"type":"rectangle","id":"r1"`); len(got) != 0 {
		t.Fatalf("partial element emitted: %v", got)
	}
	got := p.Feed(`[{"type":"rectangle","id":"r1"},{"type":"text","id":"t1"}]`)
	if len(got) != 2 {
		t.Fatalf("got %d elements, want 2", len(got))
	}
	if !p.Done() {
		t.Error("parser should be done after the closing bracket")
	}
	if extra := p.Feed(`[{"type":"rectangle","id":"r1"},{"type":"text","id":"t1"}]`); len(extra) != 0 {
		t.Errorf("done parser emitted %d elements", len(extra))
	}
}

func TestArrayParser_DropsInvalidSlices(t *testing.T) {
	p := NewArrayParser()
	got := p.Feed(`[{"ok":1}, {"broken": }, {"ok":2}]`)
	if len(got) != 2 {
		t.Errorf("got %d elements, want the 2 valid ones", len(got))
	}
}
