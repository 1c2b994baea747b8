package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/inkgraph/pkg/branch"
	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Direction sets the rank direction. Empty means top to bottom.
	Direction layout.Direction
	// BranchColors fills each node with its mind-map branch color
	// instead of the color attribute.
	BranchColors bool
}

// shapeForKind maps canonical node kinds to Graphviz shapes.
var shapeForKind = map[graph.Kind]string{
	graph.KindBox:      "box",
	graph.KindDecision: "diamond",
	graph.KindTerminal: "ellipse",
	graph.KindText:     "plaintext",
	graph.KindDatabase: "cylinder",
}

var rankdir = map[layout.Direction]string{
	layout.DirectionRight: "LR",
	layout.DirectionLeft:  "RL",
	layout.DirectionDown:  "TB",
	layout.DirectionUp:    "BT",
}

// ToDOT converts a canonical graph to Graphviz DOT. Containers become
// clusters holding their members; everything else renders by kind. The
// resulting string feeds [RenderSVG] or [RenderPNG].
func ToDOT(g graph.Graph, opts Options) string {
	g = g.Normalize()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	dir, ok := rankdir[opts.Direction]
	if !ok {
		dir = "TB"
	}
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byContainer := map[string][]graph.Node{}
	for _, n := range g.Nodes {
		byContainer[n.Container] = append(byContainer[n.Container], n)
	}

	for _, n := range byContainer[""] {
		if n.Kind == graph.KindContainer {
			writeCluster(&buf, g, n, byContainer[n.ID], opts)
			continue
		}
		writeNode(&buf, g, n, "  ", opts)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{}
		if label := edgeLabel(e); label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, g graph.Graph, c graph.Node, members []graph.Node, opts Options) {
	fmt.Fprintf(buf, "  subgraph \"cluster_%s\" {\n", c.ID)
	fmt.Fprintf(buf, "    label=%q;\n", c.Label())
	buf.WriteString("    style=\"rounded,dashed\";\n")
	for _, m := range members {
		writeNode(buf, g, m, "    ", opts)
	}
	buf.WriteString("  }\n")
}

func writeNode(buf *bytes.Buffer, g graph.Graph, n graph.Node, indent string, opts Options) {
	attrs := []string{fmt.Sprintf("label=%q", n.Label())}
	if shape, ok := shapeForKind[n.Kind]; ok && shape != "box" {
		attrs = append(attrs, fmt.Sprintf("shape=%s", shape))
	}
	if fill := fillColor(g, n, opts); fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
}

func fillColor(g graph.Graph, n graph.Node, opts Options) string {
	if opts.BranchColors {
		return branch.Color(g, n.ID)
	}
	if c, ok := n.Attrs[graph.AttrColor].(string); ok {
		return c
	}
	return ""
}

func edgeLabel(e graph.Edge) string {
	if l, ok := e.Attrs[graph.AttrLabel].(string); ok {
		return l
	}
	return ""
}
