// Package stream incrementally parses the JSON text an external
// generator produces while a diagram is being written.
//
// The generator emits a single object of the form
//
//	{"nodes":[...],"edges":[...]}
//
// but the consumer wants to draw nodes as soon as they are complete,
// long before the closing brace arrives. Parser is fed the full buffer
// so far on every call and emits only the objects completed since the
// previous call. ArrayParser covers the simpler skeleton path where the
// stream is one bare top-level array.
//
// Both parsers are tolerant by design: the tail of the buffer is
// provisional, so a slice that does not parse, or parses but lacks its
// discriminating field, is dropped without an error. Consumed text is
// never re-scanned.
package stream

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/inkgraph/pkg/graph"
)

// Phase marks how far through the generator's document the parser has
// advanced.
type Phase int

// Parser phases, in document order.
const (
	PhaseBeforeNodes Phase = iota
	PhaseNodes
	PhaseEdges
	PhaseDone
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseBeforeNodes:
		return "before-nodes"
	case PhaseNodes:
		return "nodes"
	case PhaseEdges:
		return "edges"
	default:
		return "done"
	}
}

// Result is the outcome of one Feed call: the objects newly completed
// by the buffer growth, plus the phase after consuming them.
type Result struct {
	Nodes []graph.Node
	Edges []graph.Edge
	Phase Phase
}

// Parser scans a growing buffer for completed node and edge objects.
// The zero value is ready to use; one Parser tracks one stream.
type Parser struct {
	pos     int
	phase   Phase
	inArray bool
}

// NewParser returns a parser positioned at the start of a new stream.
func NewParser() *Parser {
	return &Parser{}
}

// Phase reports the parser's current phase without consuming anything.
func (p *Parser) Phase() Phase {
	return p.phase
}

// Feed consumes the unread tail of buf and returns the node and edge
// objects it completed. buf must be the full stream text so far: the
// previously fed text followed by whatever arrived since. Feeding the
// same buffer twice yields an empty result the second time.
func (p *Parser) Feed(buf string) Result {
	res := Result{Phase: p.phase}

	for p.pos < len(buf) {
		switch p.phase {
		case PhaseBeforeNodes:
			if !p.enterArray(buf, `"nodes"`) {
				res.Phase = p.phase
				return res
			}
			p.phase = PhaseNodes

		case PhaseNodes:
			slice, closed, ok := p.nextObject(buf)
			if !ok {
				res.Phase = p.phase
				return res
			}
			if closed {
				p.phase = PhaseEdges
				p.inArray = false
				continue
			}
			if n, ok := decodeNode(slice); ok {
				res.Nodes = append(res.Nodes, n)
			}

		case PhaseEdges:
			if !p.inArray {
				if !p.enterArray(buf, `"edges"`) {
					res.Phase = p.phase
					return res
				}
				p.inArray = true
			}
			slice, closed, ok := p.nextObject(buf)
			if !ok {
				res.Phase = p.phase
				return res
			}
			if closed {
				p.phase = PhaseDone
				continue
			}
			if e, ok := decodeEdge(slice); ok {
				res.Edges = append(res.Edges, e)
			}

		case PhaseDone:
			p.pos = len(buf)
		}
	}

	res.Phase = p.phase
	return res
}

// enterArray advances the cursor past the given field name and its
// opening bracket. It reports false when the bracket has not arrived
// yet, leaving the cursor where it was.
func (p *Parser) enterArray(buf, field string) bool {
	at := strings.Index(buf[p.pos:], field)
	if at < 0 {
		return false
	}
	open := strings.IndexByte(buf[p.pos+at+len(field):], '[')
	if open < 0 {
		return false
	}
	p.pos += at + len(field) + open + 1
	return true
}

// nextObject returns the next complete object slice in the current
// array, or closed=true when the array's closing bracket is reached
// instead. ok=false means the buffer ends before either happens.
func (p *Parser) nextObject(buf string) (slice string, closed, ok bool) {
	i := p.pos
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r', ',':
			i++
		case ']':
			p.pos = i + 1
			return "", true, true
		case '{':
			end := scanObject(buf, i)
			// An object flush against the buffer end is held until its
			// trailing delimiter arrives, so results do not depend on
			// where chunk boundaries happen to fall.
			if end < 0 || end == len(buf) {
				return "", false, false
			}
			p.pos = end
			return buf[i:end], false, true
		default:
			// Stray byte between array items; step over it.
			i++
		}
	}
	return "", false, false
}

// scanObject scans forward from the '{' at start, tracking brace depth
// and string state so braces inside quoted strings and escaped quotes
// are handled, and returns the index one past the matching '}'. It
// returns -1 when the buffer ends mid-object.
func scanObject(buf string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(buf); i++ {
		c := buf[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// Canonical field names recognized on streamed objects. Anything else
// lands in the open attribute map.
var nodeFields = map[string]bool{
	"id": true, "kind": true, "position": true, "size": true,
	"container": true, "attributes": true,
}

var edgeFields = map[string]bool{
	"id": true, "source": true, "target": true,
	"sourceAnchor": true, "targetAnchor": true, "attributes": true,
}

func decodeNode(slice string) (graph.Node, bool) {
	var n graph.Node
	if json.Unmarshal([]byte(slice), &n) != nil || n.ID == "" {
		return graph.Node{}, false
	}
	n.Attrs = mergeExtras(slice, n.Attrs, nodeFields)
	return n, true
}

func decodeEdge(slice string) (graph.Edge, bool) {
	var e graph.Edge
	if json.Unmarshal([]byte(slice), &e) != nil || e.Source == "" || e.Target == "" {
		return graph.Edge{}, false
	}
	e.Attrs = mergeExtras(slice, e.Attrs, edgeFields)
	return e, true
}

// mergeExtras folds unrecognized top-level fields into the attribute
// map, so generators that flatten label/color onto the object itself
// still round-trip.
func mergeExtras(slice string, attrs graph.Attrs, known map[string]bool) graph.Attrs {
	var raw map[string]any
	if json.Unmarshal([]byte(slice), &raw) != nil {
		return attrs
	}
	for k, v := range raw {
		if known[k] {
			continue
		}
		if attrs == nil {
			attrs = graph.Attrs{}
		}
		if _, taken := attrs[k]; !taken {
			attrs[k] = v
		}
	}
	return attrs
}
