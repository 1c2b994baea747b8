package stream

import "encoding/json"

// ArrayParser incrementally scans a stream that is one bare top-level
// JSON array of objects, the shape used by the sketch-skeleton path.
// Elements are returned raw; the caller decodes them into whatever
// record type the stream carries.
type ArrayParser struct {
	pos    int
	inside bool
	done   bool
}

// NewArrayParser returns a parser positioned at the start of a stream.
func NewArrayParser() *ArrayParser {
	return &ArrayParser{}
}

// Done reports whether the array's closing bracket has been consumed.
func (p *ArrayParser) Done() bool {
	return p.done
}

// Feed consumes the unread tail of buf, which must be the full stream
// text so far, and returns the elements completed since the last call.
// Slices that are not valid JSON objects are dropped, matching the
// object parser's tolerance for a provisional tail.
func (p *ArrayParser) Feed(buf string) []json.RawMessage {
	var out []json.RawMessage

	for p.pos < len(buf) && !p.done {
		if !p.inside {
			for p.pos < len(buf) && buf[p.pos] != '[' {
				p.pos++
			}
			if p.pos == len(buf) {
				return out
			}
			p.pos++
			p.inside = true
			continue
		}

		switch buf[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		case ']':
			p.pos++
			p.done = true
		case '{':
			end := scanObject(buf, p.pos)
			if end < 0 || end == len(buf) {
				return out
			}
			slice := buf[p.pos:end]
			p.pos = end
			if json.Valid([]byte(slice)) {
				out = append(out, json.RawMessage(slice))
			}
		default:
			p.pos++
		}
	}
	return out
}
