package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Read decodes a canonical graph from JSON.
//
// The input must be an object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "kind": "box"}, {"id": "b"}],
//	  "edges": [{"id": "e1", "source": "a", "target": "b"}]
//	}
//
// The decoded graph is normalized: nodes with duplicate or empty IDs and
// edges with unresolved endpoints are dropped rather than reported as
// errors. Only malformed JSON fails. Read does not close r.
func Read(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode graph: %w", err)
	}
	return g.Normalize(), nil
}

// Write encodes the graph as indented JSON. It does not close w.
func Write(w io.Writer, g Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// ReadFile reads and normalizes a canonical graph from a JSON file.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, err
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes the graph to path as indented JSON.
func WriteFile(path string, g Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
