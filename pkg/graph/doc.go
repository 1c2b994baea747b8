// Package graph defines the canonical diagram model shared by every
// converter and layout component.
//
// A [Graph] is a flat list of nodes and edges, independent of any external
// file format. Nodes carry an optional position and size (absent until a
// layout runs) plus an open attribute map for per-kind fields such as
// labels, colors, and icon references. Edges reference nodes by ID and
// optionally pin the side of the node a connection leaves or enters.
//
// The model is a plain serialization type: components never mutate a
// caller's graph in place, they return new graphs. Use [Graph.Normalize]
// to enforce the structural invariants (unique node IDs, no dangling
// edges) after importing from an untrusted source.
package graph
