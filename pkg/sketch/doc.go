// Package sketch converts between the canonical graph and the freeform
// whiteboard element format: flat lists of typed shape primitives
// (rectangle, diamond, ellipse, text) plus arrows and lines that bind to
// other elements by ID.
//
// Both directions are lossy-aware. Converting a graph to elements maps
// unknown node kinds to a generic rectangle; converting elements to a
// graph drops any arrow whose bindings do not resolve - losing an edge is
// preferred over inventing a wrong connection. Text elements bound to a
// container become label attributes; freestanding text becomes a text
// node.
//
// [Normalize] enforces the ordering contract several external consumers
// require (shapes and text before arrows and lines) and repairs minor
// ID-convention drift between producers.
package sketch
