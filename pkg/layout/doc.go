// Package layout positions the nodes of a canonical graph and resolves
// edge anchor sides.
//
// The engine picks an algorithm family from the shape of the graph: a
// rooted tree gets a tidy tree layout tuned for mind-map style branching,
// a flat or multi-component hierarchy gets a layered directed layout
// (cycle breaking, longest-path layering, barycenter ordering), and a
// dense or cyclic graph falls back to a force-directed simulation. The
// classification is a pure function, so each family stays independently
// testable.
//
// The caller may pin the direction (one of four axis directions) and the
// X/Y spacing; otherwise the engine infers a direction from the graph's
// depth/breadth profile. After positioning, edge anchors are chosen to
// minimize line length while staying consistent with the global
// direction, and the collision resolver separates any residual overlaps.
//
// Failure semantics: a family that panics or outlives the caller's
// context causes [Layout] to return the input graph unchanged together
// with a recoverable error - never a half-updated layout.
package layout
