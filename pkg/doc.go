// Package pkg provides the core libraries for Inkgraph diagram interchange
// and layout.
//
// # Overview
//
// Inkgraph moves diagrams between tools through one canonical graph model
// and lays them out automatically. The pkg directory is organized around
// that flow:
//
//  1. [graph] - Canonical model (nodes, edges, anchors, normalization)
//  2. [sketch], [flowxml], [dsl] - Converters for external diagram formats
//  3. [layout], [collide], [branch] - Auto-layout, overlap resolution, branch classification
//  4. [stream] - Incremental parsing of partially written graph documents
//  5. [render], [cache], [observability] - Preview output and supporting infrastructure
//
// # Architecture
//
// The typical data flow through Inkgraph:
//
//	Sketch elements / Flowchart XML / DSL records
//	         ↓
//	    [sketch], [flowxml], [dsl] (convert into the canonical graph)
//	         ↓
//	    [layout] package (classify family, position nodes, assign anchors)
//	         ↓
//	    [collide] package (push residual overlaps apart)
//	         ↓
//	    Canonical graph JSON, or [render] previews (DOT/SVG/PNG)
//
// # Quick Start
//
// Convert a whiteboard sketch and lay it out:
//
//	elements := sketch.Normalize(parsed)
//	g := sketch.ToGraph(elements)
//	laid, err := layout.Layout(ctx, g, layout.Options{})
//
// Packages are synchronous and pure unless documented otherwise; callers
// own any concurrency.
package pkg
