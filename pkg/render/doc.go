// Package render turns canonical graphs into Graphviz DOT and rasters
// the result to SVG or PNG.
//
// Rendering is a preview surface, not a layout authority: positions
// computed by the layout engine are not fed into Graphviz, which runs
// its own placement from the graph structure alone. Use [ToDOT] to
// build the DOT text, then [RenderSVG] or [RenderPNG]:
//
//	dot := render.ToDOT(g, render.Options{Direction: layout.DirectionRight})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Containers become dashed clusters, kinds map to their conventional
// shapes (diamond for decisions, cylinder for database entities), and
// tree graphs can be colored per mind-map branch with
// [Options.BranchColors].
package render
