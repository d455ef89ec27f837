// Package render holds the flame-graph renderers and the shared format
// conversion they rely on.
//
// # Overview
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Flame graphs (in the flame subpackages)
//   - Call graphs as node-link diagrams (in [nodelink])
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both the flame sinks and the call-graph view use them.
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// # Flame Graphs
//
// The flame subpackages split the work the way the data flows:
//
//   - [flame/layout]: rectangle positions
//   - [flame/styles]: labels, colors, SVG shapes
//   - [flame/interact]: hover, zoom, search and resize state
//   - [flame/sink]: SVG, JSON, PNG and PDF output
//
// # Call Graphs
//
// [nodelink] aggregates the tree by frame name and renders it with Graphviz.
package render
