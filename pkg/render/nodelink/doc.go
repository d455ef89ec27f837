// Package nodelink renders a flame tree as a call graph.
//
// # Overview
//
// A flame graph shows every stack separately; the same function called from
// two places appears twice. The call graph aggregates frames by name instead:
// each function is one box, and an arrow from caller to callee carries the
// weight spent in that call.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{MinPercent: 1, Unit: units.Nanoseconds})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG], or
// use [RenderPDF] and [RenderPNG].
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded,
// filled boxes. Fills come from the flame graph palette so a function has the
// same color in both views. Edge pen width grows with the edge's share of
// the total.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
