// Package sink provides output format renderers for flame graphs.
//
// # Overview
//
// A "sink" transforms a computed [interact.Frame] into a final output format:
//
//   - SVG: vector output with hover tooltips and search highlight
//   - JSON: frame data for external tools and the HTTP API
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] writes one rect and one optional label per frame. With
// [WithInteractive] it embeds a small script that shows a tooltip on hover
// and highlights frames matching a typed search ("/" to search). With
// [WithZoomURL] every frame links to base?zoom=<path> and a double click on
// the background returns to base, so a server can drive zoom through the
// Interaction Controller.
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithStyle(styles.Simple{}),
//	    sink.WithInteractive(),
//	    sink.WithZoomURL("/api/files/42/flamegraph.svg?dimension=cpu"),
//	)
//
// An empty frame renders the "No flame graph data" placeholder.
//
// # JSON Output
//
// [RenderJSON] emits geometry, fills, labels and tooltip payloads:
//
//	data, err := sink.RenderJSON(frame)
//
// # PNG and PDF
//
// [RenderPNG] and [RenderPDF] render SVG first and convert it with
// rsvg-convert. They default to the opaque [styles.Print] style.
package sink
