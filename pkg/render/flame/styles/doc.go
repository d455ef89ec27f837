// Package styles turns laid-out flame-graph frames into SVG and decides how
// each frame is labeled and colored.
//
// # Labels
//
// [FormatLabel] decides what text fits inside a frame of a given width.
// Character widths are estimated per rune in three tiers (wide/CJK, ASCII
// letters and digits, everything else) so mixed-script names are measured
// sensibly without a font. When a dotted name such as
// com.acme.FooHandler.run does not fit, the formatter prefers keeping the
// meaningful tail (…run, FooHandler.run) before falling back to plain
// truncation with an ellipsis.
//
// [FontSize] picks the font size from a small tier table keyed by frame
// width; [LabelFor] combines both so the size used for fitting is the size
// that gets rendered.
//
// [TooltipLabel] shapes the longer tooltip title.
//
// # Colors
//
// [ColorFor] maps a frame name to a palette entry with a stable string hash,
// so the same function gets the same color everywhere.
//
// # Styles
//
// A [Style] writes the SVG for one [Rect]. [Simple] reproduces the interactive
// look (rounded corners, translucent frames, orange search outline); [Print]
// is opaque for static PNG/PDF output.
package styles
