// Package layout computes rectangle positions for flame graphs.
//
// # Overview
//
// A flame graph draws one call-stack depth per row. The root spans the full
// frame width; each node's children split the node's width in proportion to
// their values, left to right in child order. [Build] walks the tree once and
// returns a flat [Layout] whose rectangles are the only input a renderer
// needs.
//
// # Width Allocation
//
// For a node of width w whose children sum to s, a child of value v gets
// w*v/s. Children always consume the full parent width, whatever the parent's
// own value: self time gets no reserved gap. A group of zero-valued children
// divides by 1 instead of 0 and collapses to zero-width rectangles.
//
// # Height Calculation
//
// Rows are [RowHeight] tall and separated by [RowGap]. The first row starts at
// [TopMargin]; the frame adds [BottomMargin] below the deepest row and is
// clamped to [MinHeight]:
//
//	height = max(MinHeight, MaxDepth*(RowHeight+RowGap) + TopMargin + BottomMargin)
//
// # Building a Layout
//
//	l := layout.Build(root, 900)
//	for _, r := range l.Rects {
//	    fmt.Println(r.Node.Name, r.X, r.Width)
//	}
//
// The terminal viewer lays out in character cells:
//
//	l := layout.Build(root, float64(cols),
//	    layout.WithRowHeight(1),
//	    layout.WithRowGap(0),
//	    layout.WithTopMargin(0),
//	    layout.WithBottomMargin(0),
//	    layout.WithMinHeight(0),
//	)
//
// # Options
//
//   - [WithRowHeight]: row height (default [RowHeight])
//   - [WithRowGap]: gap between rows (default [RowGap])
//   - [WithTopMargin]: space above the first row (default [TopMargin])
//   - [WithBottomMargin]: space below the last row (default [BottomMargin])
//   - [WithMinHeight]: lower bound for the frame height (default [MinHeight])
//
// Build is deterministic and keeps no state between calls.
package layout
