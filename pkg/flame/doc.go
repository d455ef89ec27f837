// Package flame defines the weighted call tree rendered by flametower.
//
// A [Node] is one frame of a call stack: a name (often a dotted
// package.class.method path), a non-negative weight in the unit of the
// current dimension (nanoseconds, bytes, samples) and an ordered list of
// children. Child order is significant: it is the left-to-right order of
// the rectangles in a flame graph.
//
// Children may sum to less, equal or more than their parent's value. The
// renderers do not reserve space for self time; they renormalize children
// to the parent's full width.
//
// # Helpers
//
//   - [MaxDepth], [TotalWeight]: sizing a canvas and computing percentages
//   - [Path], [Locate]: addressing a node by child indices (zoom URLs)
//   - [Merge]: combining per-thread trees into one
//   - [Compute]: summary statistics and the heaviest frames by self weight
//   - [Validate]: rejecting trees that come from untrusted input
//
// Trees are treated as immutable once handed to a renderer.
package flame
