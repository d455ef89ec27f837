// Package interact owns the transient state of an interactive flame graph
// and turns it into renderable frames.
//
// A [Controller] holds the tree, the hovered node and its tooltip, the zoom
// root, the container width and the search text. Surfaces (the terminal
// viewer, the SVG endpoint) feed it events and call [Controller.Frame] to get
// a freshly computed [Frame]: every rectangle with its fill, label,
// highlight flag and tooltip payload.
//
// # Events
//
//   - HoverEnter / HoverLeave: hover and tooltip; a leave only clears state
//     belonging to the node that is left
//   - Click: zoom into a node, replacing any previous zoom root
//   - DoubleClick / ResetZoom: return to the full tree
//   - Resize: new container width, geometry only
//   - SearchChange: case-insensitive substring highlight
//
// There is no zoom stack: clicking while zoomed replaces the root directly.
// The zoom callback fires once per real transition.
//
// # Pointer input
//
// [Controller.PointerMove] and [Controller.PointerClick] locate the frame
// under a point using a row index built by the last call to Frame, so
// pointer events cost a binary search rather than a tree walk.
//
// A Controller is meant for a single owner and is not safe for concurrent
// use.
package interact
