package layout

import "github.com/matzehuels/flametower/pkg/flame"

// Rect is one positioned frame. Coordinates have the origin at the top-left
// with Y increasing downward.
type Rect struct {
	Node   *flame.Node
	Path   flame.Path
	X, Y   float64
	Width  float64
	Height float64
	Depth  int
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterY returns the vertical center, used as the text baseline anchor.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point lies inside the rectangle. Zero-width
// rectangles contain nothing.
func (r Rect) Contains(x, y float64) bool {
	if r.Width <= 0 {
		return false
	}
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
