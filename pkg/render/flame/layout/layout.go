package layout

import "github.com/matzehuels/flametower/pkg/flame"

// Geometry defaults, in pixels.
const (
	RowHeight    = 32.0
	RowGap       = 4.0
	TopMargin    = 20.0
	BottomMargin = 20.0
	MinHeight    = 120.0
	MinWidth     = 300.0
)

// Layout is the result of laying out one tree at one width.
type Layout struct {
	FrameWidth  float64
	FrameHeight float64
	MaxDepth    int
	RowHeight   float64
	RowGap      float64
	TopMargin   float64
	Rects       []Rect // pre-order: a parent precedes its children
}

// Row returns the depth of the row covering y, or -1 when y falls in a margin
// or a gap.
func (l Layout) Row(y float64) int {
	pitch := l.RowHeight + l.RowGap
	if pitch <= 0 || y < l.TopMargin {
		return -1
	}
	off := y - l.TopMargin
	row := int(off / pitch)
	if row >= l.MaxDepth || off-float64(row)*pitch >= l.RowHeight {
		return -1
	}
	return row
}

type config struct {
	rowHeight    float64
	rowGap       float64
	topMargin    float64
	bottomMargin float64
	minHeight    float64
}

// Option configures [Build].
type Option func(*config)

// WithRowHeight sets the height of each row.
func WithRowHeight(h float64) Option { return func(c *config) { c.rowHeight = h } }

// WithRowGap sets the vertical gap between rows.
func WithRowGap(g float64) Option { return func(c *config) { c.rowGap = g } }

// WithTopMargin sets the space above the root row.
func WithTopMargin(m float64) Option { return func(c *config) { c.topMargin = m } }

// WithBottomMargin sets the space below the deepest row.
func WithBottomMargin(m float64) Option { return func(c *config) { c.bottomMargin = m } }

// WithMinHeight sets the lower bound of the frame height.
func WithMinHeight(h float64) Option { return func(c *config) { c.minHeight = h } }

// Build lays out the tree rooted at root across width. A nil root yields a
// layout with no rectangles and the minimum height.
func Build(root *flame.Node, width float64, opts ...Option) Layout {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	if width < 0 {
		width = 0
	}

	depth := flame.MaxDepth(root)
	l := Layout{
		FrameWidth:  width,
		FrameHeight: cfg.height(depth),
		MaxDepth:    depth,
		RowHeight:   cfg.rowHeight,
		RowGap:      cfg.rowGap,
		TopMargin:   cfg.topMargin,
	}
	if root == nil {
		return l
	}

	l.Rects = make([]Rect, 0, flame.Count(root))
	b := builder{cfg: cfg, rects: l.Rects}
	b.place(root, flame.Path{}, 0, width, 0)
	l.Rects = b.rects
	return l
}

func (c config) height(depth int) float64 {
	h := float64(depth)*(c.rowHeight+c.rowGap) + c.topMargin + c.bottomMargin
	if h < c.minHeight {
		return c.minHeight
	}
	return h
}

// FrameHeight returns the frame height of a tree with the default geometry.
func FrameHeight(root *flame.Node) float64 {
	return defaults().height(flame.MaxDepth(root))
}

func defaults() config {
	return config{
		rowHeight:    RowHeight,
		rowGap:       RowGap,
		topMargin:    TopMargin,
		bottomMargin: BottomMargin,
		minHeight:    MinHeight,
	}
}

type builder struct {
	cfg   config
	rects []Rect
}

func (b *builder) place(n *flame.Node, p flame.Path, x, width float64, depth int) {
	b.rects = append(b.rects, Rect{
		Node:   n,
		Path:   p,
		X:      x,
		Y:      b.cfg.topMargin + float64(depth)*(b.cfg.rowHeight+b.cfg.rowGap),
		Width:  width,
		Height: b.cfg.rowHeight,
		Depth:  depth,
	})
	if len(n.Children) == 0 {
		return
	}

	sum := float64(n.ChildSum())
	if sum == 0 {
		sum = 1
	}
	childX := x
	for i, c := range n.Children {
		w := width * (float64(c.Weight()) / sum)
		b.place(c, p.Child(i), childX, w, depth+1)
		childX += w
	}
}
