package interact

import (
	"math"
	"strings"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/layout"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/units"
)

// DefaultWidth is the container width used until the surface reports one.
const DefaultWidth = 900.0

// Tooltip is the hover tooltip anchored at a pointer position.
type Tooltip struct {
	X, Y float64
	Node *flame.Node
}

// Controller is the interaction state machine of one flame graph.
type Controller struct {
	tree    *flame.Node
	hovered *flame.Node
	tooltip *Tooltip
	zoomed  *flame.Node
	width   float64
	search  string

	total      int64
	unit       string
	palette    []string
	onZoom     func(*flame.Node)
	layoutOpts []layout.Option

	idx *index
}

// Option configures a [Controller].
type Option func(*Controller)

// WithWidth fixes the initial container width. Without it the controller
// starts at [DefaultWidth] and expects the surface to call Resize.
func WithWidth(w float64) Option {
	return func(c *Controller) {
		if validWidth(w) {
			c.width = w
		}
	}
}

// WithTotal makes percentages relative to total instead of the zoom root.
func WithTotal(total int64) Option { return func(c *Controller) { c.total = total } }

// WithUnit sets the unit used to format tooltip values ("ns", "byte", ...).
func WithUnit(unit string) Option { return func(c *Controller) { c.unit = unit } }

// WithSearch sets the initial search text.
func WithSearch(text string) Option { return func(c *Controller) { c.search = text } }

// WithPalette overrides the fill palette.
func WithPalette(p []string) Option {
	return func(c *Controller) {
		if len(p) > 0 {
			c.palette = p
		}
	}
}

// WithOnZoomChange registers the zoom callback. It receives the new zoom
// root, or nil when the zoom is cleared.
func WithOnZoomChange(fn func(*flame.Node)) Option { return func(c *Controller) { c.onZoom = fn } }

// WithLayout passes options to the layout engine.
func WithLayout(opts ...layout.Option) Option {
	return func(c *Controller) { c.layoutOpts = append(c.layoutOpts, opts...) }
}

// New returns a controller for tree, which may be nil.
func New(tree *flame.Node, opts ...Option) *Controller {
	c := &Controller{
		tree:    tree,
		width:   DefaultWidth,
		unit:    units.Nanoseconds,
		palette: styles.DefaultPalette,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTree replaces the tree. A different tree resets hover, tooltip and zoom
// (notifying the zoom callback if a zoom was active); the same pointer keeps
// all state.
func (c *Controller) SetTree(tree *flame.Node) {
	if tree == c.tree {
		return
	}
	c.tree = tree
	c.hovered = nil
	c.tooltip = nil
	c.idx = nil
	c.setZoom(nil)
}

// SetTotal changes the percentage total; zero restores the zoom root's weight.
func (c *Controller) SetTotal(total int64) { c.total = total }

// SetUnit changes the unit used in tooltips.
func (c *Controller) SetUnit(unit string) { c.unit = unit }

// HoverEnter marks node as hovered with its tooltip at (x, y).
func (c *Controller) HoverEnter(node *flame.Node, x, y float64) {
	if node == nil {
		return
	}
	c.hovered = node
	c.tooltip = &Tooltip{X: x, Y: y, Node: node}
}

// HoverLeave clears the hover and tooltip if they belong to node.
func (c *Controller) HoverLeave(node *flame.Node) {
	if node == nil {
		return
	}
	if c.tooltip != nil && c.tooltip.Node == node {
		c.tooltip = nil
	}
	if c.hovered == node {
		c.hovered = nil
	}
}

// Click zooms into node.
func (c *Controller) Click(node *flame.Node) {
	if node == nil {
		return
	}
	c.setZoom(node)
}

// DoubleClick handles a double click on the background: the zoom is cleared.
func (c *Controller) DoubleClick() { c.setZoom(nil) }

// ResetZoom clears the zoom. It is safe to call when nothing is zoomed.
func (c *Controller) ResetZoom() { c.setZoom(nil) }

// Resize updates the container width. Non-positive widths are ignored.
func (c *Controller) Resize(width float64) {
	if !validWidth(width) || width == c.width {
		return
	}
	c.width = width
	c.idx = nil
}

// SearchChange updates the highlight text.
func (c *Controller) SearchChange(text string) { c.search = text }

func (c *Controller) setZoom(node *flame.Node) {
	if node == c.zoomed {
		return
	}
	c.zoomed = node
	c.idx = nil
	if c.onZoom != nil {
		c.onZoom(node)
	}
}

// Tree returns the full tree.
func (c *Controller) Tree() *flame.Node { return c.tree }

// Root returns the layout root: the zoom root if set, otherwise the tree.
func (c *Controller) Root() *flame.Node {
	if c.zoomed != nil {
		return c.zoomed
	}
	return c.tree
}

// Zoomed returns the zoom root, or nil.
func (c *Controller) Zoomed() *flame.Node { return c.zoomed }

// Hovered returns the hovered node, or nil.
func (c *Controller) Hovered() *flame.Node { return c.hovered }

// Tooltip returns a copy of the current tooltip, or nil.
func (c *Controller) Tooltip() *Tooltip {
	if c.tooltip == nil {
		return nil
	}
	t := *c.tooltip
	return &t
}

// Width returns the container width.
func (c *Controller) Width() float64 { return c.width }

// Search returns the search text.
func (c *Controller) Search() string { return c.search }

// Unit returns the tooltip unit.
func (c *Controller) Unit() string { return c.unit }

// Total returns the weight percentages are computed against.
func (c *Controller) Total() int64 {
	if c.total > 0 {
		return c.total
	}
	return flame.TotalWeight(c.Root())
}

// Matches reports whether name contains search, ignoring case. Blank search
// text matches nothing.
func Matches(name, search string) bool {
	if strings.TrimSpace(search) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}
