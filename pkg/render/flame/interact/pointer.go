package interact

import (
	"sort"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/layout"
)

// index maps points to the rectangles of the last frame. Rows hold rect
// indices in left-to-right order; zero-width rects are left out.
type index struct {
	l    layout.Layout
	rows [][]int
}

func newIndex(l layout.Layout) *index {
	idx := &index{l: l, rows: make([][]int, l.MaxDepth)}
	for i, r := range l.Rects {
		if r.Width <= 0 {
			continue
		}
		idx.rows[r.Depth] = append(idx.rows[r.Depth], i)
	}
	return idx
}

func (idx *index) at(x, y float64) *layout.Rect {
	row := idx.l.Row(y)
	if row < 0 || row >= len(idx.rows) {
		return nil
	}
	ids := idx.rows[row]
	i := sort.Search(len(ids), func(i int) bool {
		return idx.l.Rects[ids[i]].Right() > x
	})
	if i == len(ids) {
		return nil
	}
	r := &idx.l.Rects[ids[i]]
	if !r.Contains(x, y) {
		return nil
	}
	return r
}

// HitTest returns the node drawn at (x, y) in the last frame, or nil. A
// frame is computed first if none is current.
func (c *Controller) HitTest(x, y float64) *flame.Node {
	if c.idx == nil {
		if c.Root() == nil {
			return nil
		}
		c.Frame()
	}
	if r := c.idx.at(x, y); r != nil {
		return r.Node
	}
	return nil
}

// PointerMove turns a pointer position into hover events. It reports
// whether the hover target or tooltip position changed.
func (c *Controller) PointerMove(x, y float64) bool {
	n := c.HitTest(x, y)
	if n == nil {
		if c.hovered == nil && c.tooltip == nil {
			return false
		}
		prev := c.hovered
		if prev == nil {
			prev = c.tooltip.Node
		}
		c.HoverLeave(prev)
		return true
	}
	if c.hovered != nil && c.hovered != n {
		c.HoverLeave(c.hovered)
	}
	if t := c.tooltip; t != nil && t.Node == n && t.X == x && t.Y == y {
		return false
	}
	c.HoverEnter(n, x, y)
	return true
}

// PointerClick zooms into the node at (x, y). It returns false when the
// point is on the background.
func (c *Controller) PointerClick(x, y float64) bool {
	n := c.HitTest(x, y)
	if n == nil {
		return false
	}
	c.Click(n)
	return true
}
