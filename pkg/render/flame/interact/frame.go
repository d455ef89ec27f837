package interact

import (
	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/layout"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/units"
)

// Frame appearance.
const (
	OpacityActive   = 1.0
	OpacityInactive = 0.7

	EmptyHeight = 400.0
	Placeholder = "No flame graph data"

	TooltipOffset = 12.0
	TooltipWidth  = 180.0
	TooltipHeight = 96.0
)

// TooltipPayload is the information shown when a frame is hovered.
type TooltipPayload struct {
	Label          string `json:"label"`
	FormattedValue string `json:"formatted_value"`
	Percentage     string `json:"percentage"` // of the total, two decimals
	ChildCount     int    `json:"child_count"`
}

// ActiveTooltip is the tooltip of the hovered frame, positioned inside the frame.
type ActiveTooltip struct {
	TooltipPayload
	X, Y float64
	Path flame.Path
}

// FrameRect is one rectangle ready to draw.
type FrameRect struct {
	layout.Rect
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Label       string
	FontSize    float64
	Highlighted bool // name matches the search
	Active      bool // hovered
	Zoomed      bool // zoom root
	Tooltip     TooltipPayload
}

// Frame is the complete rendering input for one state of the controller.
type Frame struct {
	Empty    bool
	Width    float64
	Height   float64
	Zoomed   bool
	ZoomPath flame.Path // zoom root within the full tree; rect paths are relative to it
	Search   string
	Total    int64
	Unit     string
	Rects    []FrameRect
	Tooltip  *ActiveTooltip
}

// TreePath converts a path relative to the zoom root into one within the
// full tree.
func (f Frame) TreePath(p flame.Path) flame.Path {
	if len(f.ZoomPath) == 0 {
		return p
	}
	return append(append(flame.Path{}, f.ZoomPath...), p...)
}

// Frame lays out the current root and decorates every rectangle. It also
// refreshes the index used by PointerMove and PointerClick.
func (c *Controller) Frame() Frame {
	root := c.Root()
	if root == nil {
		c.idx = nil
		return Frame{Empty: true, Width: c.width, Height: EmptyHeight, Unit: c.unit, Search: c.search}
	}

	l := layout.Build(root, c.width, c.layoutOpts...)
	total := c.Total()
	f := Frame{
		Width:  l.FrameWidth,
		Height: l.FrameHeight,
		Zoomed: c.zoomed != nil,
		Search: c.search,
		Total:  total,
		Unit:   c.unit,
		Rects:  make([]FrameRect, len(l.Rects)),
	}
	if c.zoomed != nil {
		f.ZoomPath, _ = flame.PathOf(c.tree, c.zoomed)
	}

	for i, r := range l.Rects {
		f.Rects[i] = c.decorate(r, total)
	}
	c.idx = newIndex(l)

	if c.tooltip != nil {
		for _, r := range f.Rects {
			if r.Node == c.tooltip.Node {
				f.Tooltip = c.place(r, f.Width, f.Height)
				break
			}
		}
	}
	return f
}

func (c *Controller) decorate(r layout.Rect, total int64) FrameRect {
	fr := FrameRect{
		Rect:        r,
		Fill:        styles.ColorFor(r.Node.Name, c.palette),
		Stroke:      styles.StrokeDefault,
		StrokeWidth: 1,
		Opacity:     OpacityInactive,
		Active:      r.Node == c.hovered,
		Zoomed:      r.Node == c.zoomed,
		Tooltip:     c.payload(r.Node, total),
	}
	if Matches(r.Node.Name, c.search) {
		fr.Highlighted = true
		fr.Stroke = styles.StrokeHighlight
		fr.StrokeWidth = 3
	}
	if fr.Active {
		fr.Opacity = OpacityActive
	}
	fr.Label, fr.FontSize, _ = styles.LabelFor(r.Node.Name, r.Width)
	return fr
}

func (c *Controller) payload(n *flame.Node, total int64) TooltipPayload {
	return TooltipPayload{
		Label:          styles.TooltipLabel(n.Name),
		FormattedValue: units.ToReadableValue(c.unit, n.Value),
		Percentage:     units.Percent(n.Value, total),
		ChildCount:     len(n.Children),
	}
}

// place anchors the tooltip below-right of the pointer and keeps it inside
// the frame.
func (c *Controller) place(r FrameRect, width, height float64) *ActiveTooltip {
	x := c.tooltip.X + TooltipOffset
	y := c.tooltip.Y + TooltipOffset
	if x+TooltipWidth > width {
		x = width - TooltipWidth
	}
	if y+TooltipHeight > height {
		y = height - TooltipHeight
	}
	return &ActiveTooltip{
		TooltipPayload: r.Tooltip,
		X:              max(0, x),
		Y:              max(0, y),
		Path:           r.Path,
	}
}
