package interact

import (
	"testing"

	"github.com/matzehuels/flametower/pkg/flame"
)

func TestHitTest(t *testing.T) {
	c := New(sample(), WithWidth(900))
	c.Frame()

	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"root", 450, rowY(0), "root"},
		{"left child", 10, rowY(1), "com.acme.FooHandler.run"},
		{"right child", 600, rowY(1), "com.acme.BarHandler.run"},
		{"boundary belongs to right", 540, rowY(1), "com.acme.BarHandler.run"},
		{"grandchild", 539, rowY(2), "C"},
		{"empty area beside grandchild", 700, rowY(2), ""},
		{"top margin", 450, 5, ""},
		{"past the right edge", 900, rowY(0), ""},
		{"below the graph", 450, rowY(5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.HitTest(tt.x, tt.y)
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Errorf("HitTest(%v, %v) = %q, want %q", tt.x, tt.y, name, tt.want)
			}
		})
	}
}

func TestHitTestSkipsZeroWidth(t *testing.T) {
	tree := flame.New("r", 1, flame.New("zero", 0), flame.New("one", 1))
	c := New(tree, WithWidth(100))
	if got := c.HitTest(0, rowY(1)); got == nil || got.Name != "one" {
		t.Errorf("HitTest(0, row 1) = %v, want one", got)
	}
}

func TestPointerMove(t *testing.T) {
	tree := sample()
	c := New(tree, WithWidth(900))
	c.Frame()

	if !c.PointerMove(10, rowY(1)) {
		t.Fatal("PointerMove() onto A reported no change")
	}
	if c.Hovered() != tree.Children[0] {
		t.Fatalf("Hovered() = %v, want A", c.Hovered())
	}
	if c.PointerMove(10, rowY(1)) {
		t.Error("PointerMove() to the same point reported a change")
	}

	if !c.PointerMove(600, rowY(1)) {
		t.Error("PointerMove() onto B reported no change")
	}
	if c.Hovered() != tree.Children[1] || c.Tooltip().Node != tree.Children[1] {
		t.Errorf("Hovered() = %v, want B", c.Hovered())
	}

	if !c.PointerMove(600, 2) {
		t.Error("PointerMove() off the graph reported no change")
	}
	if c.Hovered() != nil || c.Tooltip() != nil {
		t.Error("PointerMove() off the graph kept hover state")
	}
	if c.PointerMove(600, 3) {
		t.Error("PointerMove() across the background reported a change")
	}
}

func TestPointerClick(t *testing.T) {
	tree := sample()
	var rec zoomRecorder
	c := New(tree, WithWidth(900), WithOnZoomChange(rec.record))

	if c.PointerClick(450, 2) {
		t.Error("PointerClick() on background = true, want false")
	}
	if !c.PointerClick(600, rowY(1)) {
		t.Fatal("PointerClick() on B = false, want true")
	}
	if c.Zoomed() != tree.Children[1] {
		t.Errorf("Zoomed() = %v, want B", c.Zoomed())
	}

	// after zooming the index follows the new layout: B spans the full width
	if got := c.HitTest(10, rowY(0)); got != tree.Children[1] {
		t.Errorf("HitTest after zoom = %v, want B", got)
	}
	if len(rec.calls) != 1 {
		t.Errorf("notifications = %d, want 1", len(rec.calls))
	}
}

func TestTooltipPlacement(t *testing.T) {
	tree := sample()
	c := New(tree, WithWidth(900))
	c.Frame()

	c.PointerMove(10, rowY(1))
	f := c.Frame()
	if f.Tooltip == nil {
		t.Fatal("Frame().Tooltip = nil after hover")
	}
	if f.Tooltip.X != 10+TooltipOffset {
		t.Errorf("Tooltip.X = %v, want %v", f.Tooltip.X, 10+TooltipOffset)
	}
	if f.Tooltip.Path.String() != "0" {
		t.Errorf("Tooltip.Path = %q, want \"0\"", f.Tooltip.Path.String())
	}

	c.PointerMove(890, rowY(1))
	f = c.Frame()
	if f.Tooltip == nil {
		t.Fatal("Frame().Tooltip = nil near the right edge")
	}
	if f.Tooltip.X != 900-TooltipWidth {
		t.Errorf("clamped Tooltip.X = %v, want %v", f.Tooltip.X, 900-TooltipWidth)
	}
	if f.Tooltip.Y+TooltipHeight > f.Height {
		t.Errorf("Tooltip bottom %v exceeds frame height %v", f.Tooltip.Y+TooltipHeight, f.Height)
	}
}
