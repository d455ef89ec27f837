package interact

import (
	"reflect"
	"testing"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/layout"
	"github.com/matzehuels/flametower/pkg/units"
)

func sample() *flame.Node {
	return flame.New("root", 100,
		flame.New("com.acme.FooHandler.run", 60, flame.New("C", 40)),
		flame.New("com.acme.BarHandler.run", 40),
	)
}

// rowY returns a y coordinate inside the given row with default geometry.
func rowY(depth int) float64 {
	return layout.TopMargin + float64(depth)*(layout.RowHeight+layout.RowGap) + layout.RowHeight/2
}

func findRect(f Frame, name string) (FrameRect, bool) {
	for _, r := range f.Rects {
		if r.Node.Name == name {
			return r, true
		}
	}
	return FrameRect{}, false
}

type zoomRecorder struct {
	calls []*flame.Node
}

func (z *zoomRecorder) record(n *flame.Node) { z.calls = append(z.calls, n) }

func TestHoverEnterLeave(t *testing.T) {
	tree := sample()
	a, b := tree.Children[0], tree.Children[1]
	c := New(tree)

	c.HoverEnter(a, 10, 20)
	if c.Hovered() != a {
		t.Fatalf("Hovered() = %v, want A", c.Hovered())
	}
	if tt := c.Tooltip(); tt == nil || tt.Node != a || tt.X != 10 || tt.Y != 20 {
		t.Fatalf("Tooltip() = %+v, want A at (10,20)", tt)
	}

	// a newer hover must survive a late leave for the old node
	c.HoverEnter(b, 30, 40)
	c.HoverLeave(a)
	if c.Hovered() != b {
		t.Errorf("Hovered() after stale leave = %v, want B", c.Hovered())
	}
	if tt := c.Tooltip(); tt == nil || tt.Node != b {
		t.Errorf("Tooltip() after stale leave = %+v, want B", tt)
	}

	c.HoverLeave(b)
	if c.Hovered() != nil || c.Tooltip() != nil {
		t.Errorf("after leave: Hovered() = %v, Tooltip() = %v, want nil", c.Hovered(), c.Tooltip())
	}
}

func TestZoomNotifications(t *testing.T) {
	tree := sample()
	a, b := tree.Children[0], tree.Children[1]
	var rec zoomRecorder
	c := New(tree, WithOnZoomChange(rec.record))

	c.ResetZoom() // already unzoomed
	if len(rec.calls) != 0 {
		t.Fatalf("ResetZoom() on unzoomed fired %d notifications", len(rec.calls))
	}

	c.Click(a)
	c.Click(a) // no-op
	if c.Zoomed() != a {
		t.Errorf("Zoomed() = %v, want A", c.Zoomed())
	}

	c.Click(b) // replaces, no stack
	if c.Root() != b {
		t.Errorf("Root() = %v, want B", c.Root())
	}

	c.DoubleClick()
	c.DoubleClick()
	c.ResetZoom()

	want := []*flame.Node{a, b, nil}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("notifications = %v, want %v", names(rec.calls), names(want))
	}
	if c.Zoomed() != nil {
		t.Errorf("Zoomed() = %v, want nil", c.Zoomed())
	}
}

func names(ns []*flame.Node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		if n == nil {
			out[i] = "<nil>"
		} else {
			out[i] = n.Name
		}
	}
	return out
}

func TestZoomRoundTripRestoresFrame(t *testing.T) {
	tree := sample()
	c := New(tree, WithWidth(900))
	before := c.Frame()

	c.Click(tree.Children[0])
	zoomed := c.Frame()
	if len(zoomed.Rects) != 2 {
		t.Fatalf("zoomed frame has %d rects, want 2", len(zoomed.Rects))
	}
	if zoomed.Rects[0].Width != 900 || zoomed.Rects[0].X != 0 {
		t.Errorf("zoom root rect = x %v w %v, want x 0 w 900", zoomed.Rects[0].X, zoomed.Rects[0].Width)
	}
	if !zoomed.Zoomed || !zoomed.Rects[0].Zoomed {
		t.Error("zoomed frame not flagged as zoomed")
	}

	c.ResetZoom()
	if after := c.Frame(); !reflect.DeepEqual(before, after) {
		t.Error("Frame() after Click+ResetZoom differs from the original frame")
	}

	c.Click(tree.Children[1])
	c.DoubleClick()
	if after := c.Frame(); !reflect.DeepEqual(before, after) {
		t.Error("Frame() after Click+DoubleClick differs from the original frame")
	}
}

func TestResizeKeepsState(t *testing.T) {
	tree := sample()
	a := tree.Children[0]
	c := New(tree, WithWidth(900))
	c.Click(a)
	c.HoverEnter(a.Children[0], 5, 5)

	c.Resize(450)
	c.Resize(0)  // ignored
	c.Resize(-3) // ignored

	if c.Width() != 450 {
		t.Errorf("Width() = %v, want 450", c.Width())
	}
	if c.Zoomed() != a || c.Hovered() != a.Children[0] || c.Tooltip() == nil {
		t.Error("Resize() changed zoom or hover state")
	}
	f := c.Frame()
	if f.Rects[0].Width != 450 {
		t.Errorf("root width after resize = %v, want 450", f.Rects[0].Width)
	}
}

func TestSearchHighlight(t *testing.T) {
	c := New(sample(), WithWidth(900))
	plain := c.Frame()

	c.SearchChange("foo")
	f := c.Frame()

	foo, _ := findRect(f, "com.acme.FooHandler.run")
	bar, _ := findRect(f, "com.acme.BarHandler.run")
	if !foo.Highlighted {
		t.Error("FooHandler not highlighted for search \"foo\"")
	}
	if foo.Stroke != "#ff8200" || foo.StrokeWidth != 3 {
		t.Errorf("highlight stroke = %s/%v, want #ff8200/3", foo.Stroke, foo.StrokeWidth)
	}
	if bar.Highlighted {
		t.Error("BarHandler highlighted for search \"foo\"")
	}

	for i := range f.Rects {
		if f.Rects[i].Rect.X != plain.Rects[i].Rect.X || f.Rects[i].Rect.Width != plain.Rects[i].Rect.Width {
			t.Fatal("SearchChange() altered layout geometry")
		}
	}

	for _, blank := range []string{"", "   ", "\t"} {
		c.SearchChange(blank)
		for _, r := range c.Frame().Rects {
			if r.Highlighted {
				t.Errorf("search %q highlighted %s", blank, r.Node.Name)
			}
		}
	}
}

func TestHighlightAndZoomAreOrthogonal(t *testing.T) {
	tree := sample()
	c := New(tree, WithSearch("FOOHANDLER"))
	c.Click(tree.Children[0])
	f := c.Frame()
	root := f.Rects[0]
	if !root.Zoomed || !root.Highlighted {
		t.Errorf("zoom root: Zoomed=%v Highlighted=%v, want both true", root.Zoomed, root.Highlighted)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name, search string
		want         bool
	}{
		{"com.acme.FooHandler.run", "foo", true},
		{"com.acme.BarHandler.run", "foo", false},
		{"com.acme.FooHandler.run", "HANDLER.R", true},
		{"anything", "", false},
		{"anything", "  ", false},
		{"数据处理器", "处理", true},
	}
	for _, tt := range tests {
		if got := Matches(tt.name, tt.search); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.name, tt.search, got, tt.want)
		}
	}
}

func TestEmptyTree(t *testing.T) {
	var rec zoomRecorder
	c := New(nil, WithOnZoomChange(rec.record))
	f := c.Frame()
	if !f.Empty || len(f.Rects) != 0 {
		t.Errorf("Frame() = %+v, want empty", f)
	}
	if f.Height != EmptyHeight {
		t.Errorf("Height = %v, want %v", f.Height, EmptyHeight)
	}
	if c.PointerMove(10, 30) {
		t.Error("PointerMove() on empty tree reported a change")
	}
	c.ResetZoom()
	if len(rec.calls) != 0 {
		t.Errorf("notifications = %d, want 0", len(rec.calls))
	}
}

func TestSetTree(t *testing.T) {
	tree := sample()
	var rec zoomRecorder
	c := New(tree, WithOnZoomChange(rec.record))
	c.Click(tree.Children[0])
	c.HoverEnter(tree.Children[1], 1, 1)

	// same reference keeps state, even if contents changed
	tree.Children[1].Value = 45
	c.SetTree(tree)
	if c.Zoomed() == nil || c.Hovered() == nil {
		t.Error("SetTree(same) reset state")
	}

	c.SetTree(sample())
	if c.Zoomed() != nil || c.Hovered() != nil || c.Tooltip() != nil {
		t.Error("SetTree(new) did not reset state")
	}
	if len(rec.calls) != 2 || rec.calls[1] != nil {
		t.Errorf("notifications = %v, want [A <nil>]", names(rec.calls))
	}
}

func TestTooltipPayload(t *testing.T) {
	tree := sample()
	c := New(tree, WithWidth(900))
	f := c.Frame()

	foo, _ := findRect(f, "com.acme.FooHandler.run")
	want := TooltipPayload{
		Label:          "com.acme.FooHandler.run",
		FormattedValue: "60ns",
		Percentage:     "60.00",
		ChildCount:     1,
	}
	if foo.Tooltip != want {
		t.Errorf("Tooltip = %+v, want %+v", foo.Tooltip, want)
	}

	// zoomed: percentages relative to the zoom root by default
	c.Click(tree.Children[0])
	f = c.Frame()
	child, _ := findRect(f, "C")
	if child.Tooltip.Percentage != "66.67" {
		t.Errorf("zoomed Percentage = %s, want 66.67", child.Tooltip.Percentage)
	}

	// override keeps the un-zoomed total
	c.SetTotal(100)
	f = c.Frame()
	child, _ = findRect(f, "C")
	if child.Tooltip.Percentage != "40.00" {
		t.Errorf("overridden Percentage = %s, want 40.00", child.Tooltip.Percentage)
	}
}

func TestTooltipUnit(t *testing.T) {
	tree := flame.New("all", 3*1024*1024)
	c := New(tree, WithUnit(units.Bytes))
	r := c.Frame().Rects[0]
	if r.Tooltip.FormattedValue != "3MB" {
		t.Errorf("FormattedValue = %s, want 3MB", r.Tooltip.FormattedValue)
	}
}

func TestFrameAppearance(t *testing.T) {
	tree := sample()
	c := New(tree, WithWidth(900), WithPalette([]string{"#111111"}))
	c.HoverEnter(tree.Children[1], 0, 0)
	f := c.Frame()
	for _, r := range f.Rects {
		if r.Fill != "#111111" {
			t.Errorf("%s: Fill = %s, want #111111", r.Node.Name, r.Fill)
		}
		wantOpacity := OpacityInactive
		if r.Node == tree.Children[1] {
			wantOpacity = OpacityActive
		}
		if r.Opacity != wantOpacity {
			t.Errorf("%s: Opacity = %v, want %v", r.Node.Name, r.Opacity, wantOpacity)
		}
	}
	root, _ := findRect(f, "root")
	if root.Label != "root" || root.FontSize != 14 {
		t.Errorf("root label = %q @ %v, want \"root\" @ 14", root.Label, root.FontSize)
	}
}
