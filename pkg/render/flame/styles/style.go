package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flametower/pkg/errors"
)

// Style names accepted by [ByName].
const (
	StyleSimple = "simple"
	StylePrint  = "print"
)

// Frame outline colors.
const (
	StrokeDefault   = "#fff"
	StrokeHighlight = "#ff8200"
)

// Style defines the visual appearance of a flame graph.
type Style interface {
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderRect writes the SVG shape for one frame.
	RenderRect(buf *bytes.Buffer, r Rect)
	// RenderText writes the frame's label, if it has one.
	RenderText(buf *bytes.Buffer, r Rect)
}

// Rect contains all data needed to render a single frame.
type Rect struct {
	ID          string  // Element id suffix, derived from the node path
	Name        string  // Full frame name
	Label       string  // Display text (may be empty)
	X, Y, W, H  float64 // Position and dimensions
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	FontSize    float64
	URL         string // Optional link target (zoom)
	Title       string // Plain-text tooltip
	Highlighted bool   // Matches the active search
	Active      bool   // Currently hovered
	Zoomed      bool   // Current zoom root
}

func (r Rect) class() string {
	c := "frame"
	if r.Highlighted {
		c += " highlighted"
	}
	if r.Zoomed {
		c += " zoomed"
	}
	return c
}

// ByName returns the style registered under name. An empty name is [Simple].
func ByName(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StylePrint:
		return Print{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, StyleSimple, StylePrint)
}

// Simple is the interactive look: rounded, translucent frames that become
// opaque on hover.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .frame { cursor: pointer; }
    .frame:hover { opacity: 1; }
    text { font-family: Menlo, Consolas, "DejaVu Sans Mono", monospace; user-select: none; }
  </style>
`)
}

func (Simple) RenderRect(buf *bytes.Buffer, r Rect) {
	writeRect(buf, r, 4, r.Opacity)
}

func (Simple) RenderText(buf *bytes.Buffer, r Rect) {
	writeText(buf, r, "#222")
}

// Print is opaque with square corners, for PNG and PDF output.
type Print struct{}

func (Print) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    text { font-family: "DejaVu Sans Mono", monospace; }
  </style>
`)
}

func (Print) RenderRect(buf *bytes.Buffer, r Rect) {
	writeRect(buf, r, 0, 1)
}

func (Print) RenderText(buf *bytes.Buffer, r Rect) {
	writeText(buf, r, "#000")
}

func writeRect(buf *bytes.Buffer, r Rect, rx, opacity float64) {
	stroke := r.Stroke
	if stroke == "" {
		stroke = StrokeDefault
	}
	sw := r.StrokeWidth
	if sw == 0 {
		sw = 1
	}
	fmt.Fprintf(buf, `  <rect id="frame-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%g" fill="%s" stroke="%s" stroke-width="%g" opacity="%g" data-name="%s">`,
		EscapeXML(r.ID), r.class(), r.X, r.Y, r.W, r.H, rx, r.Fill, stroke, sw, opacity, EscapeXML(r.Name))
	if r.Title != "" {
		fmt.Fprintf(buf, `<title>%s</title>`, EscapeXML(r.Title))
	}
	buf.WriteString("</rect>\n")
}

func writeText(buf *bytes.Buffer, r Rect, fill string) {
	if r.Label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%g" fill="%s" pointer-events="none">%s</text>`+"\n",
		r.X+Padding, r.Y+r.H/2+r.FontSize*0.4, r.FontSize, fill, EscapeXML(r.Label))
}
