package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Label geometry.
const (
	Padding       = 8.0  // horizontal space kept on each side of a label
	MinLabelWidth = 24.0 // frames narrower than this get no text
	Ellipsis      = "…"
)

// Tooltip shaping.
const (
	TooltipPackageBudget = 40 // longest package prefix shown in full, in runes
	TooltipPackageKeep   = 30 // runes kept from the end of a longer package
)

// Per-rune width estimates as a fraction of the font size.
const (
	wideRatio     = 1.0
	alnumRatio    = 0.6
	otherRatio    = 0.35
	ellipsisRatio = 1.0 // width reserved for the trailing marker
)

const fontSizeMax = 14.0

var fontTiers = []struct{ below, size float64 }{
	{60, 10},
	{120, 12},
}

// East Asian ambiguous runes are measured narrow regardless of locale.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// FontSize returns the label font size for a frame of the given width.
// Narrower frames get strictly smaller tiers.
func FontSize(width float64) float64 {
	for _, t := range fontTiers {
		if width < t.below {
			return t.size
		}
	}
	return fontSizeMax
}

// CharWidth estimates the rendered width of r at fontSize.
func CharWidth(r rune, fontSize float64) float64 {
	switch {
	case widthCond.RuneWidth(r) == 2:
		return fontSize * wideRatio
	case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		return fontSize * alnumRatio
	default:
		return fontSize * otherRatio
	}
}

// TextWidth estimates the rendered width of s at fontSize.
func TextWidth(s string, fontSize float64) float64 {
	return measure(s, func(r rune) float64 { return CharWidth(r, fontSize) })
}

// EllipsisWidth is the width budget reserved for the ellipsis marker.
func EllipsisWidth(fontSize float64) float64 {
	return fontSize * ellipsisRatio
}

// FormatLabel returns the text to draw inside a frame of the given width, and
// whether anything should be drawn at all. The returned text never exceeds
// width-2*Padding by [TextWidth].
func FormatLabel(name string, width, fontSize float64) (string, bool) {
	if name == "" || width < MinLabelWidth {
		return "", false
	}
	return Shorten(name, width-2*Padding, EllipsisWidth(fontSize),
		func(r rune) float64 { return CharWidth(r, fontSize) })
}

// Shorten fits name into avail as measured rune by rune. A name that does
// not fit tries "…method" (two dotted segments) or "class.method" (more),
// then falls back to cutting characters within avail-ellipsis and appending
// [Ellipsis]. FormatLabel uses it with pixel widths; terminal views pass
// cell widths.
func Shorten(name string, avail, ellipsis float64, runeWidth func(rune) float64) (string, bool) {
	if name == "" || avail <= 0 {
		return "", false
	}
	if measure(name, runeWidth) <= avail {
		return name, true
	}

	if segs := strings.Split(name, "."); dotted(segs) {
		n := len(segs)
		if n == 2 {
			if s := Ellipsis + segs[1]; measure(s, runeWidth) <= avail {
				return s, true
			}
		} else if s := segs[n-2] + "." + segs[n-1]; measure(s, runeWidth) <= avail {
			return s, true
		}
	}

	return truncate(name, avail-ellipsis, runeWidth)
}

// LabelFor picks the font size for width and formats name with it.
func LabelFor(name string, width float64) (text string, fontSize float64, ok bool) {
	fontSize = FontSize(width)
	text, ok = FormatLabel(name, width, fontSize)
	return text, fontSize, ok
}

// dotted reports whether segs came from a package.class.method style path.
func dotted(segs []string) bool {
	n := len(segs)
	return n >= 2 && segs[n-1] != "" && segs[n-2] != ""
}

func measure(s string, runeWidth func(rune) float64) float64 {
	var w float64
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func truncate(name string, budget float64, runeWidth func(rune) float64) (string, bool) {
	var (
		sb strings.Builder
		w  float64
	)
	for _, r := range name {
		cw := runeWidth(r)
		if w+cw > budget {
			break
		}
		sb.WriteRune(r)
		w += cw
	}
	if sb.Len() == 0 {
		return "", false
	}
	sb.WriteString(Ellipsis)
	return sb.String(), true
}

// TooltipLabel returns the title shown in a frame's tooltip. Names with more
// than two dotted segments keep class.method intact; a package prefix longer
// than TooltipPackageBudget runes is cut to an ellipsis and its last
// TooltipPackageKeep runes.
func TooltipLabel(name string) string {
	segs := strings.Split(name, ".")
	n := len(segs)
	if n <= 2 {
		return name
	}
	pkg := strings.Join(segs[:n-2], ".")
	if r := []rune(pkg); len(r) > TooltipPackageBudget {
		pkg = Ellipsis + string(r[len(r)-TooltipPackageKeep:])
	}
	return pkg + "." + segs[n-2] + "." + segs[n-1]
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WrapURL wraps the output of fn in a link when url is set.
func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>\n")
	}
}
