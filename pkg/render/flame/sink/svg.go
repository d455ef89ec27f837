package sink

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
)

const frameInteractionCSS = `
    #background { fill: #fafafa; }
    #tooltip { pointer-events: none; }
    #tooltip rect { fill: #fff; stroke: #ddd; }
    #tooltip text { font-size: 13px; fill: #222; }
    #tooltip text.title { font-weight: bold; }`

const frameInteractionJS = `
    const svg = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
    const tip = document.getElementById('tooltip');
    const width = %[1]f, height = %[2]f, zoomBase = %[3]q;
    function showTip(el, evt) {
      const lines = (el.dataset.tip || '').split('\n');
      tip.querySelectorAll('text').forEach((t, i) => { t.textContent = lines[i] || ''; });
      const pt = svg.createSVGPoint(); pt.x = evt.clientX; pt.y = evt.clientY;
      const p = pt.matrixTransform(svg.getScreenCTM().inverse());
      const x = Math.max(0, Math.min(p.x + %[4]f, width - %[5]f));
      const y = Math.max(0, Math.min(p.y + %[4]f, height - %[6]f));
      tip.setAttribute('transform', 'translate(' + x + ',' + y + ')');
      tip.setAttribute('visibility', 'visible');
    }
    document.querySelectorAll('.frame').forEach(el => {
      const t = el.querySelector('title');
      if (t) { el.dataset.tip = t.textContent; t.remove(); }
      el.addEventListener('mousemove', evt => showTip(el, evt));
      el.addEventListener('mouseenter', () => el.setAttribute('opacity', 1));
      el.addEventListener('mouseleave', () => { el.setAttribute('opacity', el.dataset.opacity); tip.setAttribute('visibility', 'hidden'); });
      el.dataset.opacity = el.getAttribute('opacity');
    });
    function search(text) {
      const q = (text || '').toLowerCase();
      document.querySelectorAll('.frame').forEach(el => {
        const hit = q.trim() !== '' && el.dataset.name.toLowerCase().includes(q);
        el.classList.toggle('highlighted', hit);
        el.setAttribute('stroke', hit ? '%[7]s' : '%[8]s');
        el.setAttribute('stroke-width', hit ? 3 : 1);
      });
    }
    document.addEventListener('keydown', evt => {
      if (evt.key === '/') { evt.preventDefault(); search(prompt('Search frames', '')); }
      if (evt.key === 'Escape') { search(''); }
    });
    document.getElementById('background').addEventListener('dblclick', () => {
      if (zoomBase) { window.location.href = zoomBase; }
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	interactive bool
	zoomURL     string
	title       string
}

// WithStyle sets the visual style (default [styles.Simple]).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithInteractive embeds hover tooltips, search and double-click reset.
func WithInteractive() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithZoomURL links every frame to base with a zoom query parameter.
func WithZoomURL(base string) SVGOption { return func(r *svgRenderer) { r.zoomURL = base } }

// WithTitle writes a heading above the graph inside the top margin.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG renders the frame as a standalone SVG document.
func RenderSVG(f interact.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" class="flamegraph">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, `  <rect id="background" x="0" y="0" width="%.2f" height="%.2f" rx="8" fill="#fafafa"/>`+"\n", f.Width, f.Height)
	r.style.RenderDefs(&buf)

	if f.Empty {
		renderPlaceholder(&buf, f)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.2f" y="14" font-size="12" fill="#555">%s</text>`+"\n", styles.Padding, styles.EscapeXML(r.title))
	}

	for _, fr := range f.Rects {
		path := f.TreePath(fr.Path)
		rect := toStyleRect(fr, path)
		if r.zoomURL != "" {
			rect.URL = zoomLink(r.zoomURL, path.String())
		}
		styles.WrapURL(&buf, rect.URL, func() {
			r.style.RenderRect(&buf, rect)
			r.style.RenderText(&buf, rect)
		})
	}

	renderTooltip(&buf, f.Tooltip)
	if r.interactive {
		renderInteraction(&buf, f, r.zoomURL)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func toStyleRect(fr interact.FrameRect, path flame.Path) styles.Rect {
	id := "root"
	if len(path) > 0 {
		id = strings.ReplaceAll(path.String(), "/", "-")
	}
	return styles.Rect{
		ID:          id,
		Name:        fr.Node.Name,
		Label:       fr.Label,
		X:           fr.X,
		Y:           fr.Y,
		W:           fr.Width,
		H:           fr.Height,
		Fill:        fr.Fill,
		Stroke:      fr.Stroke,
		StrokeWidth: fr.StrokeWidth,
		Opacity:     fr.Opacity,
		FontSize:    fr.FontSize,
		Title:       tooltipText(fr.Tooltip),
		Highlighted: fr.Highlighted,
		Active:      fr.Active,
		Zoomed:      fr.Zoomed,
	}
}

func tooltipText(p interact.TooltipPayload) string {
	lines := tooltipLines(p)
	return strings.Join(lines[:], "\n")
}

func tooltipLines(p interact.TooltipPayload) [4]string {
	return [4]string{
		p.Label,
		"Value: " + p.FormattedValue,
		"Percentage: " + p.Percentage + "%",
		fmt.Sprintf("Children: %d", p.ChildCount),
	}
}

// zoomLink appends zoom=<path> to base, replacing an existing zoom parameter.
func zoomLink(base, path string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	if path == "" {
		q.Del("zoom")
	} else {
		q.Set("zoom", path)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func renderPlaceholder(buf *bytes.Buffer, f interact.Frame) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="20" fill="#aaa">%s</text>`+"\n",
		f.Width/2, f.Height/2, interact.Placeholder)
}

// renderTooltip writes the tooltip group. It is visible only when the frame
// carries an active tooltip; the interactive script reuses it on hover.
func renderTooltip(buf *bytes.Buffer, t *interact.ActiveTooltip) {
	var (
		lines      [4]string
		x, y       float64
		visibility = "hidden"
	)
	if t != nil {
		lines = tooltipLines(t.TooltipPayload)
		x, y = t.X, t.Y
		visibility = "visible"
	}
	fmt.Fprintf(buf, `  <g id="tooltip" transform="translate(%.2f,%.2f)" visibility="%s">`+"\n", x, y, visibility)
	fmt.Fprintf(buf, `    <rect width="%.0f" height="%.0f" rx="6"/>`+"\n", interact.TooltipWidth, interact.TooltipHeight)
	for i, line := range lines {
		class := ""
		if i == 0 {
			class = ` class="title"`
		}
		fmt.Fprintf(buf, `    <text x="12" y="%d"%s>%s</text>`+"\n", 22+i*20, class, styles.EscapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func renderInteraction(buf *bytes.Buffer, f interact.Frame, zoomURL string) {
	base := ""
	if zoomURL != "" {
		base = zoomLink(zoomURL, "")
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", frameInteractionCSS)
	js := fmt.Sprintf(frameInteractionJS, f.Width, f.Height, base,
		interact.TooltipOffset, interact.TooltipWidth, interact.TooltipHeight,
		styles.StrokeHighlight, styles.StrokeDefault)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", js)
}
