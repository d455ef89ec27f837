package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/units"
)

// Options configures call graph generation.
type Options struct {
	// MinPercent hides functions whose inclusive weight is below this share
	// of the total. Zero keeps everything.
	MinPercent float64
	// Unit formats weights in labels (see [units.ToReadableValue]).
	Unit string
	// Palette overrides the fill colors. Nil uses [styles.DefaultPalette].
	Palette []string
}

type graphNode struct {
	name   string
	weight int64
}

type graphEdge struct {
	from, to string
	weight   int64
}

type callGraph struct {
	order []string
	nodes map[string]*graphNode
	edges []*graphEdge
	index map[[2]string]*graphEdge
}

// ToDOT converts the tree to Graphviz DOT format. The result can be rendered
// with [RenderSVG]. A nil tree produces an empty digraph.
func ToDOT(root *flame.Node, opts Options) string {
	g := aggregate(root)
	total := flame.TotalWeight(root)
	threshold := int64(0)
	if opts.MinPercent > 0 && total > 0 {
		threshold = int64(float64(total) * opts.MinPercent / 100)
	}
	keep := func(name string) bool {
		n := g.nodes[name]
		return n != nil && n.weight >= threshold
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"monospace\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\", fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range g.order {
		if !keep(name) {
			continue
		}
		n := g.nodes[name]
		label := fmt.Sprintf("%s\n%s (%s%%)", styles.TooltipLabel(name),
			units.ToReadableValue(opts.Unit, n.weight), units.Percent(n.weight, total))
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", name, label, styles.ColorFor(name, opts.Palette))
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		if !keep(e.from) || !keep(e.to) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, penwidth=%s];\n", e.from, e.to,
			units.ToReadableValue(opts.Unit, e.weight), penWidth(e.weight, total))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// aggregate merges frames by name. A function that appears several times in
// one stack (recursion) counts only at its outermost occurrence, so inclusive
// weights never exceed the total.
func aggregate(root *flame.Node) *callGraph {
	g := &callGraph{
		nodes: make(map[string]*graphNode),
		index: make(map[[2]string]*graphEdge),
	}
	if root == nil {
		return g
	}
	onStack := make(map[string]int)
	var visit func(n *flame.Node, parent string)
	visit = func(n *flame.Node, parent string) {
		w := n.Weight()
		gn, ok := g.nodes[n.Name]
		if !ok {
			gn = &graphNode{name: n.Name}
			g.nodes[n.Name] = gn
			g.order = append(g.order, n.Name)
		}
		if onStack[n.Name] == 0 {
			gn.weight += w
		}
		if parent != "" && parent != n.Name {
			key := [2]string{parent, n.Name}
			e, ok := g.index[key]
			if !ok {
				e = &graphEdge{from: parent, to: n.Name}
				g.index[key] = e
				g.edges = append(g.edges, e)
			}
			e.weight += w
		}
		onStack[n.Name]++
		for _, c := range n.Children {
			visit(c, n.Name)
		}
		onStack[n.Name]--
	}
	visit(root, "")
	return g
}

// penWidth scales from 1 to 6 with the edge's share of the total.
func penWidth(weight, total int64) string {
	if total <= 0 {
		return "1"
	}
	w := 1 + 5*float64(weight)/float64(total)
	return strconv.FormatFloat(min(w, 6), 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render call graph")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel one so the graph scales like the flame graph output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
