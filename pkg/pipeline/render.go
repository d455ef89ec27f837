package pipeline

import (
	"context"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/sink"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/render/nodelink"
)

// Render encodes f in every requested format. root is the layout root of the
// frame; the call graph formats aggregate it.
func Render(ctx context.Context, f interact.Frame, root *flame.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := renderFormat(ctx, f, root, format, opts)
		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f interact.Frame, root *flame.Node, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts, err := buildSVGOptions(opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(f, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(f, sink.WithJSONStyle(opts.Style))
	case FormatPNG:
		return sink.RenderPNG(ctx, f, sink.WithPNGSVGOptions(printOptions(opts)...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, f, sink.WithPDFSVGOptions(printOptions(opts)...))
	case FormatDOT:
		return []byte(nodelink.ToDOT(root, dotOptions(f, opts))), nil
	case FormatGraphSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(root, dotOptions(f, opts)))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteractive())
	}
	if opts.ZoomURL != "" {
		svgOpts = append(svgOpts, sink.WithZoomURL(opts.ZoomURL))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts, nil
}

// printOptions are the SVG options for static raster and print output:
// links and scripts are meaningless there, so only the title is kept.
func printOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(styles.Print{})}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func dotOptions(f interact.Frame, opts Options) nodelink.Options {
	return nodelink.Options{
		MinPercent: opts.MinPercent,
		Unit:       f.Unit,
		Palette:    opts.Palette,
	}
}
