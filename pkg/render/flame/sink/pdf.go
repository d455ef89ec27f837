package sink

import (
	"context"

	"github.com/matzehuels/flametower/pkg/render"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the frame as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, f interact.Frame, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	svgOpts := append([]SVGOption{WithStyle(styles.Print{})}, r.svgOpts...)
	return render.ToPDF(ctx, RenderSVG(f, svgOpts...))
}
