package pipeline

import (
	"github.com/matzehuels/flametower/pkg/flame"
	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/render/flame/interact"
)

// Controller builds a controller for doc with the frame options applied:
// width, search, total and unit overrides, palette and zoom. Options take
// precedence over values recorded in the document.
func Controller(doc *flameio.Document, opts Options) (*interact.Controller, error) {
	c := interact.New(doc.Tree,
		interact.WithWidth(opts.Width),
		interact.WithTotal(resolveTotal(doc, opts)),
		interact.WithUnit(resolveUnit(doc, opts)),
		interact.WithSearch(opts.Search),
		interact.WithPalette(opts.Palette),
	)
	if opts.Zoom == "" {
		return c, nil
	}

	p, err := flame.ParsePath(opts.Zoom)
	if err != nil {
		return nil, err
	}
	node, err := flame.Locate(doc.Tree, p)
	if err != nil {
		return nil, err
	}
	if len(p) > 0 {
		c.Click(node)
	}
	return c, nil
}

// BuildFrame returns the frame for doc under opts.
func BuildFrame(doc *flameio.Document, opts Options) (interact.Frame, error) {
	c, err := Controller(doc, opts)
	if err != nil {
		return interact.Frame{}, err
	}
	return c.Frame(), nil
}

func resolveUnit(doc *flameio.Document, opts Options) string {
	switch {
	case opts.Unit != "":
		return opts.Unit
	case doc.Unit != "":
		return doc.Unit
	}
	return DefaultUnit
}

func resolveTotal(doc *flameio.Document, opts Options) int64 {
	if opts.Total > 0 {
		return opts.Total
	}
	return doc.Total
}
