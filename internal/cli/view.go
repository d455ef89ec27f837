package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

func (c *CLI) viewCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "view <tree>",
		Short: "Explore a flame graph in the terminal",
		Long: `Open an interactive flame graph in the terminal.

Hover a frame to see its value and share, click it to zoom in. Double-click
the background, or press esc or backspace, to zoom back out. Press / to
highlight frames by name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.Unit == "" {
				opts.Unit = c.Config.Render.Unit
			}
			opts.Palette = c.Config.Render.Palette

			doc, err := c.loadDocument(ctx, args[0], noCache)
			if err != nil {
				return err
			}
			return runViewer(ctx, doc, filepath.Base(args[0]), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "initial search text")
	cmd.Flags().StringVar(&opts.Zoom, "zoom", "", "start zoomed into the node at this path")
	cmd.Flags().Int64Var(&opts.Total, "total", 0, "compute percentages against this total")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "value unit: ns, byte or samples")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// loadDocument parses the tree at path through the cached runner.
func (c *CLI) loadDocument(ctx context.Context, path string, noCache bool) (*flameio.Document, error) {
	src, err := pipeline.ReadSource(path)
	if err != nil {
		return nil, err
	}
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()
	doc, _, err := runner.ParseWithCacheInfo(ctx, src, false)
	return doc, err
}

// runViewer runs the terminal viewer over doc until the user quits.
func runViewer(ctx context.Context, doc *flameio.Document, title string, opts pipeline.Options) error {
	ctrl, err := pipeline.Controller(doc, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newViewer(ctrl, title),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = p.Run()
	return err
}
