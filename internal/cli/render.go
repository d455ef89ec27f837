package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/pkg/errors"
	"github.com/matzehuels/flametower/pkg/pipeline"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
)

// slowFormats shell out to graphviz or rsvg-convert and get a spinner.
var slowFormats = []string{pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatGraphSVG}

type renderFlags struct {
	output  string
	formats string
	palette string
	noCache bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  pipeline.Options
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Render a flame graph to SVG, JSON, PNG, PDF or a call graph",
		Long: `Render a call tree (.json) or folded stacks (.folded, .collapsed, .txt) to one
or more output formats.

Formats: svg, json, png, pdf (need rsvg-convert), dot and graph.svg (call graph).`,
		Example: `  flametower render cpu.folded
  flametower render cpu.folded -f svg,png --search parse --width 1600
  flametower render trace.json --zoom 0/2 -o zoomed.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if err := c.applyRenderConfig(cmd, &opts, flags); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "output formats, comma-separated: "+strings.Join(pipeline.ValidFormats, ", "))
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "frame width in pixels")
	cmd.Flags().StringVar(&opts.Search, "search", "", "highlight frames whose name contains this text")
	cmd.Flags().StringVar(&opts.Zoom, "zoom", "", "zoom into the node at this path, e.g. 0/2/1")
	cmd.Flags().Int64Var(&opts.Total, "total", 0, "compute percentages against this total")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "value unit: ns, byte or samples (default from input)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: "+strings.Join(pipeline.ValidStyles, ", "))
	cmd.Flags().StringVar(&flags.palette, "palette", "", "fill colors, comma-separated hex")
	cmd.Flags().StringVar(&opts.Title, "title", "", "SVG title")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed hover script in SVG output")
	cmd.Flags().StringVar(&opts.ZoomURL, "zoom-url", "", "base URL for frame zoom links")
	cmd.Flags().Float64Var(&opts.MinPercent, "min-percent", 0, "call graph: hide nodes below this share of the total")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// applyRenderConfig fills options the user did not set on the command line
// from the [render] config section.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *pipeline.Options, flags renderFlags) error {
	cfg := c.Config.Render
	if !cmd.Flags().Changed("width") && cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if !cmd.Flags().Changed("unit") && opts.Unit == "" {
		opts.Unit = cfg.Unit
	}
	if !cmd.Flags().Changed("style") && cfg.Style != "" {
		opts.Style = cfg.Style
	}
	opts.Palette = cfg.Palette
	if flags.palette != "" {
		p, err := styles.ParsePalette(flags.palette)
		if err != nil {
			return err
		}
		opts.Palette = p
	}
	opts.Formats = pipeline.SplitFormats(flags.formats)
	if len(opts.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	var spin *Spinner
	if slices.ContainsFunc(opts.Formats, func(f string) bool { return slices.Contains(slowFormats, f) }) {
		spin = newSpinner(ctx, "Rendering "+filepath.Base(opts.Input)+"…")
		spin.Start()
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.Input)

	paths := outputPaths(flags.output, opts.Input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", opts.Input)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	cached := result.CacheInfo.ParseHit && result.CacheInfo.RenderHit
	fmt.Println(statsLine(result.Stats.Nodes, result.Stats.Rects, cached))
	if slices.Contains(opts.Formats, pipeline.FormatSVG) && !opts.Interactive {
		printNextStep("Explore it in the terminal", appName+" view "+opts.Input)
	}
	return nil
}

// outputPaths maps each format to its output file. A single format with -o
// writes exactly there; otherwise files share a base path (the output
// without its extension, or the input without its extension) and get the
// format as extension.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or any extension
// from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := ""
	for _, f := range pipeline.ValidFormats {
		if strings.HasSuffix(output, "."+f) && len(f) > len(ext) {
			ext = f
		}
	}
	if ext == "" {
		return output
	}
	return strings.TrimSuffix(output, "."+ext)
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
