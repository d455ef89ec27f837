package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/pkg/catalog"
	"github.com/matzehuels/flametower/pkg/client"
	"github.com/matzehuels/flametower/pkg/errors"
	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

// pickPageSize is the page size used when the picker loads the whole catalog.
const pickPageSize = 50

func (c *CLI) filesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Browse the profile catalog of a flametower server",
	}
	cmd.PersistentFlags().StringVar(&c.serverURL, "server", "", "server URL (default http://<server.addr from config>)")

	cmd.AddCommand(c.filesListCommand())
	cmd.AddCommand(c.filesRemoveCommand())
	cmd.AddCommand(c.filesOpenCommand())
	cmd.AddCommand(c.filesRenderCommand())
	cmd.AddCommand(c.filesPickCommand())

	return cmd
}

// apiClient returns a client for --server, or for the configured listen
// address when the flag is unset.
func (c *CLI) apiClient() (*client.Client, error) {
	base := c.serverURL
	if base == "" {
		base = "http://" + c.Config.Server.Addr
	}
	return client.New(base)
}

func (c *CLI) filesListCommand() *cobra.Command {
	var q catalog.Query

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.apiClient()
			if err != nil {
				return err
			}
			page, err := cl.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(page.Items) == 0 {
				printInfo("No files")
				return nil
			}
			fmt.Println(fileTable(page.Items, time.Now()))
			fmt.Println(StyleDim.Render(pageFooter(page)))
			return nil
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", catalog.DefaultPageSize, "files per page: 10, 20 or 50")
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by name")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "sort by name, size or createTime")
	cmd.Flags().BoolVar(&q.Desc, "desc", false, "sort descending")

	return cmd
}

func (c *CLI) filesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete profiles",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.apiClient()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := cl.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleValue.Render(id))
			}
			return nil
		},
	}
}

// flameFlags selects the tree of a remote file.
type flameFlags struct {
	dimension string
	tasks     []string
	exclude   bool
}

func (f *flameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dimension, "dimension", "d", "", "dimension key (default: the first)")
	cmd.Flags().StringSliceVar(&f.tasks, "tasks", nil, "comma-separated task names to select")
	cmd.Flags().BoolVar(&f.exclude, "exclude", false, "select every task except --tasks")
}

func (f flameFlags) request(id string) catalog.Request {
	return catalog.Request{FileID: id, Dimension: f.dimension, Include: !f.exclude, Tasks: f.tasks}
}

func (c *CLI) filesOpenCommand() *cobra.Command {
	var (
		sel  flameFlags
		opts pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Explore a remote profile in the terminal viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.apiClient()
			if err != nil {
				return err
			}
			return c.openRemote(cmd.Context(), cl, args[0], sel, opts)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&opts.Search, "search", "", "initial search text")
	cmd.Flags().StringVar(&opts.Zoom, "zoom", "", "start zoomed into the node at this path")

	return cmd
}

func (c *CLI) openRemote(ctx context.Context, cl *client.Client, id string, sel flameFlags, opts pipeline.Options) error {
	f, err := cl.Get(ctx, id)
	if err != nil {
		return err
	}
	fg, err := cl.FlameGraph(ctx, sel.request(id))
	if err != nil {
		return err
	}
	opts.Palette = c.Config.Render.Palette
	return runViewer(ctx, flameDocument(fg), f.Name, opts)
}

func (c *CLI) filesRenderCommand() *cobra.Command {
	var (
		sel    flameFlags
		format string
		output string
		width  float64
		style  string
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a remote profile on the server and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			cl, err := c.apiClient()
			if err != nil {
				return err
			}

			params := url.Values{}
			if width > 0 {
				params.Set("width", strconv.FormatFloat(width, 'f', -1, 64))
			}
			if style != "" {
				params.Set("style", style)
			}
			params.Set("interactive", "false")

			r, err := cl.Render(cmd.Context(), sel.request(args[0]), format, params)
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + "." + format
			}
			if err := os.WriteFile(output, r.Data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Rendered %s (%s)", args[0], humanize.Bytes(uint64(len(r.Data))))
			printFile(output)
			fmt.Println(statsLine(0, 0, r.Cached))
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, json, png, pdf, dot or graph.svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.<format>)")
	cmd.Flags().Float64VarP(&width, "width", "w", 0, "frame width in pixels")
	cmd.Flags().StringVar(&style, "style", "", "visual style: simple or print")

	return cmd
}

func (c *CLI) filesPickCommand() *cobra.Command {
	var (
		sel    flameFlags
		search string
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a profile interactively and open it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl, err := c.apiClient()
			if err != nil {
				return err
			}
			files, err := fetchAllFiles(ctx, cl, search)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				printInfo("No files")
				return nil
			}

			picked, err := runPicker(ctx, files)
			if err != nil || picked == nil {
				return err
			}
			return c.openRemote(ctx, cl, picked.ID, sel, pipeline.Options{})
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "filter by name")

	return cmd
}

// fetchAllFiles pages through the catalog in creation order.
func fetchAllFiles(ctx context.Context, cl *client.Client, search string) ([]catalog.File, error) {
	var files []catalog.File
	for page := 1; ; page++ {
		p, err := cl.List(ctx, catalog.Query{Page: page, PageSize: pickPageSize, Search: search})
		if err != nil {
			return nil, err
		}
		files = append(files, p.Items...)
		if len(p.Items) == 0 || len(files) >= p.Total {
			return files, nil
		}
	}
}

// flameDocument adapts a server flame graph to the renderer's input.
func flameDocument(fg *catalog.FlameGraph) *flameio.Document {
	return &flameio.Document{Tree: fg.Tree, Unit: fg.Unit, Total: fg.Total, ThreadSplit: fg.ThreadSplit}
}

// fileTable renders files as a table with sizes and ages relative to now.
func fileTable(files []catalog.File, now time.Time) string {
	t := newTable("ID", "Name", "Type", "Size", "Created", "Status")
	for _, f := range files {
		t.Row(
			f.ID,
			f.Name,
			f.Type,
			humanize.Bytes(uint64(max(f.Size, 0))),
			humanize.RelTime(f.CreatedAt, now, "ago", "from now"),
			statusStyle(f.Status).Render(string(f.Status)),
		)
	}
	return t.Render()
}

func pageFooter(p catalog.Page) string {
	pages := (p.Total + p.PageSize - 1) / max(p.PageSize, 1)
	return fmt.Sprintf("  page %d of %d · %d files", p.Page, max(pages, 1), p.Total)
}
