package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/pkg/flame"
	flameio "github.com/matzehuels/flametower/pkg/io"
	"github.com/matzehuels/flametower/pkg/pipeline"
	"github.com/matzehuels/flametower/pkg/units"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		top  int
		unit string
	)

	cmd := &cobra.Command{
		Use:   "inspect <tree>",
		Short: "Print statistics and the hottest frames of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.loadDocument(ctx, args[0], false)
			if err != nil {
				return err
			}
			if unit == "" {
				unit = documentUnit(doc, c.Config.Render.Unit)
			}
			fmt.Println(inspectReport(args[0], doc, unit, top))
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of frames to list")
	cmd.Flags().StringVar(&unit, "unit", "", "value unit: ns, byte or samples")

	return cmd
}

func documentUnit(doc *flameio.Document, fallback string) string {
	switch {
	case doc.Unit != "":
		return doc.Unit
	case fallback != "":
		return fallback
	}
	return pipeline.DefaultUnit
}

// inspectReport renders the summary block and the top-frames table.
func inspectReport(name string, doc *flameio.Document, unit string, top int) string {
	st := flame.Compute(doc.Tree, top)
	total := st.Total
	if doc.Total > 0 {
		total = doc.Total
	}

	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(keyValueLine(k, v) + "\n")
	}

	b.WriteString(StyleTitle.Render(name) + "\n")
	line("Total", StyleValue.Render(units.ToReadableValue(unit, total)))
	line("Nodes", StyleNumber.Render(humanize.Comma(int64(st.Nodes))))
	line("Depth", StyleNumber.Render(strconv.Itoa(st.Depth)))
	line("Frames", StyleNumber.Render(humanize.Comma(int64(st.Frames))))
	for _, task := range slices.Sorted(maps.Keys(doc.ThreadSplit)) {
		line("Task", StyleValue.Render(task+" "+units.ToReadableValue(unit, doc.ThreadSplit[task])))
	}
	out := b.String()
	if len(st.Top) == 0 {
		return out
	}

	t := newTable("Frame", "Self", "Self %", "Total", "Total %")
	for _, f := range st.Top {
		t.Row(
			f.Name,
			units.ToReadableValue(unit, f.Self),
			units.Percent(f.Self, total)+"%",
			units.ToReadableValue(unit, f.Total),
			units.Percent(f.Total, total)+"%",
		)
	}
	return out + "\n" + t.Render()
}
