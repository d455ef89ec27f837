package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/flametower/pkg/catalog"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

func statusStyle(s catalog.Status) lipgloss.Style {
	switch s {
	case catalog.StatusDone:
		return StyleSuccess
	case catalog.StatusProcessing:
		return StyleWarning
	}
	return lipgloss.NewStyle().Foreground(colorRed)
}

// picker is the bubbletea model for choosing a file from the catalog. Only
// files that finished processing can be selected.
type picker struct {
	files    []catalog.File
	cursor   int
	offset   int
	height   int
	now      time.Time
	selected *catalog.File
}

func newPicker(files []catalog.File, now time.Time) picker {
	return picker{files: files, height: 15, now: now}
}

func (m picker) Init() tea.Cmd {
	return nil
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.files) == 0 || m.files[m.cursor].Status != catalog.StatusDone {
				return m, nil
			}
			f := m.files[m.cursor]
			m.selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
		if m.cursor >= m.offset+m.height {
			m.offset = m.cursor - m.height + 1
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Profile"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.files))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		f := m.files[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			f.Name,
			humanize.Bytes(uint64(max(f.Size, 0))),
			humanize.RelTime(f.CreatedAt, m.now, "ago", "from now"),
			string(f.Status),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Size", "Created", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return styleHeader
			}
			idx := m.offset + row
			if idx >= len(m.files) {
				return lipgloss.NewStyle()
			}
			f := m.files[idx]
			ready := f.Status == catalog.StatusDone
			current := idx == m.cursor

			switch {
			case col == 4:
				return statusStyle(f.Status).Bold(current)
			case !ready:
				return lipgloss.NewStyle().Foreground(colorDim).Bold(current)
			case current:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.files))))

	return b.String()
}

// runPicker shows the picker and returns the chosen file, or nil when the
// user quit without choosing.
func runPicker(ctx context.Context, files []catalog.File) (*catalog.File, error) {
	final, err := tea.NewProgram(newPicker(files, time.Now()), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	return final.(picker).selected, nil
}
