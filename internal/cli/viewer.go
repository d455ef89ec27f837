package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/flametower/pkg/render/flame/interact"
	"github.com/matzehuels/flametower/pkg/render/flame/layout"
	"github.com/matzehuels/flametower/pkg/render/flame/styles"
	"github.com/matzehuels/flametower/pkg/units"
)

// Terminal geometry. One column stands for cellWidth pixels of the frame
// and one line for one row of frames.
const (
	cellWidth         = 8.0
	headerLines       = 2
	footerLines       = 2
	doubleClickWindow = 400 * time.Millisecond
)

var (
	styleFrameText = lipgloss.NewStyle().Foreground(lipgloss.Color("#1b1b1b"))
	styleStatus    = lipgloss.NewStyle().Foreground(colorWhite)
	styleZoom      = lipgloss.NewStyle().Foreground(colorYellow)
)

// viewer is the bubbletea model of the terminal flame graph. It owns the
// controller and feeds it pointer, key and resize events.
type viewer struct {
	ctrl  *interact.Controller
	title string
	frame interact.Frame

	cols, lines int
	scroll      int

	search    textinput.Model
	searching bool

	lastBackground time.Time
	now            func() time.Time
}

func newViewer(ctrl *interact.Controller, title string) *viewer {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search frames"
	ti.CharLimit = 256

	m := &viewer{ctrl: ctrl, title: title, search: ti, now: time.Now}
	m.refresh()
	return m
}

func (m *viewer) Init() tea.Cmd { return nil }

func (m *viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.lines = msg.Width, msg.Height
		m.ctrl.Resize(float64(msg.Width) * cellWidth)
		m.search.Width = max(10, msg.Width-4)
	case tea.KeyMsg:
		if m.searching {
			cmd = m.updateSearch(msg)
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			m.ctrl.ResetZoom()
		case "/":
			m.searching = true
			m.search.SetValue(m.ctrl.Search())
			m.search.CursorEnd()
			cmd = m.search.Focus()
		case "up", "k":
			m.scroll--
		case "down", "j":
			m.scroll++
		}
	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))
	}
	m.refresh()
	return m, cmd
}

// updateSearch edits the search text; highlights follow every keystroke.
// enter keeps the text, esc clears it.
func (m *viewer) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.SearchChange("")
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SearchChange(m.search.Value())
	return cmd
}

// handleMouse maps a terminal cell to frame coordinates. Clicking the
// background twice within doubleClickWindow resets the zoom.
func (m *viewer) handleMouse(ev tea.MouseEvent) {
	x, y := m.toPixel(ev.X, ev.Y)
	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		m.scroll--
	case ev.Button == tea.MouseButtonWheelDown:
		m.scroll++
	case ev.Action == tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		if m.ctrl.PointerClick(x, y) {
			m.lastBackground = time.Time{}
			return
		}
		now := m.now()
		if !m.lastBackground.IsZero() && now.Sub(m.lastBackground) <= doubleClickWindow {
			m.ctrl.DoubleClick()
			m.lastBackground = time.Time{}
			return
		}
		m.lastBackground = now
	}
}

// toPixel returns the center of a cell in frame coordinates. Header and
// footer lines map above the frame, where nothing is hit.
func (m *viewer) toPixel(col, line int) (float64, float64) {
	x := (float64(col) + 0.5) * cellWidth
	if line < headerLines || line >= m.lines-footerLines {
		return x, -1
	}
	depth := line - headerLines + m.scroll
	y := layout.TopMargin + float64(depth)*(layout.RowHeight+layout.RowGap) + layout.RowHeight/2
	return x, y
}

func (m *viewer) visibleRows() int {
	return max(0, m.lines-headerLines-footerLines)
}

func (m *viewer) refresh() {
	m.frame = m.ctrl.Frame()
	depth := 0
	for _, r := range m.frame.Rects {
		depth = max(depth, r.Depth+1)
	}
	m.scroll = min(m.scroll, max(0, depth-m.visibleRows()))
	m.scroll = max(m.scroll, 0)
}

func (m *viewer) View() string {
	if m.cols == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.searchView())
	b.WriteString("\n")

	rows := m.visibleRows()
	if m.frame.Empty {
		for i := range rows {
			if i == rows/2 {
				b.WriteString(StyleDim.Render(center(interact.Placeholder, m.cols)))
			}
			b.WriteString("\n")
		}
	} else {
		byDepth := make(map[int][]interact.FrameRect)
		for _, r := range m.frame.Rects {
			byDepth[r.Depth] = append(byDepth[r.Depth], r)
		}
		for i := range rows {
			b.WriteString(m.rowView(byDepth[m.scroll+i]))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(runewidth.Truncate("click zoom · double-click background or esc reset · / search · ↑/↓ scroll · q quit", m.cols, "…")))
	return b.String()
}

func (m *viewer) headerView() string {
	s := StyleTitle.Render(m.title)
	meta := fmt.Sprintf(" · %s · total %s", m.frame.Unit, units.ToReadableValue(m.frame.Unit, m.frame.Total))
	s += StyleDim.Render(meta)
	if m.frame.Zoomed {
		s += "  " + styleZoom.Render("zoomed "+m.frame.ZoomPath.String())
	}
	return s
}

func (m *viewer) searchView() string {
	if m.searching {
		return m.search.View()
	}
	if m.frame.Search == "" {
		return StyleDim.Render("/ to search")
	}
	matches := 0
	for _, r := range m.frame.Rects {
		if r.Highlighted {
			matches++
		}
	}
	return StyleDim.Render("search: ") + StyleValue.Render(m.frame.Search) + StyleDim.Render(fmt.Sprintf(" (%d frames)", matches))
}

// statusView shows the tooltip payload of the hovered frame.
func (m *viewer) statusView() string {
	t := m.frame.Tooltip
	if t == nil {
		return ""
	}
	line := fmt.Sprintf("%s  %s  %s%%", t.Label, t.FormattedValue, t.Percentage)
	if t.ChildCount > 0 {
		line += fmt.Sprintf("  %d children", t.ChildCount)
	}
	return styleStatus.Render(runewidth.Truncate(line, m.cols, "…"))
}

// rowView draws the frames of one depth, left to right.
func (m *viewer) rowView(rects []interact.FrameRect) string {
	var b strings.Builder
	col := 0
	for _, r := range rects {
		start := max(col, int(math.Round(r.X/cellWidth)))
		end := min(m.cols, int(math.Round(r.Right()/cellWidth)))
		if end <= start {
			continue
		}
		if start > col {
			b.WriteString(strings.Repeat(" ", start-col))
		}
		b.WriteString(cellView(r, end-start))
		col = end
	}
	return b.String()
}

func cellView(r interact.FrameRect, width int) string {
	text := ""
	if width >= 3 {
		ellipsis := float64(runewidth.StringWidth(styles.Ellipsis))
		if label, ok := styles.Shorten(r.Node.Name, float64(width-1), ellipsis, cellRuneWidth); ok {
			text = " " + label
		}
	}
	text = runewidth.FillRight(text, width)

	style := styleFrameText.Background(lipgloss.Color(r.Fill))
	if r.Highlighted {
		style = style.Bold(true).Underline(true)
	}
	if r.Active {
		style = style.Reverse(true)
	}
	return style.Render(text)
}

func cellRuneWidth(r rune) float64 { return float64(runewidth.RuneWidth(r)) }

func center(s string, width int) string {
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
