package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/boxflow/pkg/snapshot"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// BoxListModel - Interactive snapshot browser
// =============================================================================

// BoxListModel is the bubbletea model for browsing the boxes of a snapshot.
type BoxListModel struct {
	Snapshot *snapshot.Snapshot
	Cursor   int
	Selected *snapshot.Box
	Height   int
	Offset   int

	// index maps box keys to their position in Snapshot.Boxes.
	index map[int32]int
}

// NewBoxListModel creates a new box list model.
func NewBoxListModel(s *snapshot.Snapshot) BoxListModel {
	index := make(map[int32]int, len(s.Boxes))
	for i, b := range s.Boxes {
		index[b.Key] = i
	}
	return BoxListModel{
		Snapshot: s,
		Height:   15,
		index:    index,
	}
}

func (m BoxListModel) Init() tea.Cmd {
	return nil
}

func (m BoxListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(len(m.Snapshot.Boxes) - 1)
		case "p":
			if i, ok := m.index[m.current().Parent]; ok {
				m = m.moveTo(i)
			}
		case "enter":
			if len(m.Snapshot.Boxes) == 0 {
				return m, nil
			}
			box := m.current()
			m.Selected = &box
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail panel.
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// moveTo places the cursor on row i and scrolls it into view.
func (m BoxListModel) moveTo(i int) BoxListModel {
	if i < 0 || i >= len(m.Snapshot.Boxes) {
		return m
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m BoxListModel) current() snapshot.Box {
	if len(m.Snapshot.Boxes) == 0 {
		return snapshot.Box{Parent: -1}
	}
	return m.Snapshot.Boxes[m.Cursor]
}

func (m BoxListModel) View() string {
	var b strings.Builder

	s := m.Snapshot
	b.WriteString(StyleTitle.Render(s.Fixture))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s canvas, laid out %s", s.Canvas, formatRelativeTime(s.CreatedAt, time.Now()))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(s.Boxes) == 0 {
		b.WriteString(listDimStyle.Render("  no boxes"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(s.Boxes))
	b.WriteString(boxTable(s.Boxes[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(s.Boxes))))

	return b.String()
}

// detail renders the panel describing the box under the cursor.
func (m BoxListModel) detail() string {
	box := m.current()
	parent := "none"
	if i, ok := m.index[box.Parent]; ok {
		parent = boxLabel(m.Snapshot.Boxes[i])
	}
	lines := []string{
		StyleHighlight.Render(boxLabel(box)),
		fmt.Sprintf("%s %s", listDimStyle.Render("parent "), parent),
		fmt.Sprintf("%s %s", listDimStyle.Render("rect   "), box.Rect),
		fmt.Sprintf("%s %s", listDimStyle.Render("content"), box.ContentRect),
		fmt.Sprintf("%s %s", listDimStyle.Render("size   "), box.ContentSize),
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// Helpers
// =============================================================================

// boxTable renders boxes as a table, highlighting row cursor. A negative
// cursor highlights nothing.
func boxTable(boxes []snapshot.Box, cursor int) *table.Table {
	rows := make([][]string, len(boxes))
	for i, box := range boxes {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		tag := box.Tag
		if tag == "" {
			tag = "—"
		}
		rows[i] = []string{
			marker,
			fmt.Sprint(box.Key),
			strings.Repeat("  ", box.Depth) + tag,
			box.Rect.String(),
			box.ContentSize.String(),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Tag", "Rect", "Content").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle()
			zero := boxes[row].Rect.Width == 0 || boxes[row].Rect.Height == 0
			switch {
			case row == cursor:
				return base.Foreground(colorGreen).Bold(true)
			case zero:
				return base.Foreground(colorDim)
			case col == 1 || col == 4:
				return base.Foreground(colorGray)
			}
			return base
		})
}

func boxLabel(b snapshot.Box) string {
	if b.Tag == "" {
		return fmt.Sprintf("#%d", b.Key)
	}
	return fmt.Sprintf("%s #%d", b.Tag, b.Key)
}

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "at an unknown time"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
