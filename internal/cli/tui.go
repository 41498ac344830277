package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mmcifsite/pkg/coverage"
	"github.com/matzehuels/mmcifsite/pkg/dictionary"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CategoryListModel - Interactive category selection
// =============================================================================

// CategoryRow is one selectable category.
type CategoryRow struct {
	Name    string
	Items   int
	Archive int
}

// CategoryListModel is the bubbletea model for interactive category
// selection. Typing narrows the list to categories containing the query.
type CategoryListModel struct {
	Rows     []CategoryRow
	Query    string
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

// NewCategoryListModel lists the categories of d with their item counts and
// archive usage.
func NewCategoryListModel(d *dictionary.Dictionary, u *coverage.Usage) CategoryListModel {
	var rows []CategoryRow
	for _, cat := range d.Categories() {
		row := CategoryRow{Name: cat, Items: len(d.ItemNames(cat))}
		if u != nil {
			row.Archive = u.CategoryCount(cat, coverage.Archive)
		}
		rows = append(rows, row)
	}
	return CategoryListModel{Rows: rows, Height: 15}
}

// visible returns the rows matching the query.
func (m CategoryListModel) visible() []CategoryRow {
	if m.Query == "" {
		return m.Rows
	}
	var out []CategoryRow
	for _, r := range m.Rows {
		if strings.Contains(r.Name, m.Query) {
			out = append(out, r)
		}
	}
	return out
}

func (m CategoryListModel) Init() tea.Cmd {
	return nil
}

func (m CategoryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(rows) == 0 {
				return m, nil
			}
			m.Selected = rows[m.Cursor].Name
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Query != "" {
				m.Query = m.Query[:len(m.Query)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Query += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m CategoryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Category"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("/ " + m.Query))
	b.WriteString("\n\n")

	rows := m.visible()
	end := min(m.Offset+m.Height, len(rows))

	var cells [][]string
	for i := m.Offset; i < end; i++ {
		r := rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		archive := "-"
		if r.Archive > 0 {
			archive = strconv.Itoa(r.Archive)
		}
		cells = append(cells, []string{cursor, r.Name, strconv.Itoa(r.Items), archive})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Items", "Entries").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			if rows[idx].Archive == 0 {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  no matching category"))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))
	}

	return b.String()
}
