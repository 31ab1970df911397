package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/th3400l/scrawl/pkg/ink"
	"github.com/th3400l/scrawl/pkg/paper"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TemplateListModel - Interactive paper template selection
// =============================================================================

// TemplateListModel is the bubbletea model for interactive template selection.
type TemplateListModel struct {
	Templates []paper.Template
	Cursor    int
	Selected  *paper.Template
	Height    int
	Offset    int
}

// NewTemplateListModel creates a new template list model.
func NewTemplateListModel(templates []paper.Template) TemplateListModel {
	return TemplateListModel{
		Templates: templates,
		Cursor:    0,
		Height:    15,
		Offset:    0,
	}
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			tmpl := m.Templates[m.Cursor]
			m.Selected = &tmpl
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Paper Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Templates) {
		end = len(m.Templates)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Templates[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		tiers := "full"
		if t.HasLowTier() {
			tiers = "full+low"
		}

		critical := ""
		if t.Critical {
			critical = "✓"
		}

		rows = append(rows, []string{cursor, t.ID, t.DisplayName, string(t.Structural), tiers, critical})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Structure", "Tiers", "Critical").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Templates) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				if col < 3 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if col < 3 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))

	return b.String()
}

// =============================================================================
// InkListModel - Interactive ink profile selection
// =============================================================================

// InkListModel is the bubbletea model for interactive ink selection.
type InkListModel struct {
	Inks     []*ink.Profile
	Cursor   int
	Selected *ink.Profile
}

// NewInkListModel creates a new ink list model.
func NewInkListModel(inks []*ink.Profile) InkListModel {
	return InkListModel{Inks: inks}
}

func (m InkListModel) Init() tea.Cmd {
	return nil
}

func (m InkListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Inks)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Inks[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m InkListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Ink"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, p := range m.Inks {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %-12s %s  %s", cursor, swatch(p.BaseColor), p.Name,
			listDimStyle.Render(p.BaseColor), listDimStyle.Render(string(p.Texture.Pattern)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	return b.String()
}
