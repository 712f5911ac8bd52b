package explore

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// listPane is a bordered, scrollable list with a cursor.
type listPane struct {
	title   string
	rows    []string
	empty   string // shown when rows is empty
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

func (p *listPane) setRows(rows []string) {
	p.rows = rows
	p.cursor = 0
	p.offset = 0
}

func (p listPane) Update(msg tea.Msg) (listPane, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case keyMatches(msg, defaultKeys.Down):
			if p.cursor < len(p.rows)-1 {
				p.cursor++
			}
		case keyMatches(msg, defaultKeys.Home):
			p.cursor = 0
		case keyMatches(msg, defaultKeys.End):
			p.cursor = max(0, len(p.rows)-1)
		case keyMatches(msg, defaultKeys.PageDown):
			p.cursor = max(0, min(p.cursor+p.visibleRows(), len(p.rows)-1))
		case keyMatches(msg, defaultKeys.PageUp):
			p.cursor = max(p.cursor-p.visibleRows(), 0)
		}
		p.ensureVisible()
	}
	return p, nil
}

func (p listPane) View() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}
	contentWidth := max(1, p.width-4) // borders

	var b strings.Builder
	if len(p.rows) == 0 {
		b.WriteString(metadataStyle.Render(truncateString(p.empty, contentWidth)))
	}
	visibleEnd := min(p.offset+p.visibleRows(), len(p.rows))
	for i := p.offset; i < visibleEnd; i++ {
		line := " " + truncateString(p.rows[i], contentWidth-1)
		if i == p.cursor && p.focused {
			line = selectedRowStyle.Width(contentWidth).Render(line)
		}
		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	borderStyle := inactiveBorderStyle
	if p.focused {
		borderStyle = activeBorderStyle
	}
	content := borderStyle.
		Width(p.width - 2).
		Height(max(1, p.height-3)).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(p.title), content)
}

func (p listPane) visibleRows() int {
	return max(1, p.height-3) // title + borders
}

func (p *listPane) ensureVisible() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.visibleRows() {
		p.offset = p.cursor - p.visibleRows() + 1
	}
}

func (p *listPane) setSize(w, h int) {
	p.width = w
	p.height = h
	p.ensureVisible()
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}
