// Package explore is an interactive terminal browser for classification
// reports: one pane lists the matched types, the other the listed matches of
// the selected type.
package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/praetorian-inc/sift/pkg/report"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneTypes focusedPane = iota
	paneItems
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	report *report.Report
	source string // input file, empty for stdin

	types listPane
	items listPane
	focus focusedPane

	showHelp bool
	width    int
	height   int
	err      error
}

// New creates a Model browsing rep. source is the scanned file, used to
// open matches in a pager; pass "" when the input was stdin.
func New(rep *report.Report, source string) Model {
	m := Model{
		report: rep,
		source: source,
		types:  listPane{title: " Types ", empty: "no matches"},
		items:  listPane{empty: "no listed matches"},
	}

	rows := make([]string, len(rep.Sections))
	for i, sec := range rep.Sections {
		rows[i] = fmt.Sprintf("%-20s %s", sec.Type.String(), countStyle.Render(fmt.Sprint(sec.Count)))
	}
	m.types.setRows(rows)
	m.types.focused = true
	m.selectSection()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("sift explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case pagerFinishedMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if keyMatches(msg, defaultKeys.ForceQuit) {
				return m, tea.Quit
			}
			m.showHelp = false
			return m, nil
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showHelp = true
			return m, nil
		case keyMatches(msg, defaultKeys.NextPane):
			if m.focus == paneTypes {
				m.setFocus(paneItems)
			} else {
				m.setFocus(paneTypes)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusTypes):
			m.setFocus(paneTypes)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusItems):
			m.setFocus(paneItems)
			return m, nil
		case keyMatches(msg, defaultKeys.OpenSource):
			return m, m.openSource()
		}

		var cmd tea.Cmd
		switch m.focus {
		case paneTypes:
			prev := m.types.cursor
			m.types, cmd = m.types.Update(msg)
			if m.types.cursor != prev {
				m.selectSection()
			}
		case paneItems:
			m.items, cmd = m.items.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.types.View(), m.items.View())
	return lipgloss.JoinVertical(lipgloss.Left, panes, m.renderStatusBar())
}

// Section returns the section under the type cursor.
func (m Model) Section() (report.Section, bool) {
	if m.types.cursor < 0 || m.types.cursor >= len(m.report.Sections) {
		return report.Section{}, false
	}
	return m.report.Sections[m.types.cursor], true
}

// Item returns the match under the item cursor.
func (m Model) Item() (report.Item, bool) {
	sec, ok := m.Section()
	if !ok || m.items.cursor < 0 || m.items.cursor >= len(sec.Items) {
		return report.Item{}, false
	}
	return sec.Items[m.items.cursor], true
}

func (m *Model) selectSection() {
	sec, ok := m.Section()
	if !ok {
		m.items.title = " Matches "
		m.items.setRows(nil)
		return
	}

	rows := make([]string, len(sec.Items))
	for i, it := range sec.Items {
		rows[i] = fmt.Sprintf("%s %s", metadataStyle.Render(fmt.Sprintf("%6d:%-4d", it.Line+1, it.Offset)), matchStyle.Render(it.Text))
	}
	m.items.setRows(rows)

	switch {
	case m.report.Mode == report.Analyze:
		m.items.title = fmt.Sprintf(" %s: %d matches ", sec.Type, sec.Count)
		m.items.empty = "counts only; rerun without --analyze to list matches"
	case sec.Dropped > 0:
		m.items.title = fmt.Sprintf(" %s (%d of %d) ", sec.Type, len(sec.Items), sec.Count)
	default:
		m.items.title = fmt.Sprintf(" %s (%d) ", sec.Type, sec.Count)
	}
}

func (m *Model) setFocus(p focusedPane) {
	m.types.focused = p == paneTypes
	m.items.focused = p == paneItems
	m.focus = p
}

func (m *Model) layout() {
	contentHeight := max(1, m.height-1) // status bar
	typesWidth := min(m.width*30/100, 36)
	m.types.setSize(typesWidth, contentHeight)
	m.items.setSize(m.width-typesWidth, contentHeight)
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d types | %d matches", len(m.report.Sections), m.report.Total()))
	if m.err != nil {
		left += statusBarStyle.Render(" | pager: " + m.err.Error())
	}

	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("tab"), helpDescStyle.Render("pane"),
		helpKeyStyle.Render("o"), helpDescStyle.Render("source"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
		helpKeyStyle.Render("q"), helpDescStyle.Render("quit"),
	)

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelp() string {
	box := modalStyle.Width(max(20, m.width*80/100)).Render(helpText)
	view := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(" Help (any key to close) "), box)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

// openSource shows the selected match's line in $PAGER (less by default).
// Stdin input has nothing to reopen.
func (m Model) openSource() tea.Cmd {
	it, ok := m.Item()
	if !ok || m.source == "" || m.source == "-" {
		return nil
	}
	if _, err := os.Stat(m.source); err != nil {
		return nil
	}

	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}
	var args []string
	if pager == "less" {
		args = append(args, fmt.Sprintf("+%d", it.Line+1))
	}
	args = append(args, m.source)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

const helpText = `Sift Explore - Interactive Report Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  h or Left         Focus types pane
  l, Right, Enter   Focus matches pane
  Tab               Switch pane

VIEWS
  o                 Open the match's line in $PAGER
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit`
