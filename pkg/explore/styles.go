package explore

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary   = lipgloss.Color("#11C3DB") // cyan
	colorMatch     = lipgloss.Color("#D4AF37") // gold
	colorMuted     = lipgloss.Color("8")       // gray
	colorAccent    = lipgloss.Color("10")      // green
	colorHighlight = lipgloss.Color("15")      // white
)

// Pane border styles
var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

// Title style for pane headers
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	matchStyle    = lipgloss.NewStyle().Foreground(colorMatch)
	countStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	metadataStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Status bar
var statusBarStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// Help styles
var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorPrimary)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Modal overlay style
var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)
