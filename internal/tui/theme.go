package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, https://catppuccin.com/palette
const (
	colorFlamingo lipgloss.Color = "#f2cdcd"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorMaroon   lipgloss.Color = "#eba0ac"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// categoryAccents are handed out to chart series in category order.
var categoryAccents = []lipgloss.Color{
	colorGreen, colorTeal, colorPeach, colorBlue,
	colorMauve, colorPink, colorFlamingo, colorSapphire,
	colorLavender, colorYellow, colorRed, colorMaroon, colorSky,
}

func categoryColor(i int) lipgloss.Color {
	return categoryAccents[i%len(categoryAccents)]
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	tabStyle     = lipgloss.NewStyle().Foreground(colorSubtext0).Padding(0, 1)
	activeTab    = lipgloss.NewStyle().Bold(true).Foreground(colorBase).Background(colorFocus).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	helpStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	markStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorFocus).
	Padding(0, 1)
