package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess = lipgloss.Color("#00D26A") // green  — connected, success
	ColorWarning = lipgloss.Color("#FFB800") // yellow — prompts, warnings
	ColorError   = lipgloss.Color("#FF4444") // red    — errors
	ColorAddress = lipgloss.Color("#00B4D8") // cyan   — addresses, signatures
	ColorValue   = lipgloss.Color("#FFFFFF") // white bold — SOL values
	ColorMeta    = lipgloss.Color("#555555") // dim gray  — metadata
	ColorBorder  = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
	ColorAccent  = lipgloss.Color("#9B5DE5") // purple    — headings
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// TruncateAddr shortens an address for display: Ab3d…9xQz.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}

// KeyValueBlock renders a bordered block of aligned key/value rows.
func KeyValueBlock(title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}

	out := StyleTitle.Render(title) + "\n"
	for _, r := range rows {
		key := StyleMeta.Render(padRight(r[0], width))
		out += key + "  " + r[1] + "\n"
	}
	return StyleBorder.Render(out)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
