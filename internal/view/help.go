package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpRows = [][2]string{
	{"1 / 2 / 3", "dashboard / agent detail / sessions"},
	{"Tab/l, h", "focus right / left panel"},
	{"j/k, ↑/↓", "scroll one line"},
	{"Ctrl+d / Ctrl+u", "scroll half page"},
	{"g / G", "jump to top / bottom"},
	{"Enter", "open selected task's agent"},
	{"Esc", "back to dashboard"},
	{"/", "filter event stream"},
	{"Space", "toggle auto-scroll"},
	{"?", "toggle this help"},
	{"q", "quit"},
}

func renderHelp(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")
	for _, row := range helpRows {
		b.WriteString(filterStyle.Render(padRight(row[0], 16)))
		b.WriteString(dimStyle.Render(row[1]))
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press any key to close"))

	box := helpStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
