package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algoviz/internal/dataset"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	orange  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

var tagStyles = map[dataset.Tag]lipgloss.Style{
	dataset.TagDefault:   white,
	dataset.TagActive:    yellow,
	dataset.TagComparing: orange,
	dataset.TagSorted:    green,
	dataset.TagTarget:    magenta,
	dataset.TagHighlight: cyan,
	dataset.TagHull:      green,
	dataset.TagVisited:   blue,
	dataset.TagPath:      magenta,
	dataset.TagWall:      dimmer,
}

func styleFor(t dataset.Tag) lipgloss.Style {
	if s, ok := tagStyles[t]; ok {
		return s
	}
	return white
}
