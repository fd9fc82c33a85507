// Package styles holds the terminal styles used by simdscan reports.
package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Zest.Hex())).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true)
	extensionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Malibu.Hex()))
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	presentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Guac.Hex())).Bold(true)
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Cheeky.Hex()))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func Title(s string) string     { return titleStyle.Render(s) }
func Header(s string) string    { return headerStyle.Render(s) }
func Extension(s string) string { return extensionStyle.Render(s) }
func Count(s string) string     { return countStyle.Render(s) }
func Present(s string) string   { return presentStyle.Render(s) }
func Missing(s string) string   { return missingStyle.Render(s) }
func Muted(s string) string     { return mutedStyle.Render(s) }
