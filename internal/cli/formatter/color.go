package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trama/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the lipgloss style for a canonical status category.
func StatusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusDone:
		return StyleGreen
	case domain.StatusInProgress:
		return StyleBlue
	case domain.StatusInReview:
		return StylePurple
	case domain.StatusAtRisk:
		return StyleYellow
	case domain.StatusLate:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill returns a colored status indicator for a raw status label.
func StatusPill(raw string) string {
	s := domain.NormalizeStatus(raw)
	marker := "○"
	switch s {
	case domain.StatusDone:
		marker = "✔"
	case domain.StatusInProgress, domain.StatusInReview:
		marker = "●"
	case domain.StatusLate, domain.StatusAtRisk:
		marker = "▲"
	}
	return StatusStyle(s).Render(marker + " " + s.Label())
}

// PriorityPill returns a colored priority indicator for a raw priority value.
func PriorityPill(raw string) string {
	p := domain.NormalizePriority(raw)
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("‼ " + p.Label())
	case domain.PriorityHigh:
		return StyleYellow.Render("↑ " + p.Label())
	case domain.PriorityLow:
		return StyleDim.Render("↓ " + p.Label())
	default:
		return StyleFg.Render("• " + p.Label())
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
