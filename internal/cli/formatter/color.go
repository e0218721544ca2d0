package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/steward/internal/domain"
	"github.com/charmbracelet/lipgloss"
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
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatePill returns a colored indicator for a governance state.
func StatePill(state domain.GovernanceState) string {
	switch state {
	case domain.StateDraft:
		return StyleDim.Render("○ Draft")
	case domain.StateSubmitted:
		return StyleBlue.Render("◌ Submitted")
	case domain.StateApproved:
		return StyleGreen.Render("● Approved")
	case domain.StateRejected:
		return StyleRed.Render("✖ Rejected")
	case domain.StateLocked:
		return StyleYellow.Render("⊘ Locked")
	case domain.StateArchived:
		return StyleDim.Render("▣ Archived")
	default:
		return StyleDim.Render(string(state))
	}
}

// FeatureStatePill returns a colored indicator for a feature lifecycle state.
func FeatureStatePill(state domain.FeatureState) string {
	switch state {
	case domain.FeatureDiscovery:
		return StylePurple.Render("○ Discovery")
	case domain.FeatureReady:
		return StyleBlue.Render("◌ Ready")
	case domain.FeatureInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.FeatureReleased:
		return StyleGreen.Render("✔ Released")
	case domain.FeatureArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(state))
	}
}

// RoleBadge returns a purple-styled role label.
func RoleBadge(r domain.Role) string {
	return StylePurple.Render(string(r))
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
