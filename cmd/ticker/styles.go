package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-ticker/internal/session"
	"github.com/shopspring/decimal"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff094a"))

	// LiveStyle and StaleStyle colour the feed status badge.
	LiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1dc727"))
	StaleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

	// InputStyle frames a filter input, FocusedInputStyle the one being edited.
	InputStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	FocusedInputStyle = InputStyle.BorderForeground(lipgloss.Color("57"))
)

var million = decimal.NewFromInt(1_000_000)

// FormatPrice formats a price with an indicator based on comparison with the previous price.
func FormatPrice(current, previous decimal.Decimal) string {
	priceStr := "$" + current.String()

	if previous.IsZero() {
		return priceStr
	}

	if current.GreaterThan(previous) {
		return priceStr + " ▲"
	} else if current.LessThan(previous) {
		return priceStr + " ▼"
	}

	return priceStr
}

// FormatChange renders a percent change with a direction arrow. Zero counts as down.
func FormatChange(change decimal.Decimal) string {
	if change.IsPositive() {
		return fmt.Sprintf("▲ %s%%", change.StringFixed(2))
	}

	return fmt.Sprintf("▼ %s%%", change.StringFixed(2))
}

// FormatVolume renders volume as millions followed by the full figure.
func FormatVolume(volume decimal.Decimal) string {
	return fmt.Sprintf("$%sM - $%s", volume.Div(million).StringFixed(2), volume.StringFixed(2))
}

// StatusBadge renders the feed status.
func StatusBadge(status session.Status) string {
	switch status {
	case session.StatusLive:
		return LiveStyle.Render("● LIVE")
	case session.StatusStale:
		return StaleStyle.Render("● STALE")
	case session.StatusClosed:
		return HelpStyle.Render("● CLOSED")
	default:
		return HelpStyle.Render("● CONNECTING")
	}
}
