// Package theme holds the lipgloss styles used by the CLI report views.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/report"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for report titles.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SectionStyle labels a block inside a report.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	MarginTop(1)

// LabelStyle is the left column of key/value rows.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Width(26)

// PanelStyle wraps a whole report.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// MutedStyle is for secondary text such as ids.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// StatusStyle returns a color-coded style for an item or step status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case model.ItemStatusPending:
		return base.Foreground(ColorGray)
	case model.ItemStatusInProgress:
		return base.Foreground(ColorYellow)
	case model.ItemStatusCompleted:
		return base.Foreground(ColorGreen)
	case model.ItemStatusCancelled, model.StepStatusUrgent:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for an item priority.
func PriorityStyle(priority string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.PriorityUrgent:
		return base.Foreground(ColorRed)
	case model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// BucketStyle colors a deadline bucket label by how close it is.
func BucketStyle(bucket string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch bucket {
	case report.BucketOverdue:
		return base.Foreground(ColorRed)
	case report.BucketUrgent:
		return base.Foreground(ColorOrange)
	case report.BucketUpcoming:
		return base.Foreground(ColorYellow)
	case report.BucketNearFuture:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGreen)
	}
}

// SuccessStyle marks a completed command.
var SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

// ErrorStyle marks a failed command.
var ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
