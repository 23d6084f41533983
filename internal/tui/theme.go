package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kirinyoku/citybus/internal/domain"
)

// Theme is the color palette of the terminal client. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	StatusOnTime  lipgloss.Color
	StatusDelayed lipgloss.Color
	StatusEarly   lipgloss.Color

	BandCrowded   lipgloss.Color
	BandModerate  lipgloss.Color
	BandAvailable lipgloss.Color

	SeatAvailable lipgloss.Color
	SeatOccupied  lipgloss.Color
	SeatSelected  lipgloss.Color

	BorderColor lipgloss.Color
	HelpText    lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Accent:     lipgloss.Color("75"),
	Error:      lipgloss.Color("196"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusOnTime:  lipgloss.Color("114"),
	StatusDelayed: lipgloss.Color("196"),
	StatusEarly:   lipgloss.Color("75"),

	BandCrowded:   lipgloss.Color("196"),
	BandModerate:  lipgloss.Color("220"),
	BandAvailable: lipgloss.Color("114"),

	SeatAvailable: lipgloss.Color("114"),
	SeatOccupied:  lipgloss.Color("240"),
	SeatSelected:  lipgloss.Color("220"),

	BorderColor: lipgloss.Color("240"),
	HelpText:    lipgloss.Color("241"),
}

func (theme Theme) StatusColor(status domain.BusStatus) lipgloss.Color {
	switch status {
	case domain.StatusOnTime:
		return theme.StatusOnTime
	case domain.StatusDelayed:
		return theme.StatusDelayed
	case domain.StatusEarly:
		return theme.StatusEarly
	default:
		return theme.FaintText
	}
}

func (theme Theme) BandColor(band domain.OccupancyBand) lipgloss.Color {
	switch band {
	case domain.BandCrowded:
		return theme.BandCrowded
	case domain.BandModerate:
		return theme.BandModerate
	default:
		return theme.BandAvailable
	}
}
