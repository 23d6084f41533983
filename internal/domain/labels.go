package domain

type OccupancyBand string

const (
	BandCrowded   OccupancyBand = "Crowded"
	BandModerate  OccupancyBand = "Moderate"
	BandAvailable OccupancyBand = "Available"
)

// Label is the text shown next to a bus for its punctuality.
func (s BusStatus) Label() string {
	switch s {
	case StatusOnTime:
		return "On Time"
	case StatusDelayed:
		return "Delayed"
	case StatusEarly:
		return "Early"
	default:
		return "Unknown"
	}
}

// Band classifies an occupancy percentage.
func Band(occupancy int) OccupancyBand {
	switch {
	case occupancy >= 80:
		return BandCrowded
	case occupancy >= 60:
		return BandModerate
	default:
		return BandAvailable
	}
}

// HighEmphasis reports whether the band is rendered as a warning.
func (b OccupancyBand) HighEmphasis() bool {
	return b == BandCrowded
}
