// Package catalog holds the fixed stop and bus data revealed by the
// discovery flow.
package catalog

import (
	"context"

	"github.com/kirinyoku/citybus/internal/domain"
)

// DefaultStopCode identifies the stop every session "detects".
const DefaultStopCode = "t-nagar"

// Source provides the location shown after discovery.
type Source interface {
	Location(ctx context.Context) (domain.Location, error)
}

// Static is a Source that always returns the built-in location.
type Static struct{}

func (Static) Location(context.Context) (domain.Location, error) {
	return Default(), nil
}

// Default returns a fresh copy of the built-in location with its three
// buses in display order.
func Default() domain.Location {
	return domain.Location{
		Name: "T. Nagar Bus Stop",
		Area: "T. Nagar, Chennai",
		Buses: []domain.Bus{
			{
				ID:         "1",
				Number:     "18C",
				Name:       "Broadway - Adambakkam",
				ETAMinutes: 5,
				Status:     domain.StatusOnTime,
				Occupancy:  65,
				Rating:     4.2,
				Route:      "Broadway → Anna Nagar → T.Nagar → Adambakkam",
			},
			{
				ID:         "2",
				Number:     "21G",
				Name:       "Broadway - Airport",
				ETAMinutes: 8,
				Status:     domain.StatusDelayed,
				Occupancy:  80,
				Rating:     4.0,
				Route:      "Broadway → Central → Airport",
			},
			{
				ID:         "3",
				Number:     "70",
				Name:       "Anna Nagar - Tambaram",
				ETAMinutes: 12,
				Status:     domain.StatusEarly,
				Occupancy:  45,
				Rating:     4.5,
				Route:      "Anna Nagar → T.Nagar → Tambaram",
			},
		},
	}
}
