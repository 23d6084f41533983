package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusStatus_Label(t *testing.T) {
	assert.Equal(t, "On Time", StatusOnTime.Label())
	assert.Equal(t, "Delayed", StatusDelayed.Label())
	assert.Equal(t, "Early", StatusEarly.Label())
	assert.Equal(t, "Unknown", BusStatus("cancelled").Label())
}

func TestBand(t *testing.T) {
	cases := []struct {
		occupancy int
		want      OccupancyBand
	}{
		{100, BandCrowded},
		{80, BandCrowded},
		{79, BandModerate},
		{60, BandModerate},
		{59, BandAvailable},
		{0, BandAvailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Band(tc.occupancy), "occupancy %d", tc.occupancy)
	}

	assert.True(t, Band(85).HighEmphasis())
	assert.False(t, Band(65).HighEmphasis())
}
