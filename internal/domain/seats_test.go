package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSeatLayout_AllPercentages(t *testing.T) {
	for p := 0; p <= 100; p++ {
		seats := ComputeSeatLayout(p)
		require.Len(t, seats, SeatCount)

		want := p * 40 / 100
		occupied := 0
		for i, s := range seats {
			assert.Equal(t, i+1, s.Number)
			if s.Status == SeatOccupied {
				occupied++
				assert.LessOrEqual(t, s.Number, want, "p=%d seat %d", p, s.Number)
			}
		}
		assert.Equal(t, want, occupied, "p=%d", p)
	}
}

func TestComputeSeatLayout_KnownBuses(t *testing.T) {
	cases := map[int]int{65: 26, 80: 32, 45: 18, 0: 0, 100: 40, 1: 0, 3: 1}
	for occupancy, want := range cases {
		assert.Equal(t, want, OccupiedSeats(occupancy), "occupancy %d", occupancy)
	}
}

func TestComputeSeatLayout_IsPure(t *testing.T) {
	assert.Equal(t, ComputeSeatLayout(65), ComputeSeatLayout(65))

	first := ComputeSeatLayout(80)
	first[35].Status = SeatOccupied
	assert.Equal(t, SeatAvailable, ComputeSeatLayout(80)[35].Status)
}

func TestComputeSeatLayout_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 0, OccupiedSeats(-10))
	assert.Equal(t, SeatCount, OccupiedSeats(250))
}

func TestSeatAt(t *testing.T) {
	seats := ComputeSeatLayout(50)

	s, ok := SeatAt(seats, 20)
	require.True(t, ok)
	assert.Equal(t, SeatOccupied, s.Status)

	s, ok = SeatAt(seats, 21)
	require.True(t, ok)
	assert.Equal(t, SeatAvailable, s.Status)

	_, ok = SeatAt(seats, 0)
	assert.False(t, ok)
	_, ok = SeatAt(seats, 41)
	assert.False(t, ok)
}
