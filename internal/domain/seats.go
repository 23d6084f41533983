package domain

const (
	// SeatCount is the capacity of every bus.
	SeatCount = 40

	// Fare is charged for every booking regardless of bus, route or seat.
	Fare = 25
)

// OccupiedSeats returns how many seats a bus at the given occupancy
// percentage has taken: floor(occupancy/100 * SeatCount). Out of range
// percentages are clamped to [0,100].
func OccupiedSeats(occupancy int) int {
	occupancy = min(max(occupancy, 0), 100)
	return occupancy * SeatCount / 100
}

// ComputeSeatLayout derives the seat map for a bus. Seats 1..OccupiedSeats
// are occupied, the rest available.
func ComputeSeatLayout(occupancy int) []Seat {
	taken := OccupiedSeats(occupancy)

	seats := make([]Seat, SeatCount)
	for i := range seats {
		n := i + 1
		status := SeatAvailable
		if n <= taken {
			status = SeatOccupied
		}
		seats[i] = Seat{Number: n, Status: status}
	}

	return seats
}

// SeatAt looks up seat n in a layout.
func SeatAt(seats []Seat, n int) (Seat, bool) {
	if n < 1 || n > len(seats) {
		return Seat{}, false
	}
	return seats[n-1], true
}
