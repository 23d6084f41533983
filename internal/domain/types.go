package domain

import "time"

type BusStatus string

const (
	StatusOnTime  BusStatus = "on-time"
	StatusDelayed BusStatus = "delayed"
	StatusEarly   BusStatus = "early"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatOccupied  SeatStatus = "occupied"
)

type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
)

// DefaultDisplayName is used when a user logs in without giving a name.
const DefaultDisplayName = "User"

type User struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// Initial returns the first letter of the display name for avatars.
func (u User) Initial() string {
	for _, r := range u.DisplayName {
		return string(r)
	}
	return ""
}

type Bus struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Name       string    `json:"name"`
	ETAMinutes int       `json:"eta_minutes"`
	Status     BusStatus `json:"status"`
	Occupancy  int       `json:"occupancy"`
	Rating     float64   `json:"rating"`
	Route      string    `json:"route"`
}

type Location struct {
	Name  string `json:"name"`
	Area  string `json:"area"`
	Buses []Bus  `json:"buses"`
}

// BusByID returns the bus with the given id.
func (l Location) BusByID(id string) (Bus, bool) {
	for _, b := range l.Buses {
		if b.ID == id {
			return b, true
		}
	}
	return Bus{}, false
}

type Seat struct {
	Number int        `json:"number"`
	Status SeatStatus `json:"status"`
}

type Booking struct {
	ID         string    `json:"booking_id"`
	Bus        Bus       `json:"bus"`
	SeatNumber int       `json:"seat_number"`
	Fare       int       `json:"fare"`
	Passenger  User      `json:"passenger"`
	CreatedAt  time.Time `json:"created_at"`
}
