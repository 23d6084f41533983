package flow

import (
	"time"

	"github.com/kirinyoku/citybus/internal/domain"
)

// Event is a user intent or a timer fire fed into Reduce.
type Event interface {
	Kind() string
}

type SubmitCredentials struct {
	// Mode overrides the form's current mode when set.
	Mode  domain.AuthMode
	Name  string
	Phone string
}

type ToggleMode struct{}

type SubmitCode struct {
	Code string
}

type BackToCredentials struct{}

type DiscoveryCompleted struct {
	Token    uint64
	Location domain.Location
}

type SearchBuses struct {
	Query string
}

type SelectBus struct {
	BusID string
}

type ToggleSeat struct {
	Number int
}

type ConfirmSeat struct{}

// Back unwinds one screen.
type Back struct{}

type ConfirmBooking struct{}

type BookingCompleted struct {
	Token uint64
	At    time.Time
}

// ReturnHome restarts the app from the login screen.
type ReturnHome struct{}

// Teardown retires the session and drops any pending task.
type Teardown struct{}

func (SubmitCredentials) Kind() string  { return "submit_credentials" }
func (ToggleMode) Kind() string         { return "toggle_mode" }
func (SubmitCode) Kind() string         { return "submit_code" }
func (BackToCredentials) Kind() string  { return "back_to_credentials" }
func (DiscoveryCompleted) Kind() string { return "discovery_completed" }
func (SearchBuses) Kind() string        { return "search_buses" }
func (SelectBus) Kind() string          { return "select_bus" }
func (ToggleSeat) Kind() string         { return "toggle_seat" }
func (ConfirmSeat) Kind() string        { return "confirm_seat" }
func (Back) Kind() string               { return "back" }
func (ConfirmBooking) Kind() string     { return "confirm_booking" }
func (BookingCompleted) Kind() string   { return "booking_completed" }
func (ReturnHome) Kind() string         { return "return_home" }
func (Teardown) Kind() string           { return "teardown" }
