package flow

import (
	"strings"

	"github.com/kirinyoku/citybus/internal/domain"
)

type Screen string

const (
	ScreenCredentials Screen = "credentials"
	ScreenCode        Screen = "code"
	ScreenDetecting   Screen = "detecting"
	ScreenBuses       Screen = "buses"
	ScreenSeats       Screen = "seats"
	ScreenReview      Screen = "review"
	ScreenProcessing  Screen = "processing"
	ScreenConfirmed   Screen = "confirmed"
)

// Authenticated reports whether the screen sits past the login steps.
func (s Screen) Authenticated() bool {
	return s != ScreenCredentials && s != ScreenCode
}

// MaxCodeLength caps the one-time code input.
const MaxCodeLength = 6

// Form is what the user has typed on the authentication screens.
type Form struct {
	Mode  domain.AuthMode
	Name  string
	Phone string
	Code  string
}

// Pending is the delayed task the current screen is waiting on.
type Pending struct {
	Task  Task
	Token uint64
}

// State is the whole flow of one session. Reduce never mutates a State in
// place; slices held by a State are treated as read-only.
type State struct {
	Screen   Screen
	Form     Form
	User     *domain.User
	Location *domain.Location
	Query    string

	Bus          *domain.Bus
	Seats        []domain.Seat
	SelectedSeat int

	Booking *domain.Booking
	Pending *Pending
	Notice  string

	seq uint64
}

// Initial is the state of a freshly opened app.
func Initial() State {
	return State{
		Screen: ScreenCredentials,
		Form:   Form{Mode: domain.ModeLogin},
	}
}

// VisibleBuses returns the discovered buses matching the search query.
func (s State) VisibleBuses() []domain.Bus {
	if s.Location == nil {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(s.Query))
	if q == "" {
		return s.Location.Buses
	}

	var out []domain.Bus
	for _, b := range s.Location.Buses {
		if strings.Contains(strings.ToLower(b.Number), q) ||
			strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Route), q) {
			out = append(out, b)
		}
	}

	return out
}
