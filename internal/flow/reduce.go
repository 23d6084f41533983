// Package flow is the screen router of the app: a pure transition function
// over State. Timers and I/O stay outside; Reduce only asks for them
// through Effects.
package flow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kirinyoku/citybus/internal/domain"
)

const (
	DefaultDiscoveryDelay = 2000 * time.Millisecond
	DefaultBookingDelay   = 1500 * time.Millisecond
)

// PaymentDeclinedNotice is shown on the review screen after a declined
// payment.
const PaymentDeclinedNotice = "Payment declined, please try again"

// Env carries the knobs Reduce depends on. Zero values fall back to the
// defaults: real delays, any code accepted, every payment approved.
type Env struct {
	DiscoveryDelay time.Duration
	BookingDelay   time.Duration
	Codes          CodeVerifier
	Payments       PaymentGateway
}

func (e Env) withDefaults() Env {
	if e.DiscoveryDelay <= 0 {
		e.DiscoveryDelay = DefaultDiscoveryDelay
	}
	if e.BookingDelay <= 0 {
		e.BookingDelay = DefaultBookingDelay
	}
	if e.Codes == nil {
		e.Codes = AcceptAnyCode{}
	}
	if e.Payments == nil {
		e.Payments = ApproveAll{}
	}
	return e
}

// Reduce applies ev to s. On error the returned state equals s and no
// effects are produced.
func Reduce(s State, ev Event, env Env) (State, []Effect, error) {
	env = env.withDefaults()

	switch ev := ev.(type) {
	case Teardown:
		return teardown(s)
	case DiscoveryCompleted:
		return discoveryCompleted(s, ev), nil, nil
	case BookingCompleted:
		return bookingCompleted(s, ev, env), nil, nil
	}

	switch s.Screen {
	case ScreenCredentials:
		return onCredentials(s, ev)
	case ScreenCode:
		return onCode(s, ev, env)
	case ScreenBuses:
		return onBuses(s, ev)
	case ScreenSeats:
		return onSeats(s, ev)
	case ScreenReview:
		return onReview(s, ev, env)
	case ScreenConfirmed:
		return onConfirmed(s, ev)
	}

	return invalid(s, ev)
}

func invalid(s State, ev Event) (State, []Effect, error) {
	return s, nil, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev.Kind(), s.Screen)
}

func onCredentials(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case SubmitCredentials:
		mode := s.Form.Mode
		if ev.Mode != "" {
			mode = ev.Mode
		}

		if strings.TrimSpace(ev.Phone) == "" {
			return s, nil, ErrPhoneRequired
		}
		if mode == domain.ModeSignup && strings.TrimSpace(ev.Name) == "" {
			return s, nil, ErrNameRequired
		}

		s.Form.Mode = mode
		s.Form.Phone = ev.Phone
		if ev.Name != "" {
			s.Form.Name = ev.Name
		}
		s.Form.Code = ""
		s.Screen = ScreenCode
		return s, nil, nil

	case ToggleMode:
		if s.Form.Mode == domain.ModeSignup {
			s.Form.Mode = domain.ModeLogin
		} else {
			s.Form.Mode = domain.ModeSignup
		}
		return s, nil, nil
	}

	return invalid(s, ev)
}

func onCode(s State, ev Event, env Env) (State, []Effect, error) {
	switch ev := ev.(type) {
	case SubmitCode:
		code := capCode(ev.Code)
		if strings.TrimSpace(code) == "" {
			return s, nil, ErrCodeRequired
		}
		if !env.Codes.Verify(s.Form.Phone, code) {
			return s, nil, ErrCodeRejected
		}

		name := s.Form.Name
		if name == "" {
			name = domain.DefaultDisplayName
		}
		s.User = &domain.User{DisplayName: name, Phone: s.Form.Phone}
		s.Form.Code = ""
		s.Screen = ScreenDetecting

		return schedule(s, TaskDiscovery, env.DiscoveryDelay)

	case BackToCredentials, Back:
		s.Form.Code = ""
		s.Screen = ScreenCredentials
		return s, nil, nil
	}

	return invalid(s, ev)
}

func onBuses(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case SearchBuses:
		s.Query = ev.Query
		return s, nil, nil

	case SelectBus:
		bus, ok := s.Location.BusByID(ev.BusID)
		if !ok {
			return s, nil, ErrUnknownBus
		}
		s.Bus = &bus
		s.Seats = domain.ComputeSeatLayout(bus.Occupancy)
		s.SelectedSeat = 0
		s.Screen = ScreenSeats
		return s, nil, nil
	}

	return invalid(s, ev)
}

func onSeats(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case ToggleSeat:
		seat, ok := domain.SeatAt(s.Seats, ev.Number)
		if !ok || seat.Status != domain.SeatAvailable {
			return s, nil, ErrSeatUnavailable
		}
		if s.SelectedSeat == ev.Number {
			s.SelectedSeat = 0
		} else {
			s.SelectedSeat = ev.Number
		}
		return s, nil, nil

	case ConfirmSeat:
		if s.SelectedSeat == 0 {
			return s, nil, ErrNoSeatSelected
		}
		s.Notice = ""
		s.Screen = ScreenReview
		return s, nil, nil

	case Back:
		s.Bus = nil
		s.Seats = nil
		s.SelectedSeat = 0
		s.Screen = ScreenBuses
		return s, nil, nil
	}

	return invalid(s, ev)
}

func onReview(s State, ev Event, env Env) (State, []Effect, error) {
	switch ev.(type) {
	case ConfirmBooking:
		s.Notice = ""
		s.Screen = ScreenProcessing
		return schedule(s, TaskBooking, env.BookingDelay)

	case Back:
		// The layout is derived again on entry; the chosen seat survives.
		s.Seats = domain.ComputeSeatLayout(s.Bus.Occupancy)
		s.Notice = ""
		s.Screen = ScreenSeats
		return s, nil, nil
	}

	return invalid(s, ev)
}

func onConfirmed(s State, ev Event) (State, []Effect, error) {
	if _, ok := ev.(ReturnHome); ok {
		next := Initial()
		next.seq = s.seq
		return next, nil, nil
	}

	return invalid(s, ev)
}

func discoveryCompleted(s State, ev DiscoveryCompleted) State {
	if s.Screen != ScreenDetecting || !s.waitingOn(TaskDiscovery, ev.Token) {
		return s
	}

	loc := ev.Location
	loc.Buses = slices.Clone(loc.Buses)
	s.Location = &loc
	s.Pending = nil
	s.Screen = ScreenBuses

	return s
}

func bookingCompleted(s State, ev BookingCompleted, env Env) State {
	if s.Screen != ScreenProcessing || !s.waitingOn(TaskBooking, ev.Token) {
		return s
	}
	s.Pending = nil

	booking := domain.Booking{
		ID:         domain.NewBookingID(ev.At),
		Bus:        *s.Bus,
		SeatNumber: s.SelectedSeat,
		Fare:       domain.Fare,
		Passenger:  *s.User,
		CreatedAt:  ev.At,
	}

	if !env.Payments.Approve(booking) {
		s.Notice = PaymentDeclinedNotice
		s.Screen = ScreenReview
		return s
	}

	s.Booking = &booking
	s.Screen = ScreenConfirmed

	return s
}

func teardown(s State) (State, []Effect, error) {
	if s.Pending == nil {
		return s, nil, nil
	}

	cancel := Cancel{Task: s.Pending.Task, Token: s.Pending.Token}
	s.Pending = nil

	return s, []Effect{cancel}, nil
}

func schedule(s State, task Task, delay time.Duration) (State, []Effect, error) {
	s.seq++
	s.Pending = &Pending{Task: task, Token: s.seq}

	return s, []Effect{Schedule{Task: task, Token: s.seq, Delay: delay}}, nil
}

func (s State) waitingOn(task Task, token uint64) bool {
	return s.Pending != nil && s.Pending.Task == task && s.Pending.Token == token
}

func capCode(code string) string {
	r := []rune(code)
	if len(r) > MaxCodeLength {
		r = r[:MaxCodeLength]
	}
	return string(r)
}
