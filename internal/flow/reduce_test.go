package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/citybus/internal/catalog"
	"github.com/kirinyoku/citybus/internal/domain"
)

var at = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

func step(t *testing.T, s State, ev Event) (State, []Effect) {
	t.Helper()
	next, effects, err := Reduce(s, ev, Env{})
	require.NoError(t, err, "event %s on %s", ev.Kind(), s.Screen)
	return next, effects
}

// loggedIn drives a fresh state through login and discovery.
func loggedIn(t *testing.T) State {
	t.Helper()
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "9876543210"})
	s, effects := step(t, s, SubmitCode{Code: "123456"})
	sched := effects[0].(Schedule)
	s, _ = step(t, s, DiscoveryCompleted{Token: sched.Token, Location: catalog.Default()})
	require.Equal(t, ScreenBuses, s.Screen)
	return s
}

func TestAuth_EmptyPhoneDoesNotAdvance(t *testing.T) {
	for _, phone := range []string{"", "   "} {
		s, effects, err := Reduce(Initial(), SubmitCredentials{Phone: phone}, Env{})
		assert.ErrorIs(t, err, ErrPhoneRequired)
		assert.Nil(t, effects)
		assert.Equal(t, Initial(), s)
	}
}

func TestAuth_SignupRequiresName(t *testing.T) {
	s, _ := step(t, Initial(), ToggleMode{})
	require.Equal(t, domain.ModeSignup, s.Form.Mode)

	_, _, err := Reduce(s, SubmitCredentials{Phone: "9876543210"}, Env{})
	assert.ErrorIs(t, err, ErrNameRequired)

	s, _ = step(t, s, SubmitCredentials{Name: "Priya", Phone: "9876543210"})
	assert.Equal(t, ScreenCode, s.Screen)
	assert.Equal(t, "Priya", s.Form.Name)
}

func TestAuth_ModeOnEventOverridesForm(t *testing.T) {
	_, _, err := Reduce(Initial(), SubmitCredentials{Mode: domain.ModeSignup, Phone: "1"}, Env{})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestAuth_ToggleModeKeepsFields(t *testing.T) {
	s := Initial()
	s.Form.Name = "Priya"
	s.Form.Phone = "98"

	s, _ = step(t, s, ToggleMode{})
	s, _ = step(t, s, ToggleMode{})
	assert.Equal(t, domain.ModeLogin, s.Form.Mode)
	assert.Equal(t, "Priya", s.Form.Name)
	assert.Equal(t, "98", s.Form.Phone)
}

func TestAuth_BackToCredentialsKeepsNameAndPhone(t *testing.T) {
	s, _ := step(t, Initial(), ToggleMode{})
	s, _ = step(t, s, SubmitCredentials{Name: "Priya", Phone: "9876543210"})
	s.Form.Code = "12"

	s, _ = step(t, s, BackToCredentials{})
	assert.Equal(t, ScreenCredentials, s.Screen)
	assert.Equal(t, "Priya", s.Form.Name)
	assert.Equal(t, "9876543210", s.Form.Phone)
	assert.Empty(t, s.Form.Code)
}

func TestAuth_AnyCodeAdvancesToDiscovery(t *testing.T) {
	for _, code := range []string{"123456", "0", "abc", "12345678"} {
		s, _ := step(t, Initial(), SubmitCredentials{Phone: "9876543210"})
		s, effects := step(t, s, SubmitCode{Code: code})

		assert.Equal(t, ScreenDetecting, s.Screen, "code %q", code)
		require.NotNil(t, s.User)
		assert.Equal(t, domain.User{DisplayName: "User", Phone: "9876543210"}, *s.User)

		require.Len(t, effects, 1)
		sched, ok := effects[0].(Schedule)
		require.True(t, ok)
		assert.Equal(t, TaskDiscovery, sched.Task)
		assert.Equal(t, 2000*time.Millisecond, sched.Delay)
		assert.Equal(t, Pending{Task: TaskDiscovery, Token: sched.Token}, *s.Pending)
	}
}

func TestAuth_EmptyCodeIsRequired(t *testing.T) {
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "9876543210"})
	_, _, err := Reduce(s, SubmitCode{}, Env{})
	assert.ErrorIs(t, err, ErrCodeRequired)
}

func TestAuth_FixedCodePolicy(t *testing.T) {
	env := Env{Codes: FixedCode("424242")}
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "9876543210"})

	next, effects, err := Reduce(s, SubmitCode{Code: "123456"}, env)
	assert.ErrorIs(t, err, ErrCodeRejected)
	assert.Nil(t, effects)
	assert.Equal(t, s, next)

	// Extra characters are cut before verification.
	next, _, err = Reduce(s, SubmitCode{Code: "42424299"}, env)
	require.NoError(t, err)
	assert.Equal(t, ScreenDetecting, next.Screen)
}

func TestDiscovery_StaleTokenIgnored(t *testing.T) {
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "1"})
	s, effects := step(t, s, SubmitCode{Code: "1"})
	token := effects[0].(Schedule).Token

	stale, _ := step(t, s, DiscoveryCompleted{Token: token + 1, Location: catalog.Default()})
	assert.Equal(t, s, stale)

	done, _ := step(t, s, DiscoveryCompleted{Token: token, Location: catalog.Default()})
	assert.Equal(t, ScreenBuses, done.Screen)
	assert.Nil(t, done.Pending)
	require.Len(t, done.VisibleBuses(), 3)

	again, _ := step(t, done, DiscoveryCompleted{Token: token, Location: domain.Location{}})
	assert.Equal(t, done, again)
}

func TestDiscovery_TeardownCancels(t *testing.T) {
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "1"})
	s, effects := step(t, s, SubmitCode{Code: "1"})
	token := effects[0].(Schedule).Token

	s, effects = step(t, s, Teardown{})
	assert.Equal(t, []Effect{Cancel{Task: TaskDiscovery, Token: token}}, effects)
	assert.Nil(t, s.Pending)

	after, _ := step(t, s, DiscoveryCompleted{Token: token, Location: catalog.Default()})
	assert.Equal(t, ScreenDetecting, after.Screen)
}

func TestDiscovery_UserEventsRejectedWhileDetecting(t *testing.T) {
	s, _ := step(t, Initial(), SubmitCredentials{Phone: "1"})
	s, _ = step(t, s, SubmitCode{Code: "1"})

	_, _, err := Reduce(s, SelectBus{BusID: "1"}, Env{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuses_Search(t *testing.T) {
	s := loggedIn(t)

	s, _ = step(t, s, SearchBuses{Query: "airport"})
	require.Len(t, s.VisibleBuses(), 1)
	assert.Equal(t, "21G", s.VisibleBuses()[0].Number)

	s, _ = step(t, s, SearchBuses{Query: "t.nagar"})
	assert.Len(t, s.VisibleBuses(), 2)

	s, _ = step(t, s, SearchBuses{Query: " "})
	assert.Len(t, s.VisibleBuses(), 3)
}

func TestBuses_SelectUnknown(t *testing.T) {
	_, _, err := Reduce(loggedIn(t), SelectBus{BusID: "99"}, Env{})
	assert.ErrorIs(t, err, ErrUnknownBus)
}

func TestSeats_Toggle(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "1"})
	require.Equal(t, ScreenSeats, s.Screen)
	require.Equal(t, "18C", s.Bus.Number)
	assert.Equal(t, domain.ComputeSeatLayout(65), s.Seats)

	s, _ = step(t, s, ToggleSeat{Number: 30})
	assert.Equal(t, 30, s.SelectedSeat)

	s, _ = step(t, s, ToggleSeat{Number: 30})
	assert.Equal(t, 0, s.SelectedSeat)

	s, _ = step(t, s, ToggleSeat{Number: 30})
	s, _ = step(t, s, ToggleSeat{Number: 31})
	assert.Equal(t, 31, s.SelectedSeat)

	// Seats 1..26 are occupied on an 18C at 65%.
	for _, n := range []int{1, 26, 0, 41} {
		next, _, err := Reduce(s, ToggleSeat{Number: n}, Env{})
		assert.ErrorIs(t, err, ErrSeatUnavailable, "seat %d", n)
		assert.Equal(t, 31, next.SelectedSeat)
	}
}

func TestSeats_ConfirmRequiresSelection(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "3"})
	_, _, err := Reduce(s, ConfirmSeat{}, Env{})
	assert.ErrorIs(t, err, ErrNoSeatSelected)
}

func TestSeats_BackClearsBus(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "1"})
	s, _ = step(t, s, ToggleSeat{Number: 40})
	s, _ = step(t, s, Back{})

	assert.Equal(t, ScreenBuses, s.Screen)
	assert.Nil(t, s.Bus)
	assert.Zero(t, s.SelectedSeat)
}

func TestSeats_ReentryRegeneratesSameLayout(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "2"})
	first := s.Seats

	s, _ = step(t, s, Back{})
	s, _ = step(t, s, SelectBus{BusID: "2"})
	assert.Equal(t, first, s.Seats)

	s, _ = step(t, s, ToggleSeat{Number: 33})
	s, _ = step(t, s, ConfirmSeat{})
	s, _ = step(t, s, Back{})
	assert.Equal(t, ScreenSeats, s.Screen)
	assert.Equal(t, first, s.Seats)
	assert.Equal(t, 33, s.SelectedSeat)
}

func TestBooking_ConfirmAndComplete(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "1"})
	_, _, err := Reduce(s, ToggleSeat{Number: 5}, Env{})
	require.ErrorIs(t, err, ErrSeatUnavailable, "seat 5 is occupied at 65%")

	s, _ = step(t, s, ToggleSeat{Number: 27})
	s, _ = step(t, s, ConfirmSeat{})
	require.Equal(t, ScreenReview, s.Screen)

	s, effects := step(t, s, ConfirmBooking{})
	require.Equal(t, ScreenProcessing, s.Screen)
	sched := effects[0].(Schedule)
	assert.Equal(t, TaskBooking, sched.Task)
	assert.Equal(t, 1500*time.Millisecond, sched.Delay)

	_, _, err = Reduce(s, Back{}, Env{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ = step(t, s, BookingCompleted{Token: sched.Token, At: at})
	require.Equal(t, ScreenConfirmed, s.Screen)
	require.NotNil(t, s.Booking)
	assert.Equal(t, domain.NewBookingID(at), s.Booking.ID)
	assert.Equal(t, 27, s.Booking.SeatNumber)
	assert.Equal(t, 25, s.Booking.Fare)
	assert.Equal(t, "18C", s.Booking.Bus.Number)
	assert.Equal(t, "9876543210", s.Booking.Passenger.Phone)
}

func TestBooking_Declined(t *testing.T) {
	env := Env{Payments: DeclineAll{}}
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "3"})
	s, _ = step(t, s, ToggleSeat{Number: 20})
	s, _ = step(t, s, ConfirmSeat{})

	s, effects, err := Reduce(s, ConfirmBooking{}, env)
	require.NoError(t, err)
	token := effects[0].(Schedule).Token

	s, _, err = Reduce(s, BookingCompleted{Token: token, At: at}, env)
	require.NoError(t, err)
	assert.Equal(t, ScreenReview, s.Screen)
	assert.Equal(t, PaymentDeclinedNotice, s.Notice)
	assert.Nil(t, s.Booking)
	assert.Nil(t, s.Pending)

	// A retry issues a fresh token.
	_, effects, err = Reduce(s, ConfirmBooking{}, env)
	require.NoError(t, err)
	assert.Greater(t, effects[0].(Schedule).Token, token)
}

func TestConfirmed_ReturnHome(t *testing.T) {
	s, _ := step(t, loggedIn(t), SelectBus{BusID: "3"})
	s, _ = step(t, s, ToggleSeat{Number: 40})
	s, _ = step(t, s, ConfirmSeat{})
	s, effects := step(t, s, ConfirmBooking{})
	s, _ = step(t, s, BookingCompleted{Token: effects[0].(Schedule).Token, At: at})

	home, _ := step(t, s, ReturnHome{})
	assert.Equal(t, ScreenCredentials, home.Screen)
	assert.Nil(t, home.User)
	assert.Nil(t, home.Booking)
	assert.Equal(t, s.seq, home.seq)

	_, _, err := Reduce(s, Back{}, Env{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestParsePolicies(t *testing.T) {
	v, err := ParseCodeVerifier("fixed:1234")
	require.NoError(t, err)
	assert.Equal(t, FixedCode("1234"), v)

	_, err = ParseCodeVerifier("fixed:")
	assert.Error(t, err)
	_, err = ParseCodeVerifier("fixed:1234567")
	assert.Error(t, err)
	_, err = ParseCodeVerifier("sms")
	assert.Error(t, err)

	p, err := ParsePaymentGateway("decline")
	require.NoError(t, err)
	assert.Equal(t, DeclineAll{}, p)

	p, err = ParsePaymentGateway("")
	require.NoError(t, err)
	assert.Equal(t, ApproveAll{}, p)
}

func TestEvents_KindsAreDistinct(t *testing.T) {
	events := []Event{
		SubmitCredentials{Mode: domain.ModeSignup, Name: "Asha", Phone: "9876543210"},
		ToggleMode{}, SubmitCode{}, BackToCredentials{}, DiscoveryCompleted{},
		SearchBuses{}, SelectBus{}, ToggleSeat{}, ConfirmSeat{}, Back{},
		ConfirmBooking{}, BookingCompleted{}, ReturnHome{}, Teardown{},
	}

	seen := make(map[string]bool, len(events))
	for _, ev := range events {
		kind := ev.Kind()
		require.NotEmpty(t, kind)
		assert.False(t, seen[kind], "duplicate kind %q", kind)
		seen[kind] = true
	}
}

func TestReduce_InvalidTransitionNamesEvent(t *testing.T) {
	s, effects, err := Reduce(Initial(), ConfirmSeat{}, Env{})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "confirm_seat on credentials")
	assert.Nil(t, effects)
	assert.Equal(t, Initial(), s)
}
