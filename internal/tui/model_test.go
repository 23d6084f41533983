package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/citybus/internal/clock"
	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/session"
)

type harness struct {
	t       *testing.T
	clock   *clock.FakeClock
	manager *session.Manager
	ctrl    *session.Controller
	model   Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := clock.Fake(time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC))
	manager := session.NewManager(session.Options{Clock: clk})
	ctrl := manager.Open()

	return &harness{
		t:       t,
		clock:   clk,
		manager: manager,
		ctrl:    ctrl,
		model:   NewModel(context.Background(), ctrl),
	}
}

func (h *harness) send(message tea.Msg) {
	h.t.Helper()
	updated, _ := h.model.Update(message)
	h.model = updated.(Model)
}

func (h *harness) typeText(text string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func (h *harness) press(keyType tea.KeyType) {
	h.send(tea.KeyMsg{Type: keyType})
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.send(changeMsg{})
}

func (h *harness) screen() flow.Screen { return h.model.Session().Screen }

func (h *harness) toBusList() {
	h.t.Helper()
	h.typeText("9876543210")
	h.press(tea.KeyEnter)
	h.typeText("123456")
	h.press(tea.KeyEnter)
	require.Equal(h.t, flow.ScreenDetecting, h.screen())
	h.advance(2 * time.Second)
	require.Equal(h.t, flow.ScreenBuses, h.screen())
}

func TestModel_BookingJourney(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.model.View(), "Welcome back")

	h.typeText("9876543210")
	h.press(tea.KeyEnter)
	require.Equal(t, flow.ScreenCode, h.screen())
	assert.Contains(t, h.model.View(), "9876543210")

	h.typeText("1234567")
	assert.Equal(t, "123456", h.model.code.Value())
	h.press(tea.KeyEnter)
	require.Equal(t, flow.ScreenDetecting, h.screen())
	assert.Contains(t, h.model.View(), "Detecting your location")

	h.advance(2 * time.Second)
	require.Equal(t, flow.ScreenBuses, h.screen())
	view := h.model.View()
	assert.Contains(t, view, "T. Nagar Bus Stop")
	assert.Contains(t, view, "Hi, User")
	for _, number := range []string{"18C", "21G", "70"} {
		assert.Contains(t, view, number)
	}

	h.press(tea.KeyEnter)
	require.Equal(t, flow.ScreenSeats, h.screen())
	assert.Equal(t, 27, h.model.seatCursor, "cursor starts on the first free seat")

	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 27, h.model.Session().SelectedSeat)

	h.typeText("c")
	require.Equal(t, flow.ScreenReview, h.screen())
	assert.Contains(t, h.model.View(), "₹25")

	h.press(tea.KeyEnter)
	require.Equal(t, flow.ScreenProcessing, h.screen())

	h.advance(1500 * time.Millisecond)
	require.Equal(t, flow.ScreenConfirmed, h.screen())
	booking := h.model.Session().Booking
	require.NotNil(t, booking)
	assert.Regexp(t, `^CTB\d{6}$`, booking.ID)

	h.typeText("d")
	assert.Contains(t, h.model.View(), "Digital Ticket "+booking.ID)

	h.typeText("H")
	require.Equal(t, flow.ScreenCredentials, h.screen())
	assert.Nil(t, h.model.Session().User)
	assert.Empty(t, h.model.phone.Value())
}

func TestModel_RequiredPhone(t *testing.T) {
	h := newHarness(t)

	h.press(tea.KeyEnter)

	assert.Equal(t, flow.ScreenCredentials, h.screen())
	assert.Equal(t, "Phone number is required", h.model.status)
	assert.True(t, h.model.failed)
}

func TestModel_SignupFields(t *testing.T) {
	h := newHarness(t)

	h.press(tea.KeyCtrlT)
	require.Equal(t, domain.ModeSignup, h.model.Session().Mode)
	assert.Contains(t, h.model.View(), "Create your account")

	h.press(tea.KeyTab)
	h.typeText("Asha")
	h.press(tea.KeyTab)
	h.typeText("9876543210")

	assert.Equal(t, "Asha", h.model.name.Value())
	assert.Equal(t, "9876543210", h.model.phone.Value())

	h.press(tea.KeyEnter)
	h.typeText("1")
	h.press(tea.KeyEnter)
	h.advance(2 * time.Second)

	assert.Contains(t, h.model.View(), "Hi, Asha")
}

func TestModel_SearchFiltersBuses(t *testing.T) {
	h := newHarness(t)
	h.toBusList()

	h.typeText("/")
	require.True(t, h.model.searching)
	h.typeText("air")

	buses := h.model.Session().Buses
	require.Len(t, buses, 1)
	assert.Equal(t, "21G", buses[0].Number)

	h.press(tea.KeyEsc)
	assert.False(t, h.model.searching)
	assert.Len(t, h.model.Session().Buses, 3)
}

func TestModel_OccupiedSeatShowsStatus(t *testing.T) {
	h := newHarness(t)
	h.toBusList()
	h.press(tea.KeyEnter)

	h.model.seatCursor = 5
	h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Zero(t, h.model.Session().SelectedSeat)
	assert.Equal(t, "Seat is not available", h.model.status)

	h.press(tea.KeyEsc)
	assert.Equal(t, flow.ScreenBuses, h.screen())
}

func TestModel_SeatCursorStaysOnMap(t *testing.T) {
	h := newHarness(t)
	h.toBusList()
	h.press(tea.KeyEnter)

	h.model.seatCursor = 40
	h.press(tea.KeyDown)
	h.press(tea.KeyRight)
	assert.Equal(t, 40, h.model.seatCursor)

	h.press(tea.KeyUp)
	h.press(tea.KeyLeft)
	assert.Equal(t, 35, h.model.seatCursor)
}

func TestListenForChanges_ReportsClose(t *testing.T) {
	h := newHarness(t)
	h.manager.Close(h.ctrl.ID())

	cmd := listenForChanges(h.ctrl.Changes())
	var message tea.Msg
	for range 3 {
		if message = cmd(); message == (closedMsg{}) {
			break
		}
	}
	assert.Equal(t, closedMsg{}, message)

	_, quit := h.model.Update(closedMsg{})
	require.NotNil(t, quit)
}

func TestSentence(t *testing.T) {
	assert.Equal(t, "Seat is not available", sentence(flow.ErrSeatUnavailable))
	assert.True(t, strings.HasPrefix(sentence(flow.ErrNoSeatSelected), "No"))
}
