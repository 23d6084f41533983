// Package tui is a terminal client for one booking session. The model
// renders session.View snapshots and turns key presses into flow events;
// it never mutates flow state itself.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/session"
)

// seatsPerRow is the seat map width: two seats, the aisle, two seats.
const seatsPerRow = 4

type changeMsg struct{}

type closedMsg struct{}

type credentialField int

const (
	fieldPhone credentialField = iota
	fieldName
)

type Model struct {
	ctx  context.Context
	ctrl *session.Controller
	view session.View

	keys    KeyMap
	theme   Theme
	help    help.Model
	spinner spinner.Model

	name   textinput.Model
	phone  textinput.Model
	code   textinput.Model
	search textinput.Model

	focus     credentialField
	searching bool

	busCursor  int
	seatCursor int

	// status is the one-line feedback under the screen body.
	status string
	failed bool
	// output holds rendered ticket or share text on the confirmation screen.
	output string

	width  int
	height int
}

func NewModel(ctx context.Context, ctrl *session.Controller) Model {
	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Prompt = "› "
		return in
	}

	model := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		view:    ctrl.View(),
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		name:    newInput("Your name", 40),
		phone:   newInput("Phone number", 15),
		code:    newInput("6-digit code", flow.MaxCodeLength),
		search:  newInput("Search by number, name or route", 40),
	}
	model.enterScreen()

	return model
}

// Session returns the snapshot the model last rendered.
func (model Model) Session() session.View { return model.view }

func (model Model) Init() tea.Cmd {
	return tea.Batch(
		listenForChanges(model.ctrl.Changes()),
		model.spinner.Tick,
		textinput.Blink,
	)
}

// listenForChanges waits for the controller to apply an event, including
// timer fires that happen while the user is idle.
func listenForChanges(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return closedMsg{}
		}
		return changeMsg{}
	}
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		return model, nil

	case changeMsg:
		model.refresh(model.ctrl.View())
		return model, listenForChanges(model.ctrl.Changes())

	case closedMsg:
		return model, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd

	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		return model.handleKey(message)
	}

	return model.updateInputs(message)
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.view.Screen {
	case flow.ScreenCredentials:
		return model.handleCredentialsKeys(message)
	case flow.ScreenCode:
		return model.handleCodeKeys(message)
	case flow.ScreenBuses:
		if model.searching {
			return model.handleSearchKeys(message)
		}
		model.handleBusListKeys(message)
	case flow.ScreenSeats:
		model.handleSeatKeys(message)
	case flow.ScreenReview:
		switch {
		case key.Matches(message, model.keys.Submit):
			model.dispatch(flow.ConfirmBooking{})
		case key.Matches(message, model.keys.Back):
			model.dispatch(flow.Back{})
		}
	case flow.ScreenConfirmed:
		model.handleConfirmedKeys(message)
	}

	return model, nil
}

func (model Model) handleCredentialsKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Submit):
		model.dispatch(flow.SubmitCredentials{
			Mode:  model.view.Mode,
			Name:  model.name.Value(),
			Phone: model.phone.Value(),
		})
		return model, nil
	case key.Matches(message, model.keys.ToggleMode):
		model.dispatch(flow.ToggleMode{})
		model.focusCredentials(fieldPhone)
		return model, nil
	case key.Matches(message, model.keys.NextField):
		if model.view.Mode == domain.ModeSignup {
			model.focusCredentials(1 - model.focus)
		}
		return model, nil
	}

	var cmd tea.Cmd
	if model.focus == fieldName {
		model.name, cmd = model.name.Update(message)
	} else {
		model.phone, cmd = model.phone.Update(message)
	}
	return model, cmd
}

func (model Model) handleCodeKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Submit):
		model.dispatch(flow.SubmitCode{Code: model.code.Value()})
		return model, nil
	case key.Matches(message, model.keys.Back):
		model.dispatch(flow.BackToCredentials{})
		return model, nil
	}

	var cmd tea.Cmd
	model.code, cmd = model.code.Update(message)
	return model, cmd
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Submit):
		model.searching = false
		model.search.Blur()
		return model, nil
	case key.Matches(message, model.keys.Back):
		model.searching = false
		model.search.Blur()
		model.search.SetValue("")
		model.dispatch(flow.SearchBuses{})
		return model, nil
	}

	before := model.search.Value()
	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	if model.search.Value() != before {
		model.dispatch(flow.SearchBuses{Query: model.search.Value()})
		model.busCursor = 0
	}
	return model, cmd
}

func (model *Model) handleBusListKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Search):
		model.searching = true
		model.search.Focus()
	case key.Matches(message, model.keys.Up):
		model.busCursor = max(model.busCursor-1, 0)
	case key.Matches(message, model.keys.Down):
		model.busCursor = min(model.busCursor+1, max(len(model.view.Buses)-1, 0))
	case key.Matches(message, model.keys.Submit):
		if model.busCursor < len(model.view.Buses) {
			model.dispatch(flow.SelectBus{BusID: model.view.Buses[model.busCursor].ID})
		}
	}
}

func (model *Model) handleSeatKeys(message tea.KeyMsg) {
	last := len(model.view.Seats)
	move := func(delta int) {
		if next := model.seatCursor + delta; next >= 1 && next <= last {
			model.seatCursor = next
		}
	}

	switch {
	case key.Matches(message, model.keys.Left):
		move(-1)
	case key.Matches(message, model.keys.Right):
		move(1)
	case key.Matches(message, model.keys.Up):
		move(-seatsPerRow)
	case key.Matches(message, model.keys.Down):
		move(seatsPerRow)
	case key.Matches(message, model.keys.ToggleSeat):
		model.dispatch(flow.ToggleSeat{Number: model.seatCursor})
	case key.Matches(message, model.keys.ConfirmSeat), key.Matches(message, model.keys.Submit):
		model.dispatch(flow.ConfirmSeat{})
	case key.Matches(message, model.keys.Back):
		model.dispatch(flow.Back{})
	}
}

func (model *Model) handleConfirmedKeys(message tea.KeyMsg) {
	booking := model.view.Booking
	if booking == nil {
		return
	}

	switch {
	case key.Matches(message, model.keys.Download):
		model.output = booking.TicketText()
		model.status = "Ticket downloaded"
	case key.Matches(message, model.keys.Share):
		model.output = booking.ShareText()
		model.status = "Share text ready"
	case key.Matches(message, model.keys.Home), key.Matches(message, model.keys.Submit):
		model.dispatch(flow.ReturnHome{})
	}
}

// updateInputs forwards non-key messages such as cursor blinks to the
// focused text field.
func (model Model) updateInputs(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case model.view.Screen == flow.ScreenCredentials && model.focus == fieldName:
		model.name, cmd = model.name.Update(message)
	case model.view.Screen == flow.ScreenCredentials:
		model.phone, cmd = model.phone.Update(message)
	case model.view.Screen == flow.ScreenCode:
		model.code, cmd = model.code.Update(message)
	case model.searching:
		model.search, cmd = model.search.Update(message)
	}
	return model, cmd
}

func (model *Model) dispatch(ev flow.Event) {
	view, err := model.ctrl.Dispatch(model.ctx, ev)
	if errors.Is(err, session.ErrClosed) {
		model.status = "Session closed"
		return
	}

	model.refresh(view)
	if err != nil {
		model.status = sentence(err)
		model.failed = true
	}
}

func (model *Model) refresh(view session.View) {
	previous := model.view.Screen
	model.view = view
	model.status = view.Notice
	model.failed = view.Notice != ""
	if previous != view.Screen {
		model.enterScreen()
	}
}

// enterScreen resets per-screen widgets after a screen change.
func (model *Model) enterScreen() {
	model.output = ""
	model.searching = false
	model.search.Blur()

	switch model.view.Screen {
	case flow.ScreenCredentials:
		if model.view.User == nil && model.view.Phone == "" {
			model.name.SetValue("")
			model.phone.SetValue("")
		}
		model.code.SetValue("")
		model.focusCredentials(fieldPhone)
	case flow.ScreenCode:
		model.name.Blur()
		model.phone.Blur()
		model.code.SetValue("")
		model.code.Focus()
	case flow.ScreenBuses:
		model.code.Blur()
		model.busCursor = 0
		model.search.SetValue(model.view.Query)
	case flow.ScreenSeats:
		model.seatCursor = model.view.SelectedSeat
		if model.seatCursor == 0 {
			model.seatCursor = firstAvailable(model.view.Seats)
		}
	}
}

func (model *Model) focusCredentials(field credentialField) {
	if model.view.Mode != domain.ModeSignup {
		field = fieldPhone
	}
	model.focus = field
	if field == fieldName {
		model.phone.Blur()
		model.name.Focus()
	} else {
		model.name.Blur()
		model.phone.Focus()
	}
}

func firstAvailable(seats []domain.Seat) int {
	for _, seat := range seats {
		if seat.Status == domain.SeatAvailable {
			return seat.Number
		}
	}
	return 1
}

func sentence(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
