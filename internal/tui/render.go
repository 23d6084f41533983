package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
	"github.com/kirinyoku/citybus/internal/session"
)

func (model Model) View() string {
	var body string
	var bindings []key.Binding

	switch model.view.Screen {
	case flow.ScreenCredentials:
		body = model.renderCredentials()
		bindings = []key.Binding{model.keys.Submit, model.keys.ToggleMode}
		if model.view.Mode == domain.ModeSignup {
			bindings = append(bindings, model.keys.NextField)
		}
	case flow.ScreenCode:
		body = model.renderCode()
		bindings = []key.Binding{model.keys.Submit, model.keys.Back}
	case flow.ScreenDetecting:
		body = model.renderWaiting("Detecting your location…", "Finding buses near you")
	case flow.ScreenBuses:
		body = model.renderBusList()
		bindings = []key.Binding{model.keys.Up, model.keys.Down, model.keys.Submit, model.keys.Search}
	case flow.ScreenSeats:
		body = model.renderSeats()
		bindings = []key.Binding{model.keys.ToggleSeat, model.keys.ConfirmSeat, model.keys.Back}
	case flow.ScreenReview:
		body = model.renderReview()
		bindings = []key.Binding{model.keys.Submit, model.keys.Back}
	case flow.ScreenProcessing:
		body = model.renderWaiting("Processing payment…", "Confirming your seat")
	case flow.ScreenConfirmed:
		body = model.renderConfirmed()
		bindings = []key.Binding{model.keys.Download, model.keys.Share, model.keys.Home}
	}
	bindings = append(bindings, model.keys.Quit)

	sections := []string{model.renderHeader(), body}
	if model.status != "" {
		sections = append(sections, model.renderStatus())
	}
	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render(model.help.ShortHelpView(bindings)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.Accent).Render("CityBus")

	user := model.view.User
	if user == nil {
		return title + "\n"
	}

	avatar := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.Accent).
		Padding(0, 1).
		Render(user.Initial())
	greeting := lipgloss.NewStyle().Foreground(model.theme.NormalText).Render("Hi, " + user.DisplayName)

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", avatar, " ", greeting) + "\n"
}

func (model Model) renderStatus() string {
	color := model.theme.FaintText
	if model.failed {
		color = model.theme.Error
	}
	return "\n" + lipgloss.NewStyle().Foreground(color).Render(model.status)
}

func (model Model) renderCredentials() string {
	heading := "Welcome back"
	other := "New here? Press C-t to sign up"
	if model.view.Mode == domain.ModeSignup {
		heading = "Create your account"
		other = "Have an account? Press C-t to log in"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(heading) + "\n\n")
	if model.view.Mode == domain.ModeSignup {
		b.WriteString(model.name.View() + "\n")
	}
	b.WriteString(model.phone.View() + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(other) + "\n")

	return b.String()
}

func (model Model) renderCode() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Verify your number") + "\n\n")
	fmt.Fprintf(&b, "Enter the code sent to %s\n\n", model.view.Phone)
	b.WriteString(model.code.View() + "\n")
	return b.String()
}

func (model Model) renderWaiting(title, subtitle string) string {
	return fmt.Sprintf("%s %s\n%s\n",
		model.spinner.View(),
		lipgloss.NewStyle().Bold(true).Render(title),
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(subtitle),
	)
}

func (model Model) renderBusList() string {
	var b strings.Builder

	if loc := model.view.Location; loc != nil {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(loc.Name) + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(loc.Area) + "\n\n")
	}

	if model.searching || model.view.Query != "" {
		b.WriteString(model.search.View() + "\n\n")
	}

	if len(model.view.Buses) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No buses match your search") + "\n")
		return b.String()
	}

	for i, bus := range model.view.Buses {
		b.WriteString(model.renderBusRow(bus, i == model.busCursor) + "\n")
	}

	return b.String()
}

func (model Model) renderBusRow(bus session.BusView, selected bool) string {
	number := lipgloss.NewStyle().Bold(true).Width(5).Render(bus.Number)
	name := lipgloss.NewStyle().Width(26).Render(bus.Name)
	eta := lipgloss.NewStyle().Width(8).Render(fmt.Sprintf("%d min", bus.ETAMinutes))
	status := lipgloss.NewStyle().Width(9).Foreground(model.theme.StatusColor(bus.Status)).Render(bus.StatusLabel)

	bandStyle := lipgloss.NewStyle().Foreground(model.theme.BandColor(bus.OccupancyBand))
	if bus.Crowded {
		bandStyle = bandStyle.Bold(true)
	}
	band := bandStyle.Render(fmt.Sprintf("%d%% %s", bus.Occupancy, bus.OccupancyBand))
	rating := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(fmt.Sprintf("★ %.1f", bus.Rating))

	row := lipgloss.JoinHorizontal(lipgloss.Top, number, name, eta, status, band, "  ", rating)
	if selected {
		return lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Render("▸ " + row)
	}
	return "  " + row
}

func (model Model) renderSeats() string {
	var b strings.Builder

	if bus := model.view.Bus; bus != nil {
		fmt.Fprintf(&b, "%s  %s\n", lipgloss.NewStyle().Bold(true).Render(bus.Number), bus.Name)
		b.WriteString(lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(bus.Route) + "\n\n")
	}

	for row := 0; row*seatsPerRow < len(model.view.Seats); row++ {
		for col := 0; col < seatsPerRow; col++ {
			i := row*seatsPerRow + col
			if i >= len(model.view.Seats) {
				break
			}
			if col == seatsPerRow/2 {
				b.WriteString("   ")
			}
			b.WriteString(model.renderSeat(model.view.Seats[i]))
		}
		b.WriteString("\n")
	}

	legend := fmt.Sprintf("%s available  %s occupied  %s selected",
		lipgloss.NewStyle().Foreground(model.theme.SeatAvailable).Render("■"),
		lipgloss.NewStyle().Foreground(model.theme.SeatOccupied).Render("■"),
		lipgloss.NewStyle().Foreground(model.theme.SeatSelected).Render("■"),
	)
	b.WriteString("\n" + legend + "\n")

	if model.view.SelectedSeat != 0 {
		fmt.Fprintf(&b, "\nSeat %d selected · Fare ₹%d\n", model.view.SelectedSeat, domain.Fare)
	}

	return b.String()
}

func (model Model) renderSeat(seat domain.Seat) string {
	style := lipgloss.NewStyle().Width(4).Align(lipgloss.Center)

	switch {
	case seat.Number == model.view.SelectedSeat:
		style = style.Foreground(model.theme.SeatSelected).Bold(true)
	case seat.Status == domain.SeatOccupied:
		style = style.Foreground(model.theme.SeatOccupied)
	default:
		style = style.Foreground(model.theme.SeatAvailable)
	}
	if seat.Number == model.seatCursor {
		style = style.Reverse(true)
	}

	return style.Render(fmt.Sprintf("%02d", seat.Number))
}

func (model Model) renderReview() string {
	bus := model.view.Bus
	if bus == nil {
		return ""
	}

	passenger := ""
	if model.view.User != nil {
		passenger = model.view.User.DisplayName
	}

	rows := [][2]string{
		{"Bus", bus.Number + " · " + bus.Name},
		{"Route", bus.Route},
		{"Seat", fmt.Sprintf("%d", model.view.SelectedSeat)},
		{"Passenger", passenger},
		{"ETA", fmt.Sprintf("%d min", bus.ETAMinutes)},
		{"Fare", fmt.Sprintf("₹%d", model.view.Fare)},
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Review your booking") + "\n\n")
	label := lipgloss.NewStyle().Foreground(model.theme.FaintText).Width(11)
	for _, row := range rows {
		b.WriteString(label.Render(row[0]) + row[1] + "\n")
	}
	b.WriteString("\nPress enter to pay ₹" + fmt.Sprint(model.view.Fare) + "\n")

	return b.String()
}

func (model Model) renderConfirmed() string {
	booking := model.view.Booking
	if booking == nil {
		return ""
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 2)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(model.theme.StatusOnTime).Render("Booking confirmed") + "\n\n")
	b.WriteString(card.Render(fmt.Sprintf(
		"Booking ID  %s\nBus         %s\nSeat        %d\nFare        ₹%d",
		booking.ID, booking.Bus.Number, booking.SeatNumber, booking.Fare,
	)) + "\n")

	if model.output != "" {
		b.WriteString("\n" + model.output + "\n")
	}

	return b.String()
}
