package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BookingIDPrefix starts every booking identifier.
const BookingIDPrefix = "CTB"

// NewBookingID builds a display identifier from the last six digits of the
// creation time in Unix milliseconds.
func NewBookingID(at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	if len(ms) < 6 {
		ms = strings.Repeat("0", 6-len(ms)) + ms
	}
	return BookingIDPrefix + ms[len(ms)-6:]
}

var ticketInstructions = []string{
	"Show this digital ticket to the bus conductor",
	"Arrive at the bus stop 5 minutes before ETA",
	"Keep your phone charged for ticket verification",
	"Contact support if the bus doesn't arrive within 15 minutes",
}

// TicketText renders the digital ticket for download.
func (b Booking) TicketText() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Digital Ticket %s\n", b.ID)
	fmt.Fprintf(&sb, "Bus:       %s (%s)\n", b.Bus.Number, b.Bus.Name)
	fmt.Fprintf(&sb, "Seat:      %d\n", b.SeatNumber)
	fmt.Fprintf(&sb, "Passenger: %s\n", b.Passenger.DisplayName)
	fmt.Fprintf(&sb, "Phone:     %s\n", b.Passenger.Phone)
	fmt.Fprintf(&sb, "ETA:       %d minutes\n", b.Bus.ETAMinutes)
	fmt.Fprintf(&sb, "Fare paid: ₹%d\n", b.Fare)
	sb.WriteString("\n")
	for _, line := range ticketInstructions {
		sb.WriteString("• " + line + "\n")
	}

	return sb.String()
}

// ShareText is the one-line message offered by "Share Ticket".
func (b Booking) ShareText() string {
	return fmt.Sprintf(
		"My bus ticket %s: bus %s, seat %d, arriving in %d min",
		b.ID, b.Bus.Number, b.SeatNumber, b.Bus.ETAMinutes,
	)
}
