package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingID(t *testing.T) {
	at := time.UnixMilli(1760518800123)
	assert.Equal(t, "CTB800123", NewBookingID(at))

	assert.Regexp(t, regexp.MustCompile(`^CTB\d{6}$`), NewBookingID(time.Now()))
}

func TestNewBookingID_PadsShortTimestamps(t *testing.T) {
	assert.Equal(t, "CTB000042", NewBookingID(time.UnixMilli(42)))
}

func TestBooking_TicketText(t *testing.T) {
	b := Booking{
		ID:         "CTB123456",
		Bus:        Bus{Number: "18C", Name: "Broadway - Adambakkam", ETAMinutes: 5},
		SeatNumber: 5,
		Fare:       Fare,
		Passenger:  User{DisplayName: "User", Phone: "9876543210"},
	}

	text := b.TicketText()
	assert.Contains(t, text, "CTB123456")
	assert.Contains(t, text, "18C (Broadway - Adambakkam)")
	assert.Contains(t, text, "Seat:      5")
	assert.Contains(t, text, "₹25")
	assert.Contains(t, text, "Show this digital ticket to the bus conductor")

	assert.Equal(t, "My bus ticket CTB123456: bus 18C, seat 5, arriving in 5 min", b.ShareText())
}

func TestUser_Initial(t *testing.T) {
	assert.Equal(t, "R", User{DisplayName: "Ravi"}.Initial())
	assert.Equal(t, "", User{}.Initial())
}
