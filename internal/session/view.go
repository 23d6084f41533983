package session

import (
	"slices"

	"github.com/kirinyoku/citybus/internal/domain"
	"github.com/kirinyoku/citybus/internal/flow"
)

// BusView is a bus with its display labels resolved.
type BusView struct {
	domain.Bus
	StatusLabel   string               `json:"status_label"`
	OccupancyBand domain.OccupancyBand `json:"occupancy_band"`
	Crowded       bool                 `json:"crowded"`
}

type LocationView struct {
	Name string `json:"name"`
	Area string `json:"area"`
}

// View is a read-only snapshot of a session for renderers. It shares no
// memory with the controller's state.
type View struct {
	SessionID    string          `json:"session_id"`
	Screen       flow.Screen     `json:"screen"`
	Mode         domain.AuthMode `json:"mode"`
	Name         string          `json:"name,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	User         *domain.User    `json:"user,omitempty"`
	Location     *LocationView   `json:"location,omitempty"`
	Query        string          `json:"query,omitempty"`
	Buses        []BusView       `json:"buses,omitempty"`
	Bus          *BusView        `json:"bus,omitempty"`
	Seats        []domain.Seat   `json:"seats,omitempty"`
	SelectedSeat int             `json:"selected_seat,omitempty"`
	Fare         int             `json:"fare,omitempty"`
	Booking      *domain.Booking `json:"booking,omitempty"`
	Notice       string          `json:"notice,omitempty"`
}

func newBusView(b domain.Bus) BusView {
	band := domain.Band(b.Occupancy)
	return BusView{
		Bus:           b,
		StatusLabel:   b.Status.Label(),
		OccupancyBand: band,
		Crowded:       band.HighEmphasis(),
	}
}

func newView(id string, s flow.State) View {
	v := View{
		SessionID:    id,
		Screen:       s.Screen,
		Mode:         s.Form.Mode,
		Name:         s.Form.Name,
		Phone:        s.Form.Phone,
		Query:        s.Query,
		Seats:        slices.Clone(s.Seats),
		SelectedSeat: s.SelectedSeat,
		Notice:       s.Notice,
	}

	if s.User != nil {
		u := *s.User
		v.User = &u
	}

	if s.Location != nil {
		v.Location = &LocationView{Name: s.Location.Name, Area: s.Location.Area}
		for _, b := range s.VisibleBuses() {
			v.Buses = append(v.Buses, newBusView(b))
		}
	}

	if s.Bus != nil {
		bv := newBusView(*s.Bus)
		v.Bus = &bv
		v.Fare = domain.Fare
	}

	if s.Booking != nil {
		b := *s.Booking
		v.Booking = &b
	}

	return v
}
