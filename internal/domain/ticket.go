package domain

import "time"

type TicketStatus string

const (
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusCompleted TicketStatus = "completed"
)

// ValidTicketStatus reports whether s is one of the known ticket statuses.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusConfirmed, TicketStatusCancelled, TicketStatusCompleted:
		return true
	}
	return false
}

// Ticket is a passenger's claim on one seat of a flight. While its status
// is confirmed it holds exactly one unit of the flight's available seats.
type Ticket struct {
	ID               string       `json:"id"`
	PassengerName    string       `json:"passenger_name"`
	PassengerSurname string       `json:"passenger_surname"`
	PassengerEmail   string       `json:"passenger_email"`
	FlightID         string       `json:"flight_id"`
	SeatNumber       string       `json:"seat_number,omitempty"`
	Status           TicketStatus `json:"status"`
	BookingDate      time.Time    `json:"booking_date"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
