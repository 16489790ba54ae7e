package tickets

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/kafka"
	"github.com/beratbaran/flyticket/internal/repository"
)

type TicketUseCase interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	Update(ctx context.Context, id string, patch UpdateTicketInput) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Ticket, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Ticket, error)
	CompleteArrived(ctx context.Context) ([]domain.Ticket, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CreateTicketInput struct {
	PassengerName    string `json:"passenger_name"`
	PassengerSurname string `json:"passenger_surname"`
	PassengerEmail   string `json:"passenger_email"`
	FlightID         string `json:"flight_id"`
	SeatNumber       string `json:"seat_number"`
}

type UpdateTicketInput struct {
	PassengerName    *string `json:"passenger_name"`
	PassengerSurname *string `json:"passenger_surname"`
	PassengerEmail   *string `json:"passenger_email"`
	SeatNumber       *string `json:"seat_number"`
	Status           *string `json:"status"`
}

type TicketService struct {
	tickets            repository.TicketRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
}

type TicketServiceOption func(*TicketService)

func WithNotificationsTopic(topic string) TicketServiceOption {
	return func(s *TicketService) {
		s.notificationsTopic = topic
	}
}

func NewTicketService(
	tickets repository.TicketRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	opts ...TicketServiceOption,
) *TicketService {
	service := &TicketService{
		tickets:     tickets,
		flights:     flights,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create books one seat. The capacity check, the ticket insert and the
// seat decrement commit as one transaction in the repository; two
// concurrent bookings of the last seat cannot both succeed.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if input.PassengerName == "" {
		return nil, domain.NewValidationError("passenger_name", "is required")
	}
	if input.PassengerSurname == "" {
		return nil, domain.NewValidationError("passenger_surname", "is required")
	}
	if input.PassengerEmail == "" {
		return nil, domain.NewValidationError("passenger_email", "is required")
	}
	if !emailPattern.MatchString(input.PassengerEmail) {
		return nil, domain.NewValidationError("passenger_email", "invalid email format")
	}
	if input.FlightID == "" {
		return nil, domain.NewValidationError("flight_id", "is required")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.SeatsAvailable <= 0 {
		return nil, domain.ErrNoCapacity
	}

	ticket := &domain.Ticket{
		PassengerName:    input.PassengerName,
		PassengerSurname: input.PassengerSurname,
		PassengerEmail:   input.PassengerEmail,
		FlightID:         input.FlightID,
		SeatNumber:       input.SeatNumber,
		BookingDate:      time.Now().UTC(),
	}
	if err := s.tickets.CreateConfirmed(ctx, ticket); err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventTicketCreated, ticket)
	return ticket, nil
}

// Update patches passenger fields freely. Status transitions follow one
// explicit seat policy: leaving confirmed for cancelled releases the
// seat, returning from cancelled to confirmed re-acquires one (and fails
// when the flight is full), completing keeps the seat consumed. Both the
// status write and the seat mutation commit together, guarded by the
// status this request read, so two racing transitions of one ticket
// cannot double-release or double-consume a seat.
func (s *TicketService) Update(ctx context.Context, id string, patch UpdateTicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.PassengerName != nil {
		ticket.PassengerName = *patch.PassengerName
	}
	if patch.PassengerSurname != nil {
		ticket.PassengerSurname = *patch.PassengerSurname
	}
	if patch.PassengerEmail != nil {
		if !emailPattern.MatchString(*patch.PassengerEmail) {
			return nil, domain.NewValidationError("passenger_email", "invalid email format")
		}
		ticket.PassengerEmail = *patch.PassengerEmail
	}
	if patch.SeatNumber != nil {
		ticket.SeatNumber = *patch.SeatNumber
	}

	seatDelta := 0
	cancelled := false
	prevStatus := ticket.Status
	if patch.Status != nil {
		next := domain.TicketStatus(*patch.Status)
		if !domain.ValidTicketStatus(next) {
			return nil, domain.NewValidationError("status", "must be confirmed, cancelled or completed")
		}
		seatDelta, err = statusSeatDelta(ticket.Status, next)
		if err != nil {
			return nil, err
		}
		cancelled = ticket.Status == domain.TicketStatusConfirmed && next == domain.TicketStatusCancelled
		ticket.Status = next
	}

	if err := s.tickets.Update(ctx, ticket, prevStatus, seatDelta); err != nil {
		return nil, err
	}

	if seatDelta != 0 {
		s.invalidateFlights(ctx)
	}
	if cancelled {
		s.publish(ctx, kafka.EventTicketCancelled, ticket)
	}
	return ticket, nil
}

// statusSeatDelta maps a status transition to the seat adjustment it
// carries. Completed is terminal.
func statusSeatDelta(from, to domain.TicketStatus) (int, error) {
	if from == to {
		return 0, nil
	}
	switch {
	case from == domain.TicketStatusConfirmed && to == domain.TicketStatusCancelled:
		return +1, nil
	case from == domain.TicketStatusCancelled && to == domain.TicketStatusConfirmed:
		return -1, nil
	case from == domain.TicketStatusConfirmed && to == domain.TicketStatusCompleted:
		return 0, nil
	default:
		return 0, domain.NewValidationError("status", "invalid transition from "+string(from))
	}
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	ticket, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return err
	}

	if ticket.Status == domain.TicketStatusConfirmed {
		s.invalidateFlights(ctx)
	}
	s.publish(ctx, kafka.EventTicketDeleted, ticket)
	return nil
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

func (s *TicketService) ListByFlight(ctx context.Context, flightID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("no tickets found for this flight: %w", domain.ErrNotFound)
	}
	return tickets, nil
}

func (s *TicketService) ListByEmail(ctx context.Context, email string) ([]domain.Ticket, error) {
	return s.tickets.ListByEmail(ctx, email)
}

// CompleteArrived is the worker sweep: confirmed tickets on flights past
// their arrival time become completed. Seats stay consumed.
func (s *TicketService) CompleteArrived(ctx context.Context) ([]domain.Ticket, error) {
	completed, err := s.tickets.CompleteArrived(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	for i := range completed {
		s.publish(ctx, kafka.EventTicketCompleted, &completed[i])
	}
	return completed, nil
}

func (s *TicketService) invalidateFlights(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

func (s *TicketService) publish(ctx context.Context, eventType string, ticket *domain.Ticket) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.TicketEvent{
		Type:        eventType,
		TicketID:    ticket.ID,
		FlightID:    ticket.FlightID,
		Passenger:   ticket.PassengerName + " " + ticket.PassengerSurname,
		Email:       ticket.PassengerEmail,
		SeatNumber:  ticket.SeatNumber,
		Status:      string(ticket.Status),
		BookingDate: ticket.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, ticket.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for ticket %s: %v", eventType, ticket.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, ticket.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for ticket %s: %v", eventType, ticket.ID, err)
		}
	}
}

var _ TicketUseCase = (*TicketService)(nil)
