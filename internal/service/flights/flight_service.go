package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/repository"
)

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id string, patch UpdateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	SetAvailableSeats(ctx context.Context, id string, seats int) (*domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	FromCityID     string    `json:"from_city"`
	ToCityID       string    `json:"to_city"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsAvailable *int      `json:"seats_available"`
}

type UpdateFlightInput struct {
	FromCityID     *string    `json:"from_city"`
	ToCityID       *string    `json:"to_city"`
	DepartureTime  *time.Time `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time"`
	Price          *float64   `json:"price"`
	SeatsTotal     *int       `json:"seats_total"`
	SeatsAvailable *int       `json:"seats_available"`
}

type SearchInput struct {
	FromCityID string
	ToCityID   string
	Date       string
}

type FlightService struct {
	flights repository.FlightRepository
	cities  repository.CityRepository
	cache   Cache
}

func NewFlightService(flights repository.FlightRepository, cities repository.CityRepository, cache Cache) *FlightService {
	return &FlightService{flights: flights, cities: cities, cache: cache}
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.FromCityID == "" {
		return nil, domain.NewValidationError("from_city", "is required")
	}
	if input.ToCityID == "" {
		return nil, domain.NewValidationError("to_city", "is required")
	}
	if input.FromCityID == input.ToCityID {
		return nil, domain.NewValidationError("to_city", "must differ from from_city")
	}
	if input.DepartureTime.IsZero() {
		return nil, domain.NewValidationError("departure_time", "is required")
	}
	if input.ArrivalTime.IsZero() {
		return nil, domain.NewValidationError("arrival_time", "is required")
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, domain.NewValidationError("arrival_time", "must be after departure_time")
	}
	if input.Price <= 0 {
		return nil, domain.NewValidationError("price", "must be positive")
	}
	if input.SeatsTotal <= 0 {
		return nil, domain.NewValidationError("seats_total", "must be positive")
	}
	seatsAvailable := input.SeatsTotal
	if input.SeatsAvailable != nil {
		seatsAvailable = *input.SeatsAvailable
	}
	if seatsAvailable < 0 || seatsAvailable > input.SeatsTotal {
		return nil, domain.NewValidationError("seats_available", "must be between 0 and seats_total")
	}

	if err := s.cityExists(ctx, "from_city", input.FromCityID); err != nil {
		return nil, err
	}
	if err := s.cityExists(ctx, "to_city", input.ToCityID); err != nil {
		return nil, err
	}

	if err := s.checkScheduleConflict(ctx, input.FromCityID, input.DepartureTime, input.ToCityID, input.ArrivalTime, ""); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		FromCityID:     input.FromCityID,
		ToCityID:       input.ToCityID,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		Price:          input.Price,
		SeatsTotal:     input.SeatsTotal,
		SeatsAvailable: seatsAvailable,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id string, patch UpdateFlightInput) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FromCityID != nil {
		if err := s.cityExists(ctx, "from_city", *patch.FromCityID); err != nil {
			return nil, err
		}
		flight.FromCityID = *patch.FromCityID
	}
	if patch.ToCityID != nil {
		if err := s.cityExists(ctx, "to_city", *patch.ToCityID); err != nil {
			return nil, err
		}
		flight.ToCityID = *patch.ToCityID
	}
	if flight.FromCityID == flight.ToCityID {
		return nil, domain.NewValidationError("to_city", "must differ from from_city")
	}
	if patch.DepartureTime != nil {
		flight.DepartureTime = *patch.DepartureTime
	}
	if patch.ArrivalTime != nil {
		flight.ArrivalTime = *patch.ArrivalTime
	}
	if !flight.ArrivalTime.After(flight.DepartureTime) {
		return nil, domain.NewValidationError("arrival_time", "must be after departure_time")
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, domain.NewValidationError("price", "must be positive")
		}
		flight.Price = *patch.Price
	}
	if patch.SeatsTotal != nil {
		flight.SeatsTotal = *patch.SeatsTotal
	}
	if patch.SeatsAvailable != nil {
		flight.SeatsAvailable = *patch.SeatsAvailable
	}

	// The flight being updated is excluded from the conflict set.
	if err := s.checkScheduleConflict(ctx, flight.FromCityID, flight.DepartureTime, flight.ToCityID, flight.ArrivalTime, flight.ID); err != nil {
		return nil, err
	}

	if err := s.flights.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id string) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	filter := repository.FlightSearchFilter{
		FromCityID: input.FromCityID,
		ToCityID:   input.ToCityID,
	}
	if input.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", input.Date, time.UTC)
		if err != nil {
			return nil, domain.NewValidationError("date", "must be formatted as YYYY-MM-DD")
		}
		filter.DayStart = day
		filter.DayEnd = day.AddDate(0, 0, 1)
	}
	return s.flights.Search(ctx, filter)
}

func (s *FlightService) SetAvailableSeats(ctx context.Context, id string, seats int) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if seats < 0 || seats > flight.SeatsTotal {
		return nil, domain.NewValidationError("seats_available", "must be between 0 and seats_total")
	}
	updated, err := s.flights.SetAvailableSeats(ctx, id, seats)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *FlightService) cityExists(ctx context.Context, field, id string) error {
	if _, err := s.cities.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(field, "city does not exist")
		}
		return err
	}
	return nil
}

func (s *FlightService) checkScheduleConflict(ctx context.Context, fromCityID string, departure time.Time, toCityID string, arrival time.Time, excludeID string) error {
	conflict, err := s.flights.HasScheduleConflict(ctx,
		fromCityID, departure.Truncate(time.Minute),
		toCityID, arrival.Truncate(time.Minute),
		excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("%w: another flight shares this departure or arrival slot", domain.ErrConflict)
	}
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
