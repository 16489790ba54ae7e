package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightSearchFilter struct {
	FromCityID string
	ToCityID   string
	// DayStart/DayEnd bound departure_time to a calendar day when non-zero.
	DayStart time.Time
	DayEnd   time.Time
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter FlightSearchFilter) ([]domain.Flight, error)
	HasScheduleConflict(ctx context.Context, fromCityID string, departure time.Time, toCityID string, arrival time.Time, excludeID string) (bool, error)
	SetAvailableSeats(ctx context.Context, id string, seats int) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, from_city, to_city, departure_time, arrival_time, price, seats_total, seats_available, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FromCityID, &f.ToCityID, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.SeatsTotal, &f.SeatsAvailable, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	flight.ID = uuid.NewString()
	return r.db.QueryRow(ctx, `INSERT INTO flights (id, from_city, to_city, departure_time, arrival_time, price, seats_total, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		flight.ID, flight.FromCityID, flight.ToCityID, flight.DepartureTime, flight.ArrivalTime, flight.Price, flight.SeatsTotal, flight.SeatsAvailable).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	updated, err := scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET from_city=$1, to_city=$2, departure_time=$3, arrival_time=$4, price=$5, seats_total=$6, seats_available=$7, updated_at=now()
		WHERE id=$8
		RETURNING `+flightColumns,
		flight.FromCityID, flight.ToCityID, flight.DepartureTime, flight.ArrivalTime, flight.Price, flight.SeatsTotal, flight.SeatsAvailable, flight.ID))
	if err != nil {
		return err
	}
	*flight = *updated
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, filter FlightSearchFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE 1=1`
	args := make([]any, 0, 4)
	if filter.FromCityID != "" {
		args = append(args, filter.FromCityID)
		query += ` AND from_city=$` + strconv.Itoa(len(args))
	}
	if filter.ToCityID != "" {
		args = append(args, filter.ToCityID)
		query += ` AND to_city=$` + strconv.Itoa(len(args))
	}
	if !filter.DayStart.IsZero() {
		args = append(args, filter.DayStart)
		query += ` AND departure_time >= $` + strconv.Itoa(len(args))
		args = append(args, filter.DayEnd)
		query += ` AND departure_time < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

// HasScheduleConflict reports whether another flight departs the same city
// in the same minute, or arrives at the same city in the same minute.
// Timestamps are compared at minute granularity on both sides.
func (r *PGFlightRepository) HasScheduleConflict(ctx context.Context, fromCityID string, departure time.Time, toCityID string, arrival time.Time, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM flights
		WHERE id <> $5
		AND ((from_city=$1 AND date_trunc('minute', departure_time) = date_trunc('minute', $2::timestamptz))
		  OR (to_city=$3 AND date_trunc('minute', arrival_time) = date_trunc('minute', $4::timestamptz)))`,
		fromCityID, departure, toCityID, arrival, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGFlightRepository) SetAvailableSeats(ctx context.Context, id string, seats int) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET seats_available=$1, updated_at=now() WHERE id=$2 RETURNING `+flightColumns, seats, id))
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.FromCityID, &f.ToCityID, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.SeatsTotal, &f.SeatsAvailable, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
