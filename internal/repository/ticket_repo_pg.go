package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	// CreateConfirmed inserts the ticket and consumes one seat on its
	// flight in a single transaction.
	CreateConfirmed(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Update writes the ticket fields and applies seatDelta to the
	// flight's available seats in the same transaction. seatDelta is -1
	// to consume a seat, +1 to release one, 0 to leave seats alone.
	// The write only lands while the ticket still has prevStatus; a
	// concurrent status change surfaces as ErrConflict so one
	// transition can never release or consume more than one seat.
	Update(ctx context.Context, ticket *domain.Ticket, prevStatus domain.TicketStatus, seatDelta int) error
	// Delete removes the ticket and, when it was still confirmed,
	// releases its seat. Returns the ticket as it was before deletion.
	Delete(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Ticket, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Ticket, error)
	// CompleteArrived marks confirmed tickets on flights that have
	// already arrived as completed and returns them.
	CompleteArrived(ctx context.Context, now time.Time) ([]domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, passenger_name, passenger_surname, passenger_email, flight_id, seat_number, status, booking_date, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.PassengerName, &t.PassengerSurname, &t.PassengerEmail, &t.FlightID, &t.SeatNumber, &t.Status, &t.BookingDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) CreateConfirmed(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The conditional decrement is the capacity check: losing the race
	// for the last seat leaves no row to update.
	var available int
	err = tx.QueryRow(ctx, `UPDATE flights SET seats_available = seats_available - 1, updated_at = now()
		WHERE id=$1 AND seats_available > 0
		RETURNING seats_available`, ticket.FlightID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNoCapacity
		}
		return err
	}

	ticket.ID = uuid.NewString()
	ticket.Status = domain.TicketStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO tickets (id, passenger_name, passenger_surname, passenger_email, flight_id, seat_number, status, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		ticket.ID, ticket.PassengerName, ticket.PassengerSurname, ticket.PassengerEmail, ticket.FlightID, ticket.SeatNumber, ticket.Status, ticket.BookingDate).
		Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
}

func (r *PGTicketRepository) Update(ctx context.Context, ticket *domain.Ticket, prevStatus domain.TicketStatus, seatDelta int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the ticket row before touching the flight so this path and
	// Delete take their locks in the same order.
	var current domain.TicketStatus
	err = tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1 FOR UPDATE`, ticket.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if current != prevStatus {
		return fmt.Errorf("%w: ticket status changed concurrently", domain.ErrConflict)
	}

	if err := applySeatDelta(ctx, tx, ticket.FlightID, seatDelta); err != nil {
		return err
	}

	updated, err := scanTicket(tx.QueryRow(ctx, `UPDATE tickets SET passenger_name=$1, passenger_surname=$2, passenger_email=$3, seat_number=$4, status=$5, updated_at=now()
		WHERE id=$6
		RETURNING `+ticketColumns,
		ticket.PassengerName, ticket.PassengerSurname, ticket.PassengerEmail, ticket.SeatNumber, ticket.Status, ticket.ID))
	if err != nil {
		return err
	}
	*ticket = *updated

	return tx.Commit(ctx)
}

func (r *PGTicketRepository) Delete(ctx context.Context, id string) (*domain.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := scanTicket(tx.QueryRow(ctx, `DELETE FROM tickets WHERE id=$1 RETURNING `+ticketColumns, id))
	if err != nil {
		return nil, err
	}

	if ticket.Status == domain.TicketStatusConfirmed {
		// Zero rows here means the flight is gone; the ticket is removed
		// regardless and the release is skipped.
		if err := applySeatDelta(ctx, tx, ticket.FlightID, +1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

// applySeatDelta mutates the flight's available seats inside tx. Consuming
// a seat requires remaining capacity; releasing one is capped at the
// flight's total so repeated releases can never overfill it.
func applySeatDelta(ctx context.Context, tx pgx.Tx, flightID string, delta int) error {
	switch {
	case delta < 0:
		var available int
		err := tx.QueryRow(ctx, `UPDATE flights SET seats_available = seats_available - 1, updated_at = now()
			WHERE id=$1 AND seats_available > 0
			RETURNING seats_available`, flightID).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNoCapacity
		}
		return err
	case delta > 0:
		_, err := tx.Exec(ctx, `UPDATE flights SET seats_available = LEAST(seats_available + 1, seats_total), updated_at = now()
			WHERE id=$1`, flightID)
		return err
	}
	return nil
}

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY booking_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PGTicketRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE flight_id=$1 ORDER BY booking_date DESC`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PGTicketRepository) ListByEmail(ctx context.Context, email string) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE passenger_email=$1 ORDER BY booking_date DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PGTicketRepository) CompleteArrived(ctx context.Context, now time.Time) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `UPDATE tickets SET status=$1, updated_at=now()
		WHERE status=$2 AND flight_id IN (SELECT id FROM flights WHERE arrival_time <= $3)
		RETURNING `+ticketColumns,
		domain.TicketStatusCompleted, domain.TicketStatusConfirmed, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.PassengerName, &t.PassengerSurname, &t.PassengerEmail, &t.FlightID, &t.SeatNumber, &t.Status, &t.BookingDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

var _ TicketRepository = (*PGTicketRepository)(nil)
