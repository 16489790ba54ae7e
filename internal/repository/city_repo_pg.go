package repository

import (
	"context"
	"errors"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CityRepository interface {
	Create(ctx context.Context, city *domain.City) error
	GetByID(ctx context.Context, id string) (*domain.City, error)
	List(ctx context.Context) ([]domain.City, error)
}

type PGCityRepository struct {
	db *pgxpool.Pool
}

func NewCityRepository(db *pgxpool.Pool) CityRepository {
	return &PGCityRepository{db: db}
}

func (r *PGCityRepository) Create(ctx context.Context, city *domain.City) error {
	city.ID = uuid.NewString()
	_, err := r.db.Exec(ctx, `INSERT INTO cities (id, city_name) VALUES ($1, $2)`, city.ID, city.Name)
	return err
}

func (r *PGCityRepository) GetByID(ctx context.Context, id string) (*domain.City, error) {
	var c domain.City
	err := r.db.QueryRow(ctx, `SELECT id, city_name FROM cities WHERE id=$1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCityRepository) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, city_name FROM cities ORDER BY city_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]domain.City, 0)
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

var _ CityRepository = (*PGCityRepository)(nil)
