package repository

import (
	"context"
	"errors"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
}

type PGAdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) AdminRepository {
	return &PGAdminRepository{db: db}
}

func (r *PGAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	admin.ID = uuid.NewString()
	return r.db.QueryRow(ctx, `INSERT INTO admins (id, username, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		admin.ID, admin.Username, admin.PasswordHash).Scan(&admin.CreatedAt)
}

func (r *PGAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRow(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE username=$1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ AdminRepository = (*PGAdminRepository)(nil)
