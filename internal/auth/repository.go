package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/daftar-ledger/daftar/internal/platform/db"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

type repository struct {
	store *db.Connector
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(store *db.Connector) Repository {
	return &repository{store: store}
}

const userColumns = "id, email, name, password_hash, is_active, created_at"

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	row := pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	row := pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: scan user: %w", err)
	}
	return &u, nil
}
