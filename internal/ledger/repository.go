package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/daftar-ledger/daftar/internal/platform/db"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Repository defines account persistence.
type Repository interface {
	Create(ctx context.Context, account Account) error
	Get(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, req ListAccountsRequest) ([]Account, int, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	store *db.Connector
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(store *db.Connector) Repository {
	return &repository{store: store}
}

const accountColumns = `id, name, account_type, lend, borrow, phone_number,
	address, email, details, date, afg_date, created_at, updated_at`

func (r *repository) Create(ctx context.Context, a Account) error {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (
			id, name, account_type, lend, borrow, phone_number, address,
			email, details, date, afg_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err = pool.Exec(ctx, query,
		a.ID, a.Name, a.AccountType, a.Lend, a.Borrow,
		a.PhoneNumber, a.Address, a.Email, a.Details, a.Date, a.AfgDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("account %q: %w", a.Name, shared.ErrDuplicate)
		}
		return fmt.Errorf("ledger: create account: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	row := pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("ledger: get account: %w", err)
	}
	return a, nil
}

func (r *repository) List(ctx context.Context, req ListAccountsRequest) ([]Account, int, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := "WHERE 1=1"
	var args []any
	argPos := 1

	if req.AccountType != "" {
		where += fmt.Sprintf(" AND account_type = $%d", argPos)
		args = append(args, req.AccountType)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone_number ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM accounts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger: count accounts: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM accounts %s ORDER BY date DESC, name LIMIT $%d OFFSET $%d",
		accountColumns, where, argPos, argPos+1,
	)
	args = append(args, req.Limit, req.Offset)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger: list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ledger: scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, total, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	// Whitelisted columns only; account_type, lend and borrow are not
	// reachable through this path.
	allowed := []string{"name", "phone_number", "address", "email", "details", "date", "afg_date"}

	query := "UPDATE accounts SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range allowed {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("account update: %w", shared.ErrDuplicate)
		}
		return fmt.Errorf("ledger: update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an account. Deletion is rejected while transactions still
// reference the account; the count check and the delete run in one
// transaction so a concurrent recording cannot slip in between.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var refs int
		if err := tx.QueryRow(ctx,
			"SELECT COUNT(*) FROM transactions WHERE account_id = $1", id,
		).Scan(&refs); err != nil {
			return fmt.Errorf("ledger: count references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("%d transactions reference account: %w", refs, shared.ErrAccountInUse)
		}

		tag, err := tx.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("ledger: delete account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	var phone, address, email, details pgtype.Text
	err := row.Scan(
		&a.ID, &a.Name, &a.AccountType, &a.Lend, &a.Borrow,
		&phone, &address, &email, &details,
		&a.Date, &a.AfgDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		a.PhoneNumber = &phone.String
	}
	if address.Valid {
		a.Address = &address.String
	}
	if email.Valid {
		a.Email = &email.String
	}
	if details.Valid {
		a.Details = &details.String
	}
	return &a, nil
}
