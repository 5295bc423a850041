package txn

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/daftar-ledger/daftar/internal/ledger"
	"github.com/daftar-ledger/daftar/internal/platform/db"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Repository defines transaction persistence. Record, Update and Delete are
// atomic with the balance adjustment on the referenced account.
type Repository interface {
	Record(ctx context.Context, t Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, req ListRequest) ([]Transaction, int, error)
	Update(ctx context.Context, t Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	MonthlyCosts(ctx context.Context) ([]MonthlyCost, error)
}

type repository struct {
	store *db.Connector
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(store *db.Connector) Repository {
	return &repository{store: store}
}

const txnColumns = `id, kind, account_id, amount, amount_type, title,
	details, date, afg_date, created_at, updated_at`

// adjustBalance applies an atomic increment to the tagged side of the
// account. The increment happens in the database, never read-modify-write
// in process memory, so concurrent recordings cannot lose updates.
func adjustBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amountType ledger.AmountType, delta float64) error {
	var column string
	switch amountType {
	case ledger.AmountLend:
		column = "lend"
	case ledger.AmountBorrow:
		column = "borrow"
	default:
		return fmt.Errorf("amount type %q: %w", amountType, shared.ErrValidation)
	}

	query := fmt.Sprintf(
		"UPDATE accounts SET %s = %s + $1, updated_at = NOW() WHERE id = $2",
		column, column,
	)
	tag, err := tx.Exec(ctx, query, delta, accountID)
	if err != nil {
		return fmt.Errorf("txn: adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Record(ctx context.Context, t Transaction) error {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO transactions (
				id, kind, account_id, amount, amount_type, title, details,
				date, afg_date, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

		var amountType *string
		if t.AmountType != "" {
			s := string(t.AmountType)
			amountType = &s
		}

		if _, err := tx.Exec(ctx, query,
			t.ID, t.Kind, t.AccountID, t.Amount, amountType,
			t.Title, t.Details, t.Date, t.AfgDate,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("account reference: %w", shared.ErrNotFound)
			}
			return fmt.Errorf("txn: insert: %w", err)
		}

		if t.Kind.AccountBound() {
			return adjustBalance(ctx, tx, *t.AccountID, t.AmountType, t.Amount)
		}
		return nil
	})
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	row := pool.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("txn: get: %w", err)
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Transaction, int, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := "WHERE 1=1"
	var args []any
	argPos := 1

	if req.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", argPos)
		args = append(args, req.Kind)
		argPos++
	}
	if req.AccountID != nil {
		where += fmt.Sprintf(" AND account_id = $%d", argPos)
		args = append(args, *req.AccountID)
		argPos++
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("txn: count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM transactions %s ORDER BY date DESC LIMIT $%d OFFSET $%d",
		txnColumns, where, argPos, argPos+1,
	)
	args = append(args, req.Limit, req.Offset)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("txn: list: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("txn: scan: %w", err)
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// Update rewrites the mutable fields and reconciles the account balance in
// one transaction: the old effect is reversed and the new one applied, both
// as atomic increments against the row locked by FOR UPDATE.
func (r *repository) Update(ctx context.Context, t Transaction) error {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var oldAmount float64
		var oldType pgtype.Text
		var accountID pgtype.UUID
		var kind Kind

		err := tx.QueryRow(ctx,
			"SELECT kind, account_id, amount, amount_type FROM transactions WHERE id = $1 FOR UPDATE",
			t.ID,
		).Scan(&kind, &accountID, &oldAmount, &oldType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return fmt.Errorf("txn: lock row: %w", err)
		}

		var amountType *string
		if t.AmountType != "" {
			s := string(t.AmountType)
			amountType = &s
		}

		if _, err := tx.Exec(ctx, `
			UPDATE transactions
			SET amount = $1, amount_type = $2, title = $3, details = $4,
			    date = $5, afg_date = $6, updated_at = NOW()
			WHERE id = $7`,
			t.Amount, amountType, t.Title, t.Details, t.Date, t.AfgDate, t.ID,
		); err != nil {
			return fmt.Errorf("txn: update: %w", err)
		}

		if kind.AccountBound() && accountID.Valid {
			id := uuid.UUID(accountID.Bytes)
			if err := adjustBalance(ctx, tx, id, ledger.AmountType(oldType.String), -oldAmount); err != nil {
				return err
			}
			return adjustBalance(ctx, tx, id, t.AmountType, t.Amount)
		}
		return nil
	})
}

// Delete removes a record and reverses its balance effect atomically.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		var amount float64
		var amountType pgtype.Text
		var accountID pgtype.UUID
		var kind Kind

		err := tx.QueryRow(ctx,
			"SELECT kind, account_id, amount, amount_type FROM transactions WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&kind, &accountID, &amount, &amountType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return fmt.Errorf("txn: lock row: %w", err)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id); err != nil {
			return fmt.Errorf("txn: delete: %w", err)
		}

		if kind.AccountBound() && accountID.Valid {
			return adjustBalance(ctx, tx, uuid.UUID(accountID.Bytes), ledger.AmountType(amountType.String), -amount)
		}
		return nil
	})
}

func (r *repository) MonthlyCosts(ctx context.Context) ([]MonthlyCost, error) {
	pool, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `
		SELECT afg_date, SUM(amount), COUNT(*)
		FROM transactions
		WHERE kind = 'cost'
		GROUP BY afg_date
		ORDER BY MIN(date) DESC`)
	if err != nil {
		return nil, fmt.Errorf("txn: monthly costs: %w", err)
	}
	defer rows.Close()

	var out []MonthlyCost
	for rows.Next() {
		var m MonthlyCost
		if err := rows.Scan(&m.Month, &m.Total, &m.Count); err != nil {
			return nil, fmt.Errorf("txn: scan monthly cost: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	var accountID pgtype.UUID
	var amountType, details pgtype.Text

	err := row.Scan(
		&t.ID, &t.Kind, &accountID, &t.Amount, &amountType,
		&t.Title, &details, &t.Date, &t.AfgDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if accountID.Valid {
		id := uuid.UUID(accountID.Bytes)
		t.AccountID = &id
	}
	if amountType.Valid {
		t.AmountType = ledger.AmountType(amountType.String)
	}
	if details.Valid {
		t.Details = &details.String
	}
	return &t, nil
}
