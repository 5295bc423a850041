package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup; every statement is guarded by
// IF NOT EXISTS so repeated boots are safe.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS accounts (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	account_type TEXT NOT NULL CHECK (account_type IN ('buyer','seller','bank','employee')),
	lend         NUMERIC(18,2) NOT NULL DEFAULT 0,
	borrow       NUMERIC(18,2) NOT NULL DEFAULT 0,
	phone_number TEXT,
	address      TEXT,
	email        TEXT,
	details      TEXT,
	date         TIMESTAMPTZ NOT NULL,
	afg_date     TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, account_type)
);

CREATE TABLE IF NOT EXISTS transactions (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL CHECK (kind IN ('receive','pay','proceed','cost')),
	account_id  UUID REFERENCES accounts(id),
	amount      NUMERIC(18,2) NOT NULL CHECK (amount > 0),
	amount_type TEXT CHECK (amount_type IN ('lend','borrow')),
	title       TEXT NOT NULL DEFAULT '',
	details     TEXT,
	date        TIMESTAMPTZ NOT NULL,
	afg_date    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK ((kind = 'cost') = (account_id IS NULL)),
	CHECK ((kind = 'cost') = (amount_type IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_kind_month ON transactions (kind, afg_date);
`

// EnsureSchema creates the tables the service depends on.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: ensure schema: %w", err)
	}
	return nil
}
