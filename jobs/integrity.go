package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/daftar-ledger/daftar/internal/platform/db"
)

// Anomaly is a bookkeeping inconsistency found by the integrity scan.
type Anomaly struct {
	AccountID string  `json:"accountId"`
	Name      string  `json:"name"`
	Lend      float64 `json:"lend"`
	Borrow    float64 `json:"borrow"`
	Reason    string  `json:"reason"`
}

// BalanceSource supplies anomalies for the integrity job.
type BalanceSource interface {
	Scan(ctx context.Context, limit int) ([]Anomaly, error)
}

type pgBalanceSource struct {
	store *db.Connector
}

// NewBalanceSource builds a BalanceSource over the ledger storage.
func NewBalanceSource(store *db.Connector) BalanceSource {
	return &pgBalanceSource{store: store}
}

// Scan flags accounts whose balance went negative. Balances only move via
// atomic increments, so a negative side means a recording was reversed or
// edited out of order and needs a human look.
func (s *pgBalanceSource) Scan(ctx context.Context, limit int) ([]Anomaly, error) {
	pool, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, lend, borrow
		FROM accounts
		WHERE lend < 0 OR borrow < 0
		ORDER BY updated_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("jobs: integrity scan: %w", err)
	}
	defer rows.Close()

	var out []Anomaly
	for rows.Next() {
		var a Anomaly
		if err := rows.Scan(&a.AccountID, &a.Name, &a.Lend, &a.Borrow); err != nil {
			return nil, fmt.Errorf("jobs: scan anomaly: %w", err)
		}
		a.Reason = "negative balance"
		out = append(out, a)
	}
	return out, rows.Err()
}

// IntegrityJob runs the nightly books check.
type IntegrityJob struct {
	Source BalanceSource
	Logger *slog.Logger
}

// NewIntegrityJob wires dependencies for the integrity handler.
func NewIntegrityJob(source BalanceSource, logger *slog.Logger) *IntegrityJob {
	return &IntegrityJob{Source: source, Logger: logger}
}

// Handle processes TaskLedgerIntegrity tasks.
func (j *IntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Source == nil {
		return errors.New("integrity: handler not configured")
	}
	var payload IntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	logger := j.logger()
	anomalies, err := j.Source.Scan(ctx, payload.Limit)
	if err != nil {
		logger.Error("integrity scan", slog.Any("error", err))
		return err
	}
	if len(anomalies) == 0 {
		logger.Info("books consistent")
		return nil
	}
	for _, a := range anomalies {
		logger.Warn("balance anomaly",
			slog.String("account_id", a.AccountID),
			slog.String("name", a.Name),
			slog.Float64("lend", a.Lend),
			slog.Float64("borrow", a.Borrow),
			slog.String("reason", a.Reason),
		)
	}
	logger.Warn("integrity scan finished", slog.Int("anomalies", len(anomalies)))
	return nil
}

func (j *IntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}
