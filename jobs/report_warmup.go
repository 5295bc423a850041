package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/daftar-ledger/daftar/internal/txn"
)

// ReportWarmupJob keeps the monthly cost report cache warm so the first
// morning request does not pay the aggregation cost.
type ReportWarmupJob struct {
	Transactions *txn.Service
	Logger       *slog.Logger
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(transactions *txn.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{Transactions: transactions, Logger: logger}
}

// Handle processes TaskCostReportWarmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Transactions == nil {
		return errors.New("report warmup: handler not configured")
	}
	logger := j.logger()
	report, err := j.Transactions.WarmMonthlyCosts(ctx)
	if err != nil {
		logger.Error("warm cost report", slog.Any("error", err))
		return err
	}
	logger.Info("cost report warmed", slog.Int("months", len(report)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCostReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCostReportWarmup))
}
