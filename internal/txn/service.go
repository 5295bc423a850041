package txn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/daftar-ledger/daftar/internal/jcal"
	"github.com/daftar-ledger/daftar/internal/ledger"
	"github.com/daftar-ledger/daftar/internal/platform/cache"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// MonthlyCostsCacheKey is the redis key for the cached cost report. The
// worker warms it; cost mutations invalidate it.
const MonthlyCostsCacheKey = "reports:costs:monthly"

// Service handles transaction recording rules.
type Service struct {
	repo    Repository
	reports *cache.JSON
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds a Service instance. reports may be nil; the monthly
// report then always reads from storage.
func NewService(repo Repository, reports *cache.JSON, logger *slog.Logger) *Service {
	return &Service{repo: repo, reports: reports, logger: logger, now: time.Now}
}

// Record creates a transaction. For account-bound kinds the account's tagged
// balance side is incremented in the same storage transaction as the insert.
func (s *Service) Record(ctx context.Context, req RecordRequest) (*Transaction, error) {
	kind := Kind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", req.Kind, shared.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount %v: %w", req.Amount, shared.ErrValidation)
	}

	amountType := ledger.AmountType(req.AmountType)
	if kind.AccountBound() {
		if req.AccountID == nil {
			return nil, fmt.Errorf("%s requires an account: %w", kind, shared.ErrValidation)
		}
		if amountType == "" {
			amountType = ledger.AmountLend
		}
		if !amountType.Valid() {
			return nil, fmt.Errorf("amount type %q: %w", req.AmountType, shared.ErrValidation)
		}
	} else {
		if req.AccountID != nil {
			return nil, fmt.Errorf("cost records are account-independent: %w", shared.ErrValidation)
		}
		amountType = ""
	}

	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}

	t := Transaction{
		ID:         uuid.New(),
		Kind:       kind,
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		AmountType: amountType,
		Title:      req.Title,
		Details:    req.Details,
		Date:       date,
		AfgDate:    jcal.YearMonth(date),
	}

	if err := s.repo.Record(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateReport(ctx, kind)
	return s.repo.Get(ctx, t.ID)
}

// Update applies a partial update. The balance delta between the old and
// new values is reconciled atomically by the repository. Kind and account
// reference stay fixed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Transaction, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("amount %v: %w", *req.Amount, shared.ErrValidation)
		}
		merged.Amount = *req.Amount
	}
	if req.AmountType != nil {
		if !existing.Kind.AccountBound() {
			return nil, fmt.Errorf("cost records carry no amount type: %w", shared.ErrValidation)
		}
		at := ledger.AmountType(*req.AmountType)
		if !at.Valid() {
			return nil, fmt.Errorf("amount type %q: %w", *req.AmountType, shared.ErrValidation)
		}
		merged.AmountType = at
	}
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.Details != nil {
		merged.Details = req.Details
	}
	if req.Date != nil {
		merged.Date = *req.Date
		merged.AfgDate = jcal.YearMonth(*req.Date)
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		return nil, err
	}
	s.invalidateReport(ctx, existing.Kind)
	return s.repo.Get(ctx, id)
}

// Delete removes a record, reversing its balance effect.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReport(ctx, existing.Kind)
	return nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

// List returns records matching the filter.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Transaction, int, error) {
	if req.Kind != "" && !Kind(req.Kind).Valid() {
		return nil, 0, fmt.Errorf("kind %q: %w", req.Kind, shared.ErrValidation)
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 200 {
		req.Limit = 200
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

// MonthlyCosts returns cost totals grouped by localized month, served from
// the report cache when warm.
func (s *Service) MonthlyCosts(ctx context.Context) ([]MonthlyCost, error) {
	var cached []MonthlyCost
	hit, err := s.reports.Get(ctx, MonthlyCostsCacheKey, &cached)
	if err != nil {
		s.logger.Warn("cost report cache read", slog.Any("error", err))
	}
	if hit {
		return cached, nil
	}
	return s.WarmMonthlyCosts(ctx)
}

// WarmMonthlyCosts recomputes the report and refreshes the cache. Also used
// by the background warmup job.
func (s *Service) WarmMonthlyCosts(ctx context.Context) ([]MonthlyCost, error) {
	report, err := s.repo.MonthlyCosts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Set(ctx, MonthlyCostsCacheKey, report); err != nil {
		s.logger.Warn("cost report cache write", slog.Any("error", err))
	}
	return report, nil
}

func (s *Service) invalidateReport(ctx context.Context, kind Kind) {
	if kind != KindCost {
		return
	}
	if err := s.reports.Invalidate(ctx, MonthlyCostsCacheKey); err != nil {
		s.logger.Warn("cost report cache invalidate", slog.Any("error", err))
	}
}
