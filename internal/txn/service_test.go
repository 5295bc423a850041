package txn

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daftar-ledger/daftar/internal/ledger"
	"github.com/daftar-ledger/daftar/internal/shared"
)

type balance struct {
	lend   float64
	borrow float64
}

// memoryTxnRepo mirrors the storage contract: recording, updating and
// deleting adjust the referenced account's balance in the same step.
type memoryTxnRepo struct {
	records  map[uuid.UUID]*Transaction
	balances map[uuid.UUID]*balance
}

func newMemoryTxnRepo() *memoryTxnRepo {
	return &memoryTxnRepo{
		records:  make(map[uuid.UUID]*Transaction),
		balances: make(map[uuid.UUID]*balance),
	}
}

func (r *memoryTxnRepo) adjust(accountID uuid.UUID, amountType ledger.AmountType, delta float64) error {
	b, ok := r.balances[accountID]
	if !ok {
		return shared.ErrNotFound
	}
	if amountType == ledger.AmountLend {
		b.lend += delta
	} else {
		b.borrow += delta
	}
	return nil
}

func (r *memoryTxnRepo) Record(ctx context.Context, t Transaction) error {
	if t.Kind.AccountBound() {
		if err := r.adjust(*t.AccountID, t.AmountType, t.Amount); err != nil {
			return err
		}
	}
	copied := t
	r.records[t.ID] = &copied
	return nil
}

func (r *memoryTxnRepo) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	t, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memoryTxnRepo) List(ctx context.Context, req ListRequest) ([]Transaction, int, error) {
	var out []Transaction
	for _, t := range r.records {
		if req.Kind != "" && string(t.Kind) != req.Kind {
			continue
		}
		if req.AccountID != nil && (t.AccountID == nil || *t.AccountID != *req.AccountID) {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (r *memoryTxnRepo) Update(ctx context.Context, t Transaction) error {
	old, ok := r.records[t.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if old.Kind.AccountBound() {
		if err := r.adjust(*old.AccountID, old.AmountType, -old.Amount); err != nil {
			return err
		}
		if err := r.adjust(*old.AccountID, t.AmountType, t.Amount); err != nil {
			return err
		}
	}
	copied := t
	copied.Kind = old.Kind
	copied.AccountID = old.AccountID
	r.records[t.ID] = &copied
	return nil
}

func (r *memoryTxnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	old, ok := r.records[id]
	if !ok {
		return shared.ErrNotFound
	}
	if old.Kind.AccountBound() {
		if err := r.adjust(*old.AccountID, old.AmountType, -old.Amount); err != nil {
			return err
		}
	}
	delete(r.records, id)
	return nil
}

func (r *memoryTxnRepo) MonthlyCosts(ctx context.Context) ([]MonthlyCost, error) {
	byMonth := make(map[string]*MonthlyCost)
	for _, t := range r.records {
		if t.Kind != KindCost {
			continue
		}
		m, ok := byMonth[t.AfgDate]
		if !ok {
			m = &MonthlyCost{Month: t.AfgDate}
			byMonth[t.AfgDate] = m
		}
		m.Total += t.Amount
		m.Count++
	}
	var out []MonthlyCost
	for _, m := range byMonth {
		out = append(out, *m)
	}
	return out, nil
}

func newTestService(repo *memoryTxnRepo) *Service {
	return NewService(repo, nil, slog.Default())
}

func TestRecordReceiveAdjustsLend(t *testing.T) {
	repo := newMemoryTxnRepo()
	accountID := uuid.New()
	repo.balances[accountID] = &balance{}
	svc := newTestService(repo)

	rec, err := svc.Record(context.Background(), RecordRequest{
		Kind:       "receive",
		AccountID:  &accountID,
		Amount:     500,
		AmountType: "lend",
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, rec.Amount)
	require.Equal(t, 500.0, repo.balances[accountID].lend)
	require.Zero(t, repo.balances[accountID].borrow)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := newTestService(repo)

	for _, amount := range []float64{-10, 0} {
		_, err := svc.Record(context.Background(), RecordRequest{
			Kind:   "cost",
			Amount: amount,
			Title:  "برق",
		})
		require.ErrorIs(t, err, shared.ErrValidation)
	}
	require.Empty(t, repo.records)
}

func TestRecordAccountRules(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Account-bound kinds require a reference.
	_, err := svc.Record(ctx, RecordRequest{Kind: "pay", Amount: 100})
	require.ErrorIs(t, err, shared.ErrValidation)

	// Costs must not carry one.
	accountID := uuid.New()
	repo.balances[accountID] = &balance{}
	_, err = svc.Record(ctx, RecordRequest{Kind: "cost", AccountID: &accountID, Amount: 100})
	require.ErrorIs(t, err, shared.ErrValidation)

	// Unknown account surfaces NotFound and records nothing.
	missing := uuid.New()
	_, err = svc.Record(ctx, RecordRequest{Kind: "receive", AccountID: &missing, Amount: 100})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.records)
}

func TestRecordDefaultsAmountTypeToLend(t *testing.T) {
	repo := newMemoryTxnRepo()
	accountID := uuid.New()
	repo.balances[accountID] = &balance{}
	svc := newTestService(repo)

	rec, err := svc.Record(context.Background(), RecordRequest{
		Kind:      "proceed",
		AccountID: &accountID,
		Amount:    250,
	})
	require.NoError(t, err)
	require.Equal(t, ledger.AmountLend, rec.AmountType)
	require.Equal(t, 250.0, repo.balances[accountID].lend)
}

func TestUpdateReconcilesBalance(t *testing.T) {
	repo := newMemoryTxnRepo()
	accountID := uuid.New()
	repo.balances[accountID] = &balance{}
	svc := newTestService(repo)
	ctx := context.Background()

	rec, err := svc.Record(ctx, RecordRequest{
		Kind: "receive", AccountID: &accountID, Amount: 500, AmountType: "lend",
	})
	require.NoError(t, err)

	newAmount := 200.0
	newType := "borrow"
	_, err = svc.Update(ctx, rec.ID, UpdateRequest{Amount: &newAmount, AmountType: &newType})
	require.NoError(t, err)

	require.Zero(t, repo.balances[accountID].lend)
	require.Equal(t, 200.0, repo.balances[accountID].borrow)
}

func TestUpdateRecomputesAfgDate(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	rec, err := svc.Record(ctx, RecordRequest{Kind: "cost", Amount: 80, Title: "کرایه"})
	require.NoError(t, err)

	newDate := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, rec.ID, UpdateRequest{Date: &newDate})
	require.NoError(t, err)
	require.Equal(t, "1403/1", updated.AfgDate)
}

func TestDeleteReversesBalance(t *testing.T) {
	repo := newMemoryTxnRepo()
	accountID := uuid.New()
	repo.balances[accountID] = &balance{}
	svc := newTestService(repo)
	ctx := context.Background()

	rec, err := svc.Record(ctx, RecordRequest{
		Kind: "pay", AccountID: &accountID, Amount: 300, AmountType: "borrow",
	})
	require.NoError(t, err)
	require.Equal(t, 300.0, repo.balances[accountID].borrow)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	require.Zero(t, repo.balances[accountID].borrow)
	require.Empty(t, repo.records)
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	svc := newTestService(newMemoryTxnRepo())
	require.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), shared.ErrNotFound)
}

func TestMonthlyCostsGroupsByLocalizedMonth(t *testing.T) {
	repo := newMemoryTxnRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	d1 := time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC) // 1403/1
	d2 := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)  // 1403/1
	d3 := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)  // 1403/2

	for _, c := range []struct {
		amount float64
		date   time.Time
	}{{100, d1}, {50, d2}, {70, d3}} {
		date := c.date
		_, err := svc.Record(ctx, RecordRequest{Kind: "cost", Amount: c.amount, Date: &date})
		require.NoError(t, err)
	}

	report, err := svc.MonthlyCosts(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)

	totals := make(map[string]float64)
	for _, m := range report {
		totals[m.Month] = m.Total
	}
	require.Equal(t, 150.0, totals["1403/1"])
	require.Equal(t, 70.0, totals["1403/2"])
}
