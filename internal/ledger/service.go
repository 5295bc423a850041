package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daftar-ledger/daftar/internal/jcal"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Service handles account business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create registers a new account. AccountType is fixed here and never
// changes afterwards. An optional opening amount lands on the side named by
// AmountType; the other side starts at zero.
func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name required: %w", shared.ErrValidation)
	}
	accountType := AccountType(req.AccountType)
	if !accountType.Valid() {
		return nil, fmt.Errorf("account type %q: %w", req.AccountType, shared.ErrValidation)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("opening amount negative: %w", shared.ErrValidation)
	}

	amountType := AmountType(req.AmountType)
	if amountType == "" {
		amountType = AmountLend
	}
	if !amountType.Valid() {
		return nil, fmt.Errorf("amount type %q: %w", req.AmountType, shared.ErrValidation)
	}

	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}

	account := Account{
		ID:          uuid.New(),
		Name:        req.Name,
		AccountType: accountType,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Email:       req.Email,
		Details:     req.Details,
		Date:        date,
		AfgDate:     jcal.YearMonth(date),
	}
	if req.Amount > 0 {
		if amountType == AmountLend {
			account.Lend = req.Amount
		} else {
			account.Borrow = req.Amount
		}
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, account.ID)
}

// Update applies a partial update to the mutable fields. AfgDate is
// recomputed whenever the date changes; it cannot be set on its own.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*Account, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name empty: %w", shared.ErrValidation)
		}
		updates["name"] = *req.Name
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.Date != nil {
		updates["date"] = *req.Date
		updates["afg_date"] = jcal.YearMonth(*req.Date)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an account. Accounts still referenced by transactions are
// rejected with shared.ErrAccountInUse.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.Get(ctx, id)
}

// List returns accounts matching the filter.
func (s *Service) List(ctx context.Context, req ListAccountsRequest) ([]Account, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 200 {
		req.Limit = 200
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.AccountType != "" && !AccountType(req.AccountType).Valid() {
		return nil, 0, fmt.Errorf("account type %q: %w", req.AccountType, shared.ErrValidation)
	}
	return s.repo.List(ctx, req)
}
