package txn

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/daftar-ledger/daftar/internal/gate"
	"github.com/daftar-ledger/daftar/internal/platform/httpx"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Handler exposes transaction commands through the gate.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     *gate.Gate
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, g *gate.Gate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		gate:     g,
		validate: validator.New(),
	}
}

// MountRoutes attaches transaction and report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/transactions", h.gate.Action(h.list))
	r.Post("/transactions", h.gate.ActionStatus(http.StatusCreated, h.record))
	r.Get("/transactions/{id}", h.gate.Action(h.show))
	r.Patch("/transactions/{id}", h.gate.Action(h.update))
	r.Delete("/transactions/{id}", h.gate.Action(h.delete))
	r.Get("/reports/costs/monthly", h.gate.Action(h.monthlyCosts))
}

func (h *Handler) record(r *http.Request) (any, error) {
	var req RecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", shared.ErrValidation)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, shared.ErrValidation)
	}
	return h.service.Record(r.Context(), req)
}

func (h *Handler) update(r *http.Request) (any, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", shared.ErrValidation)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, shared.ErrValidation)
	}
	return h.service.Update(r.Context(), id, req)
}

func (h *Handler) delete(r *http.Request) (any, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return nil, nil
}

func (h *Handler) show(r *http.Request) (any, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	return h.service.Get(r.Context(), id)
}

func (h *Handler) list(r *http.Request) (any, error) {
	q := r.URL.Query()
	req := ListRequest{Kind: q.Get("kind")}
	if raw := q.Get("accountId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("account id: %w", shared.ErrValidation)
		}
		req.AccountID = &id
	}
	req.Limit = shared.QueryInt(q, "limit", 50)
	req.Offset = shared.QueryInt(q, "offset", 0)

	records, total, err := h.service.List(r.Context(), req)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Transaction{}
	}
	return map[string]any{"transactions": records, "total": total}, nil
}

func (h *Handler) monthlyCosts(r *http.Request) (any, error) {
	report, err := h.service.MonthlyCosts(r.Context())
	if err != nil {
		return nil, err
	}
	if report == nil {
		report = []MonthlyCost{}
	}
	return report, nil
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("transaction id: %w", shared.ErrValidation)
	}
	return id, nil
}
