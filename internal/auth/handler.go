package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/daftar-ledger/daftar/internal/gate"
	"github.com/daftar-ledger/daftar/internal/platform/httpx"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	gate           *gate.Gate
	sessionManager *shared.SessionManager
	validate       *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, g *gate.Gate, sessions *shared.SessionManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		gate:           g,
		sessionManager: sessions,
		validate:       validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Login and logout
// are reachable anonymously; the profile endpoint sits behind the gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.gate.Action(h.login))
	r.Post("/logout", h.gate.Action(h.logout))
	r.With(h.gate.RequireSession).Get("/me", h.gate.Action(h.me))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) login(r *http.Request) (any, error) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", shared.ErrValidation)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, shared.ErrValidation)
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		return nil, fmt.Errorf("no session")
	}
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	return user, nil
}

func (h *Handler) logout(r *http.Request) (any, error) {
	sess := shared.SessionFromContext(r.Context())
	h.sessionManager.Destroy(sess)
	return nil, nil
}

func (h *Handler) me(r *http.Request) (any, error) {
	sess := shared.SessionFromContext(r.Context())
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	user, err := h.service.Lookup(r.Context(), id)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	return user, nil
}
