package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/daftar-ledger/daftar/internal/auth"
	"github.com/daftar-ledger/daftar/internal/gate"
	"github.com/daftar-ledger/daftar/internal/ledger"
	"github.com/daftar-ledger/daftar/internal/observability"
	"github.com/daftar-ledger/daftar/internal/shared"
	"github.com/daftar-ledger/daftar/internal/txn"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Gate           *gate.Gate

	AuthHandler   *auth.Handler
	LedgerHandler *ledger.Handler
	TxnHandler    *txn.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router. Every /api route passes through the
// gate; /auth login and logout stay anonymous.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(api chi.Router) {
		api.Use(params.Gate.RequireSession)
		params.LedgerHandler.MountRoutes(api)
		params.TxnHandler.MountRoutes(api)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
