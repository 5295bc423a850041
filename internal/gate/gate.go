// Package gate wraps every command endpoint: it checks session presence,
// ensures the shared storage connection, and converts the closed error
// taxonomy (including panics) into the uniform response envelope.
package gate

import (
	"log/slog"
	"net/http"

	"github.com/daftar-ledger/daftar/internal/platform/db"
	"github.com/daftar-ledger/daftar/internal/platform/httpx"
	"github.com/daftar-ledger/daftar/internal/shared"
)

// ActionFunc is a command operation. The returned value becomes the envelope
// result; the returned error must belong to the shared taxonomy.
type ActionFunc func(r *http.Request) (any, error)

// Gate guards command operations.
type Gate struct {
	logger *slog.Logger
	store  *db.Connector
}

// New constructs a Gate.
func New(logger *slog.Logger, store *db.Connector) *Gate {
	return &Gate{logger: logger, store: store}
}

// RequireSession rejects callers without an authenticated session before the
// operation executes. The rejection is an envelope, not an exception.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess.User() == "" {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Action wraps fn, responding 200 on success.
func (g *Gate) Action(fn ActionFunc) http.HandlerFunc {
	return g.ActionStatus(http.StatusOK, fn)
}

// ActionStatus wraps fn, responding with the given status on success. Any
// error or panic is converted at this single point; nothing propagates to
// the caller unhandled.
func (g *Gate) ActionStatus(status int, fn ActionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				g.logger.Error("action panic", slog.Any("panic", rec), slog.String("path", r.URL.Path))
				httpx.Fail(w, http.StatusInternalServerError, shared.MsgInternal)
			}
		}()

		if g.store != nil {
			if _, err := g.store.Get(r.Context()); err != nil {
				g.logger.Error("storage connect", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
		}

		result, err := fn(r)
		if err != nil {
			g.logger.Warn("action failed", slog.String("path", r.URL.Path), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.OK(w, status, result)
	}
}
