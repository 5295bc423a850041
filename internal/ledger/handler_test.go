package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/daftar-ledger/daftar/internal/gate"
	"github.com/daftar-ledger/daftar/internal/shared"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memoryAccountRepo) {
	t.Helper()
	repo := newMemoryAccountRepo()
	g := gate.New(slog.Default(), nil)
	h := NewHandler(slog.Default(), NewService(repo), g)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(g.RequireSession)
		h.MountRoutes(r)
	})
	return r, repo
}

func authed(r *http.Request) *http.Request {
	sess := &shared.Session{}
	sess.SetUser("1")
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestCreateAccountEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"name":"Ali","accountType":"buyer"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var env struct {
		Result Account `json:"result"`
		Err    any     `json:"err"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, false, env.Err)
	require.Equal(t, "Ali", env.Result.Name)
	require.Zero(t, env.Result.Lend)
	require.Zero(t, env.Result.Borrow)
}

func TestUnauthenticatedDeleteLeavesAccount(t *testing.T) {
	router, repo := newTestRouter(t)

	created := authed(httptest.NewRequest(http.MethodPost, "/api/accounts",
		strings.NewReader(`{"name":"Ali","accountType":"buyer"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, created)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.accounts, 1)

	var id string
	for k := range repo.accounts {
		id = k.String()
	}

	// No session on the delete call.
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, httptest.NewRequest(http.MethodDelete, "/api/accounts/"+id, nil))

	require.Equal(t, http.StatusUnauthorized, w2.Code)
	var env map[string]any
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &env))
	require.Nil(t, env["result"])
	require.Equal(t, shared.MsgUnauthenticated, env["err"])
	require.Len(t, repo.accounts, 1)
}

func TestCreateAccountRejectsBadPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/accounts",
		strings.NewReader(`{"accountType":"buyer"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, shared.MsgValidation, env["err"])
}
