package gate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daftar-ledger/daftar/internal/shared"
)

func testGate() *Gate {
	return New(slog.Default(), nil)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func withUser(r *http.Request, id string) *http.Request {
	sess := &shared.Session{}
	sess.SetUser(id)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestRequireSessionBlocksAnonymous(t *testing.T) {
	g := testGate()
	executed := false
	h := g.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executed = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/accounts/1", nil))

	require.False(t, executed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	require.Nil(t, env["result"])
	require.Equal(t, shared.MsgUnauthenticated, env["err"])
}

func TestRequireSessionPassesAuthenticated(t *testing.T) {
	g := testGate()
	executed := false
	h := g.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executed = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, withUser(httptest.NewRequest(http.MethodGet, "/api/accounts", nil), "1"))
	require.True(t, executed)
}

func TestActionSuccessEnvelope(t *testing.T) {
	g := testGate()
	h := g.Action(func(r *http.Request) (any, error) {
		return map[string]string{"name": "Ali"}, nil
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/accounts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.Equal(t, false, env["err"])
	require.Equal(t, "Ali", env["result"].(map[string]any)["name"])
}

func TestActionMapsTaxonomy(t *testing.T) {
	g := testGate()
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{shared.ErrNotFound, http.StatusNotFound, shared.MsgNotFound},
		{fmt.Errorf("amount: %w", shared.ErrValidation), http.StatusBadRequest, shared.MsgValidation},
		{shared.ErrStorageTimeout, http.StatusServiceUnavailable, shared.MsgStorageTimeout},
		{fmt.Errorf("driver exploded"), http.StatusInternalServerError, shared.MsgInternal},
	}
	for _, tc := range cases {
		h := g.Action(func(r *http.Request) (any, error) { return nil, tc.err })
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))

		require.Equal(t, tc.status, w.Code)
		env := decodeEnvelope(t, w)
		require.Nil(t, env["result"])
		require.Equal(t, tc.msg, env["err"])
	}
}

func TestActionRecoversPanic(t *testing.T) {
	g := testGate()
	h := g.Action(func(r *http.Request) (any, error) { panic("boom") })

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/accounts", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	require.Equal(t, shared.MsgInternal, env["err"])
}

func TestActionEmptyResultStillSucceeds(t *testing.T) {
	g := testGate()
	h := g.Action(func(r *http.Request) (any, error) { return []string{}, nil })

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	env := decodeEnvelope(t, w)
	require.Equal(t, false, env["err"])
	require.NotNil(t, env["result"])
}
