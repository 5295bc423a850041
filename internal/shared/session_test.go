package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "daftar_session", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	require.Empty(t, sess.User())

	sess.SetUser("42")
	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, r2)
	require.NoError(t, err)
	require.Equal(t, "42", loaded.User())
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetUser("7")

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, sess))
	cookie := w.Result().Cookies()[0]

	sm.Destroy(sess)
	w2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w2, sess))
	require.Equal(t, -1, w2.Result().Cookies()[0].MaxAge)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	loaded, err := sm.Load(ctx, r)
	require.NoError(t, err)
	require.Empty(t, loaded.User())
}

func TestUserSafeMessageCoversTaxonomy(t *testing.T) {
	require.Equal(t, MsgUnauthenticated, UserSafeMessage(ErrUnauthenticated))
	require.Equal(t, MsgNotFound, UserSafeMessage(ErrNotFound))
	require.Equal(t, MsgInternal, UserSafeMessage(context.DeadlineExceeded))
}
