package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/session"
	"github.com/plainpine/myquest/internal/storage"
)

func newManager(store session.Store) *session.Manager {
	return session.NewManager(store, session.Options{CookieName: "sid", TTL: time.Hour}, zap.NewNop())
}

func do(t *testing.T, h http.Handler, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestMiddlewarePersistsModifiedSession(t *testing.T) {
	store := storage.NewMemoryStorage()
	m := newManager(store)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		seen = s.Identity()
		if seen == "" {
			s.SetIdentity("user@example.com")
		}
	}))

	first := do(t, h, nil)
	cookie := sessionCookie(first)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Empty(t, seen)
	assert.Equal(t, 1, store.Len())

	second := do(t, h, cookie)
	assert.Equal(t, "user@example.com", seen)
	assert.Nil(t, sessionCookie(second), "existing sessions keep their cookie")
}

func TestMiddlewareSkipsUnmodifiedSession(t *testing.T) {
	store := storage.NewMemoryStorage()
	m := newManager(store)

	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	resp := do(t, h, nil)

	require.NotNil(t, sessionCookie(resp))
	assert.Equal(t, 0, store.Len())
}

func TestMiddlewareIgnoresForgedCookie(t *testing.T) {
	store := storage.NewMemoryStorage()
	m := newManager(store)

	var id string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = session.FromContext(r.Context()).ID()
	}))

	resp := do(t, h, &http.Cookie{Name: "sid", Value: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", id)
	require.NotNil(t, sessionCookie(resp))
}

func TestRenewMovesSession(t *testing.T) {
	store := storage.NewMemoryStorage()
	m := newManager(store)

	login := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		s.SetIdentity("user@example.com")
		require.NoError(t, m.Renew(r.Context(), w, s))
	}))

	var before *http.Cookie
	{
		touch := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session.FromContext(r.Context()).SetFlash("hello")
		}))
		before = sessionCookie(do(t, touch, nil))
		require.NotNil(t, before)
	}

	after := sessionCookie(do(t, login, before))
	require.NotNil(t, after)
	assert.NotEqual(t, before.Value, after.Value)

	_, ok, err := store.Get(context.Background(), before.Value)
	require.NoError(t, err)
	assert.False(t, ok, "old session id must be dropped")

	data, ok, err := store.Get(context.Background(), after.Value)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), "user@example.com")
}

func TestExamPinning(t *testing.T) {
	s := session.FromContext(context.Background())

	s.PinExam("exam:practice", []int64{3, 1, 2})
	assert.Equal(t, []int64{3, 1, 2}, s.PinnedExam("exam:practice"))

	s.PinExam("exam:practice", []int64{5})
	assert.Equal(t, []int64{5}, s.TakeExam("exam:practice"))
	assert.Nil(t, s.TakeExam("exam:practice"), "taking an exam consumes it")
}

func TestFlashIsOneShot(t *testing.T) {
	s := session.FromContext(context.Background())
	s.SetFlash("saved")
	assert.Equal(t, "saved", s.PopFlash())
	assert.Empty(t, s.PopFlash())
}
