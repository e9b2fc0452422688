package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey struct{}

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager loads the session for every request and saves it when it changed.
type Manager struct {
	store  Store
	opts   Options
	logger *zap.Logger
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "myquest_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{store: store, opts: opts, logger: logger}
}

// Middleware attaches the session to the request context.
// Sessions are saved after the wrapped handler returns, if modified.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.load(r)
		if s.isNew {
			m.setCookie(w, s.id)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, s)))

		if !s.dirty {
			return
		}
		if err := m.save(r.Context(), s); err != nil {
			m.logger.Error("failed to save session", zap.Error(err))
		}
	})
}

// Renew moves the session to a fresh identifier, e.g. after login.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Delete(ctx, s.id); err != nil {
		return err
	}
	s.id = uuid.NewString()
	s.dirty = true
	m.setCookie(w, s.id)
	return nil
}

// FromContext returns the request's session. It never returns nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return newSession(uuid.NewString())
}

// WithSession returns a context carrying s. Used by tests and background callers.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || uuid.Validate(c.Value) != nil {
		return newSession(uuid.NewString())
	}

	data, ok, err := m.store.Get(r.Context(), c.Value)
	if err != nil {
		m.logger.Warn("failed to load session", zap.Error(err))
		return newSession(uuid.NewString())
	}
	if !ok {
		return newSession(uuid.NewString())
	}

	s, err := decode(c.Value, data)
	if err != nil {
		m.logger.Warn("discarding unreadable session", zap.Error(err))
		return newSession(uuid.NewString())
	}
	return s
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, s.id, data, m.opts.TTL)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
