package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
	"github.com/plainpine/myquest/internal/service"
	"github.com/plainpine/myquest/internal/session"
)

type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type userKey struct{}

func (h *Handler) withErrorHandling(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrSessionExpired):
			http.Redirect(w, r, "/home", http.StatusSeeOther)
		case errors.Is(err, repository.ErrQuestionNotFound), errors.Is(err, repository.ErrUserNotFound):
			_ = h.notFound(w, r)
		default:
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			}
			if u := currentUser(r.Context()); u != nil {
				fields = append(fields, zap.Int64("user_id", u.ID))
			}
			h.logger.Error("handle error", fields...)
			h.renderError(w, r)
		}
	})
}

// requireAuth lets through sessions with a known identity. Users that still
// carry an initial password are held on the change-password page.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())

		email := s.Identity()
		if email == "" {
			s.SetFlash(msgLoginRequired)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		user, err := h.userService.GetByEmail(r.Context(), email)
		if err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				h.logger.Error("failed to load session user", zap.String("email", email), zap.Error(err))
				h.renderError(w, r)
				return
			}
			s.Clear()
			s.SetFlash(msgLoginRequired)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if !user.PasswordChanged && r.URL.Path != "/change_password" {
			s.SetFlash(msgMustChangePass)
			http.Redirect(w, r, "/change_password", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

// requireAdmin must run after requireAuth.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r.Context())
		if u == nil || !h.userService.IsAdmin(u.Email) {
			session.FromContext(r.Context()).SetFlash(msgAdminOnly)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(ctx context.Context) *entities.User {
	u, _ := ctx.Value(userKey{}).(*entities.User)
	return u
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				h.logger.Error("panic while handling request",
					zap.String("path", r.URL.Path),
					zap.Any("panic", v),
					zap.Stack("stack"),
				)
				http.Error(w, msgInternalError, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
