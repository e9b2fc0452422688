package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/service"
	"github.com/plainpine/myquest/internal/session"
)

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) error {
	if session.FromContext(r.Context()).Identity() != "" {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return nil
	}
	h.render(w, r, "login", page{Title: titleLogin})
	return nil
}

func (h *Handler) tryLogin(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "login", page{Title: titleLogin, Error: msgInvalidForm})
		return nil
	}

	email := r.PostForm.Get("email")
	user, err := h.userService.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(w, r, "login", page{Title: titleLogin, Error: msgLoginFailed, Data: email})
			return nil
		}
		return err
	}

	s := session.FromContext(r.Context())
	if err := h.sessions.Renew(r.Context(), w, s); err != nil {
		return err
	}
	s.SetIdentity(user.Email)

	h.logger.Info("user logged in", zap.Int64("user_id", user.ID))

	if !user.PasswordChanged {
		http.Redirect(w, r, "/change_password", http.StatusSeeOther)
		return nil
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	session.FromContext(r.Context()).Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	p := page{Title: titleChangePassword, Data: !user.PasswordChanged}

	if r.Method == http.MethodGet {
		h.render(w, r, "change_password", p)
		return nil
	}

	if err := r.ParseForm(); err != nil {
		p.Error = msgInvalidForm
		h.renderStatus(w, r, http.StatusBadRequest, "change_password", p)
		return nil
	}

	err := h.userService.ChangePassword(r.Context(), user.ID, r.PostForm.Get("password"), r.PostForm.Get("confirm"))
	if err != nil {
		if isPasswordError(err) {
			p.Error = err.Error()
			h.render(w, r, "change_password", p)
			return nil
		}
		return err
	}

	session.FromContext(r.Context()).SetFlash(msgPasswordChanged)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
	return nil
}

type profileView struct {
	Stats *service.ProfileStats
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	p := page{Title: titleProfile}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return err
		}
		err := h.userService.UpdateProfile(r.Context(), user.ID, r.PostForm.Get("nickname"))
		switch {
		case errors.Is(err, service.ErrNicknameTooLong):
			p.Error = err.Error()
		case err != nil:
			return err
		default:
			session.FromContext(r.Context()).SetFlash(msgProfileSaved)
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return nil
		}
	}

	stats, err := h.quizService.Profile(r.Context(), user.ID)
	if err != nil {
		return err
	}

	p.Data = profileView{Stats: stats}
	h.render(w, r, "profile", p)
	return nil
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) error {
	chapters, err := h.questionService.Chapters(r.Context())
	if err != nil {
		return err
	}

	h.render(w, r, "home", page{Title: titleHome, Data: chapters})
	return nil
}

func (h *Handler) material(w http.ResponseWriter, r *http.Request) error {
	chapters, err := h.questionService.Chapters(r.Context())
	if err != nil {
		return err
	}

	h.render(w, r, "material", page{Title: titleMaterial, Data: chapters})
	return nil
}

func (h *Handler) result(w http.ResponseWriter, r *http.Request) error {
	ok := false
	switch r.URL.Query().Get("ok") {
	case "True", "true", "1":
		ok = true
	}

	h.render(w, r, "result", page{Title: titleResult, Data: ok})
	return nil
}

func isPasswordError(err error) bool {
	return errors.Is(err, service.ErrPasswordMismatch) ||
		errors.Is(err, service.ErrPasswordTooShort) ||
		errors.Is(err, service.ErrPasswordTooLong)
}
