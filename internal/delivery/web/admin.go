package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
	"github.com/plainpine/myquest/internal/service"
	"github.com/plainpine/myquest/internal/session"
)

const exportFilename = "questions_exported.json"

type questionListView struct {
	Page       *service.QuestionPage
	Categories []string
}

type questionFormView struct {
	Action   string
	Question *entities.Question
}

type userFormView struct {
	Email    string
	Nickname string
}

type resetPasswordView struct {
	Target *entities.User
}

func (h *Handler) adminQuestions(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	pageNum, _ := strconv.Atoi(q.Get("page"))

	qp, err := h.questionService.List(r.Context(), pageNum, q.Get("category"))
	if err != nil {
		return err
	}

	categories, err := h.questionService.Categories(r.Context())
	if err != nil {
		return err
	}

	h.render(w, r, "admin_questions", page{
		Title: titleQuestions,
		Data:  questionListView{Page: qp, Categories: categories},
	})
	return nil
}

func (h *Handler) adminNewQuestion(w http.ResponseWriter, r *http.Request) error {
	view := questionFormView{Action: "/admin/questions/new", Question: &entities.Question{Correct: 1}}

	if r.Method == http.MethodGet {
		h.render(w, r, "admin_question_form", page{Title: titleNewQuestion, Data: view})
		return nil
	}

	q, err := parseQuestionForm(r)
	if err == nil {
		view.Question = q
		err = h.questionService.Create(r.Context(), q)
	}
	if err != nil {
		return h.questionFormError(w, r, titleNewQuestion, view, err)
	}

	h.logger.Info("question created", zap.Int64("question_id", q.ID))
	session.FromContext(r.Context()).SetFlash(msgQuestionCreated)
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
	return nil
}

func (h *Handler) adminEditQuestion(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	existing, err := h.questionService.Get(r.Context(), id)
	if err != nil {
		return err
	}
	view := questionFormView{Action: r.URL.Path, Question: existing}

	if r.Method == http.MethodGet {
		h.render(w, r, "admin_question_form", page{Title: titleEditQuestion, Data: view})
		return nil
	}

	q, err := parseQuestionForm(r)
	if err == nil {
		q.ID = id
		view.Question = q
		err = h.questionService.Update(r.Context(), q)
	}
	if err != nil {
		return h.questionFormError(w, r, titleEditQuestion, view, err)
	}

	session.FromContext(r.Context()).SetFlash(msgQuestionUpdated)
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
	return nil
}

func (h *Handler) questionFormError(w http.ResponseWriter, r *http.Request, title string, view questionFormView, err error) error {
	if !errors.Is(err, service.ErrInvalidQuestion) {
		return err
	}
	h.render(w, r, "admin_question_form", page{Title: title, Error: err.Error(), Data: view})
	return nil
}

func (h *Handler) adminDeleteQuestion(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.questionService.Delete(r.Context(), id); err != nil {
		return err
	}

	h.logger.Info("question deleted", zap.Int64("question_id", id))
	session.FromContext(r.Context()).SetFlash(msgQuestionDeleted)
	http.Redirect(w, r, "/admin/questions", http.StatusSeeOther)
	return nil
}

func (h *Handler) adminExportQuestions(w http.ResponseWriter, r *http.Request) error {
	var buf bytes.Buffer
	if _, err := h.interchangeService.Export(r.Context(), &buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	_, _ = buf.WriteTo(w)
	return nil
}

func (h *Handler) adminUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		return err
	}

	h.render(w, r, "admin_users", page{Title: titleUsers, Data: users})
	return nil
}

func (h *Handler) adminNewUser(w http.ResponseWriter, r *http.Request) error {
	if r.Method == http.MethodGet {
		h.render(w, r, "admin_user_form", page{Title: titleNewUser, Data: userFormView{}})
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	f := r.PostForm
	view := userFormView{Email: f.Get("email"), Nickname: f.Get("nickname")}

	user, err := h.userService.CreateUserConfirmed(r.Context(), view.Email, f.Get("password"), f.Get("confirm"), view.Nickname)
	if err != nil {
		msg := ""
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			msg = msgDuplicateEmail
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrNicknameTooLong),
			isPasswordError(err):
			msg = err.Error()
		default:
			return err
		}
		h.render(w, r, "admin_user_form", page{Title: titleNewUser, Error: msg, Data: view})
		return nil
	}

	h.logger.Info("user created", zap.Int64("user_id", user.ID))
	session.FromContext(r.Context()).SetFlash(msgUserCreated)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
	return nil
}

func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	s := session.FromContext(r.Context())
	switch err := h.userService.DeleteUser(r.Context(), id); {
	case errors.Is(err, service.ErrProtectedAccount):
		s.SetFlash(msgProtectedAccount)
	case err != nil:
		return err
	default:
		h.logger.Info("user deleted", zap.Int64("user_id", id))
		s.SetFlash(msgUserDeleted)
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
	return nil
}

func (h *Handler) adminResetPassword(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	target, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	p := page{Title: titleResetPassword, Data: resetPasswordView{Target: target}}

	if r.Method == http.MethodGet {
		h.render(w, r, "admin_reset_password", p)
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	err = h.userService.ResetPassword(r.Context(), id, r.PostForm.Get("password"), r.PostForm.Get("confirm"))
	if err != nil {
		if isPasswordError(err) {
			p.Error = err.Error()
			h.render(w, r, "admin_reset_password", p)
			return nil
		}
		return err
	}

	h.logger.Info("password reset", zap.Int64("user_id", id))
	session.FromContext(r.Context()).SetFlash(msgPasswordReset)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
	return nil
}

func parseQuestionForm(r *http.Request) (*entities.Question, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	f := r.PostForm

	q := &entities.Question{
		Prompt:       f.Get("question"),
		Category:     f.Get("category"),
		Explanation:  f.Get("explanation"),
		ReferenceURL: f.Get("document_url"),
	}
	for i := range q.Choices {
		q.Choices[i] = f.Get("choice" + strconv.Itoa(i+1))
	}
	q.Correct, _ = strconv.Atoi(f.Get("correct"))

	return q, nil
}

// pathID parses the {id} route variable. Unknown ids surface as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, repository.ErrQuestionNotFound
	}
	return id, nil
}
