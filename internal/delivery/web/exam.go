package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/service"
	"github.com/plainpine/myquest/internal/session"
)

const answerFieldPrefix = "q_"

type examView struct {
	Action    string
	Questions []*entities.Question
}

type reportView struct {
	Report *entities.GradingReport
	Retry  string
}

func (h *Handler) practice(w http.ResponseWriter, r *http.Request) error {
	return h.exam(w, r, entities.PracticeExam(), titlePractice, msgNoQuestions)
}

func (h *Handler) retest(w http.ResponseWriter, r *http.Request) error {
	return h.exam(w, r, entities.RetestExam(), titleRetest, msgNoRetestQuestions)
}

func (h *Handler) sectionTest(w http.ResponseWriter, r *http.Request) error {
	category := mux.Vars(r)["category"]
	return h.exam(w, r, entities.SectionExam(category), fmt.Sprintf(titleSection, category), msgNoQuestions)
}

// exam builds a new attempt on GET and grades the pinned attempt on POST.
func (h *Handler) exam(w http.ResponseWriter, r *http.Request, kind entities.ExamKind, title, emptyMsg string) error {
	user := currentUser(r.Context())
	state := session.FromContext(r.Context())

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return err
		}

		report, err := h.quizService.SubmitExam(r.Context(), state, kind, user.ID, parseAnswers(r))
		if err != nil {
			return err
		}

		h.render(w, r, "exam_result", page{
			Title: title,
			Data:  reportView{Report: report, Retry: r.URL.Path},
		})
		return nil
	}

	exam, err := h.quizService.StartExam(r.Context(), state, kind, user.ID, h.questionCount(r))
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			h.message(w, r, title, emptyMsg)
			return nil
		}
		return err
	}

	h.render(w, r, "exam", page{
		Title: title,
		Data:  examView{Action: r.URL.Path, Questions: exam.Questions},
	})
	return nil
}

// questionCount reads num_questions, falling back to the default when it
// is missing or not a positive number.
func (h *Handler) questionCount(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("num_questions"))
	if err != nil || n < 1 {
		return h.defaultQuestions
	}
	return n
}

// parseAnswers collects q_<id>=<choice> form fields. Malformed fields are
// skipped, which grades the question as unanswered.
func parseAnswers(r *http.Request) map[int64]int {
	answers := make(map[int64]int)
	for key, values := range r.PostForm {
		raw, ok := strings.CutPrefix(key, answerFieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		choice, err := strconv.Atoi(values[0])
		if err != nil || !entities.ValidChoice(choice) {
			continue
		}

		answers[id] = choice
	}
	return answers
}
