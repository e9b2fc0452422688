package web

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/session"
)

// Options tunes request handling.
type Options struct {
	DefaultQuestions int // used when num_questions is missing or invalid
}

type Handler struct {
	logger             *zap.Logger
	sessions           *session.Manager
	quizService        QuizService
	userService        UserService
	questionService    QuestionService
	interchangeService InterchangeService
	health             HealthChecker

	templates        map[string]*template.Template
	defaultQuestions int
}

func NewHandler(
	logger *zap.Logger,
	sessions *session.Manager,
	quizService QuizService,
	userService UserService,
	questionService QuestionService,
	interchangeService InterchangeService,
	health HealthChecker,
	opts Options,
) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	if opts.DefaultQuestions <= 0 {
		opts.DefaultQuestions = 10
	}

	return &Handler{
		logger:             logger,
		sessions:           sessions,
		quizService:        quizService,
		userService:        userService,
		questionService:    questionService,
		interchangeService: interchangeService,
		health:             health,
		templates:          templates,
		defaultQuestions:   opts.DefaultQuestions,
	}, nil
}

// Routes builds the router with every page of the application.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = h.withErrorHandling(h.notFound)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)

	// Public pages.
	r.Handle("/", h.withErrorHandling(h.loginPage)).Methods(http.MethodGet)
	r.Handle("/try_login", h.withErrorHandling(h.tryLogin)).Methods(http.MethodPost)
	r.Handle("/logout", h.withErrorHandling(h.logout)).Methods(http.MethodGet)

	// Pages for logged-in users.
	auth := r.NewRoute().Subrouter()
	auth.Use(h.requireAuth)
	auth.Handle("/change_password", h.withErrorHandling(h.changePassword)).Methods(http.MethodGet, http.MethodPost)
	auth.Handle("/profile", h.withErrorHandling(h.profile)).Methods(http.MethodGet, http.MethodPost)
	auth.Handle("/home", h.withErrorHandling(h.home)).Methods(http.MethodGet)
	auth.Handle("/material", h.withErrorHandling(h.material)).Methods(http.MethodGet)
	auth.Handle("/section_test/{category}", h.withErrorHandling(h.sectionTest)).Methods(http.MethodGet, http.MethodPost)
	auth.Handle("/practice", h.withErrorHandling(h.practice)).Methods(http.MethodGet, http.MethodPost)
	auth.Handle("/retest", h.withErrorHandling(h.retest)).Methods(http.MethodGet, http.MethodPost)
	auth.Handle("/result", h.withErrorHandling(h.result)).Methods(http.MethodGet)

	// Administration.
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(h.requireAuth, h.requireAdmin)
	admin.Handle("", http.RedirectHandler("/admin/questions", http.StatusSeeOther)).Methods(http.MethodGet)
	admin.Handle("/", http.RedirectHandler("/admin/questions", http.StatusSeeOther)).Methods(http.MethodGet)
	admin.Handle("/questions", h.withErrorHandling(h.adminQuestions)).Methods(http.MethodGet)
	admin.Handle("/questions/new", h.withErrorHandling(h.adminNewQuestion)).Methods(http.MethodGet, http.MethodPost)
	admin.Handle("/questions/export", h.withErrorHandling(h.adminExportQuestions)).Methods(http.MethodGet)
	admin.Handle("/questions/{id:[0-9]+}/edit", h.withErrorHandling(h.adminEditQuestion)).Methods(http.MethodGet, http.MethodPost)
	admin.Handle("/questions/{id:[0-9]+}/delete", h.withErrorHandling(h.adminDeleteQuestion)).Methods(http.MethodPost)
	admin.Handle("/users", h.withErrorHandling(h.adminUsers)).Methods(http.MethodGet)
	admin.Handle("/users/new", h.withErrorHandling(h.adminNewUser)).Methods(http.MethodGet, http.MethodPost)
	admin.Handle("/users/{id:[0-9]+}/delete", h.withErrorHandling(h.adminDeleteUser)).Methods(http.MethodPost)
	admin.Handle("/users/{id:[0-9]+}/reset_password", h.withErrorHandling(h.adminResetPassword)).Methods(http.MethodGet, http.MethodPost)

	return h.recoverer(h.requestLogger(h.sessions.Middleware(r)))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
