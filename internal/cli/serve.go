package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/config"
	"github.com/plainpine/myquest/internal/delivery/web"
	"github.com/plainpine/myquest/internal/service"
	"github.com/plainpine/myquest/internal/session"
	"github.com/plainpine/myquest/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	db, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	sessions := session.NewManager(sessionStore, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.SecureCookie,
	}, log)

	userService := service.NewUserService(db.users, service.NewBcryptHasher(0), cfg.Admin.Email)
	quizService := service.NewQuizService(db.questions, db.results, service.NewExamBuilder())
	questionService := service.NewQuestionService(db.questions, cfg.Quiz.PageSize)
	interchangeService := service.NewInterchangeService(db.questions)

	handler, err := web.NewHandler(
		log,
		sessions,
		quizService,
		userService,
		questionService,
		interchangeService,
		db,
		web.Options{DefaultQuestions: cfg.Quiz.DefaultQuestions},
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", cfg.HTTP.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionRedis:
		client, err := storage.NewRedisClient(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis session storage", zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedisStorage(client), func() { _ = client.Close() }, nil

	case config.SessionMemory:
		store := storage.NewMemoryStorage()
		go runSessionSweeper(ctx, store, log)
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnsupportedSessionBackend, cfg.Session.Backend)
	}
}
