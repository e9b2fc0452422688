package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/config"
	"github.com/plainpine/myquest/internal/infra/postgres"
	pgrepo "github.com/plainpine/myquest/internal/infra/postgres/repository"
	"github.com/plainpine/myquest/internal/infra/sqlite"
	"github.com/plainpine/myquest/internal/service"
)

// backend bundles the repositories of the configured database.
type backend struct {
	questions service.QuestionRepository
	users     service.UserRepository
	results   service.ResultRepository

	ping  func(ctx context.Context) error
	close func()
}

func (b *backend) Ping(ctx context.Context) error { return b.ping(ctx) }

func (b *backend) Close() { b.close() }

// openBackend connects to the configured database and makes sure the schema exists.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info("using postgres database", zap.Int("max_connections", cfg.DB.MaxConnections))
		return &backend{
			questions: pgrepo.NewQuestionRepository(pool),
			users:     pgrepo.NewUserRepository(pool),
			results:   pgrepo.NewResultRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.DB.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		logger.Info("using sqlite database", zap.String("path", cfg.DB.Path))
		return &backend{
			questions: store.Questions(),
			users:     store.Users(),
			results:   store.Results(),
			ping:      store.Ping,
			close:     func() { _ = store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedDriver, cfg.DB.Driver)
	}
}
