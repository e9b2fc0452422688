package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/config"
)

const appName = "myquest"

// New returns a JSON logger in production and a console logger elsewhere.
// Every entry is tagged with the app name and environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	env := cfg.Env
	if env == "" {
		env = "local"
	}
	fields := zap.Fields(zap.String("app", appName), zap.String("env", env))

	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction(fields)
	} else {
		logger, err = zap.NewDevelopment(fields)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
