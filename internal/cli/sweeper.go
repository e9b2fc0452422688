package cli

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/storage"
)

// sessionSweepSchedule drops expired in-memory sessions every ten minutes.
const sessionSweepSchedule = "*/10 * * * *"

// runSessionSweeper periodically removes expired sessions until ctx is done.
func runSessionSweeper(ctx context.Context, store *storage.MemoryStorage, logger *zap.Logger) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(sessionSweepSchedule, func() {
		if n := store.Sweep(); n > 0 {
			logger.Debug("expired sessions swept", zap.Int("count", n))
		}
	})
	if err != nil {
		logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	logger.Info("session sweeper started")

	<-ctx.Done()

	<-c.Stop().Done()
	logger.Info("session sweeper stopped")
}
