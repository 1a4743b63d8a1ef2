package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Job interface {
	Run(ctx context.Context) (int, error)
}

// Schedule registers job on c under spec. Each run gets its own timeout.
func Schedule(c *cron.Cron, spec, name string, job Job, timeout time.Duration, logger *slog.Logger) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := job.Run(ctx)
		if err != nil {
			logger.Error("job failed", "job", name, "error", err)
			return
		}
		logger.Debug("job finished", "job", name, "processed", n)
	})
	return err
}
