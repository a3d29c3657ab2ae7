package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/bloomaccess/backend/pkg/logger"

	"go.uber.org/zap"
)

type reaper struct {
	purger Purger
	now    func() time.Time
}

func newReaper(purger Purger, now func() time.Time) *reaper {
	return &reaper{
		purger: purger,
		now:    now,
	}
}

func (r *reaper) Run(ctx context.Context) error {
	start := r.now()

	purged, err := r.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("reaper run failed", zap.Error(err), zap.Int("purged", purged))
		return fmt.Errorf("purge expired: %w", err)
	}

	logger.Info("reaper run finished",
		zap.Int("purged", purged),
		zap.Duration("took", r.now().Sub(start)),
	)

	return nil
}
