package processor

import (
	"context"
	"fmt"

	"github.com/bloomaccess/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type purgeExpiredProcessor struct {
	workers *worker.Workers
}

func NewPurgeExpiredProcessor(workers *worker.Workers) *purgeExpiredProcessor {
	return &purgeExpiredProcessor{
		workers: workers,
	}
}

func (p *purgeExpiredProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if err := p.workers.Reaper.Run(ctx); err != nil {
		return fmt.Errorf("purge expired verifications failed: %w", err)
	}

	return nil
}
