package task

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	PurgeExpiredTaskName  = "purgeExpiredVerificationsTask"
	PurgeExpiredQueueName = "reaperQueue"

	purgeExpiredTimeout = 5 * time.Minute
)

// NewPurgeExpiredTask removes expired verification challenges along with
// their unverified accounts. Runs are idempotent so a lost one is harmless
// and the task is not retried.
func NewPurgeExpiredTask() *asynq.Task {
	return asynq.NewTask(
		PurgeExpiredTaskName,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue(PurgeExpiredQueueName),
		asynq.Timeout(purgeExpiredTimeout),
		asynq.Unique(purgeExpiredTimeout),
	)
}
