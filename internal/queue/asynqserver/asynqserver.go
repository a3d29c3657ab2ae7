package asynqserver

import (
	"fmt"
	"time"

	"github.com/bloomaccess/backend/internal/cache"
	"github.com/bloomaccess/backend/internal/config"
	"github.com/bloomaccess/backend/internal/queue/processor"
	"github.com/bloomaccess/backend/internal/queue/task"
	"github.com/bloomaccess/backend/internal/worker"

	"github.com/hibiken/asynq"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 1,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler enqueues the purge task on the configured cron spec.
func NewScheduler(cfg config.Cache, reaper config.Reaper) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOptions(cfg), &asynq.SchedulerOpts{
		Location: time.UTC,
		LogLevel: asynq.ErrorLevel,
	})

	if _, err := scheduler.Register(reaper.Cron, task.NewPurgeExpiredTask()); err != nil {
		return nil, fmt.Errorf("register reaper %q failed: %w", reaper.Cron, err)
	}

	return scheduler, nil
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	if cfg.Type == cache.RedisTypeCluster {
		return asynq.RedisClusterClientOpt{
			Addrs:    cfg.RedisCluster.Addresses,
			Password: cfg.RedisCluster.Password,
		}
	}

	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	}
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.PurgeExpiredTaskName, processor.NewPurgeExpiredProcessor(workers))
	queues := map[string]int{
		task.PurgeExpiredQueueName: 1,
	}
	return mux, queues
}
