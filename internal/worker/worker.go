package worker

import (
	"context"
	"time"
)

type Workers struct {
	Reaper Reaper
}

type Deps struct {
	Purger Purger
}

// Purger deletes expired verification challenges together with their
// unverified accounts.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

type Reaper interface {
	Run(ctx context.Context) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		Reaper: newReaper(deps.Purger, time.Now),
	}
}
