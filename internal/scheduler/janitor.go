package scheduler

import (
	"context"
	"time"

	"quote_portal_backend/platform/logger"
)

const defaultJanitorInterval = 5 * time.Minute

// PruneFunc removes stale entries and returns how many it removed.
type PruneFunc func() int

// Janitor periodically prunes in-process state such as per-IP rate limiters
// and the in-memory attribution store.
type Janitor struct {
	log      *logger.Logger
	interval time.Duration
	tasks    map[string]PruneFunc
}

func NewJanitor(log *logger.Logger, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	return &Janitor{log: log, interval: interval, tasks: make(map[string]PruneFunc)}
}

// Add registers a named prune task. It must be called before Run.
func (j *Janitor) Add(name string, fn PruneFunc) {
	j.tasks[name] = fn
}

func (j *Janitor) Run(ctx context.Context) {
	if j == nil || len(j.tasks) == 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce()
		}
	}
}

func (j *Janitor) runOnce() {
	for name, fn := range j.tasks {
		if removed := fn(); removed > 0 {
			j.log.Debug("janitor pruned entries", "task", name, "removed", removed)
		}
	}
}
