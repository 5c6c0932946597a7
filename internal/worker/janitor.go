// Package worker runs background maintenance for the portal.
package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Evicter drops idle workspaces.
type Evicter interface {
	Evict(idle time.Duration) int
	Len() int
}

// Janitor evicts idle workspaces on a cron schedule.
type Janitor struct {
	cron     *cron.Cron
	registry Evicter
	idle     time.Duration
	logger   *zap.Logger
}

// NewJanitor schedules eviction. schedule accepts standard cron expressions
// and descriptors such as "@every 5m".
func NewJanitor(registry Evicter, schedule string, idle time.Duration, logger *zap.Logger) (*Janitor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Janitor{
		cron:     cron.New(),
		registry: registry,
		idle:     idle,
		logger:   logger.Named("janitor"),
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid WORKSPACE_SWEEP_SCHEDULE %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("workspace janitor started", zap.Duration("idle", j.idle))
}

// Stop halts the schedule and waits for a running sweep.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep evicts once.
func (j *Janitor) Sweep() {
	evicted := j.registry.Evict(j.idle)
	if evicted > 0 {
		j.logger.Info("evicted idle workspaces", zap.Int("evicted", evicted), zap.Int("remaining", j.registry.Len()))
	}
}
