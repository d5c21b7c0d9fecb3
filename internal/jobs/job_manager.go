// Package jobs runs the scheduled background work of the API process.
package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Job is a schedulable background task.
type Job interface {
	Start() error
	Stop()
}

// SweepConfig controls the unpaid order sweep.
type SweepConfig struct {
	Enabled   bool
	Schedule  string
	OlderThan time.Duration
}

// JobManager starts and stops every scheduled job together.
type JobManager struct {
	jobs   []Job
	logger *slog.Logger
}

// NewJobManager wires the jobs enabled by cfg.
func NewJobManager(sweeper UnpaidSweeper, cfg SweepConfig, logger *slog.Logger) *JobManager {
	if logger == nil {
		logger = slog.Default()
	}
	jm := &JobManager{logger: logger}
	if cfg.Enabled && sweeper != nil {
		jm.jobs = append(jm.jobs, NewUnpaidOrderSweepJob(sweeper, cfg.Schedule, cfg.OlderThan, logger))
	}
	return jm
}

// StartAll starts all jobs, stopping the ones already started on failure.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all jobs.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}

// Len reports how many jobs are scheduled.
func (jm *JobManager) Len() int { return len(jm.jobs) }
