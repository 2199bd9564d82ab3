package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

const (
	defaultOutboxRetention   = 30 * 24 * time.Hour
	defaultOutboxMaxAttempts = 10
)

type OutboxRetentionJobParams struct {
	Logger      *logger.Logger
	Repository  outboxRetentionRepo
	// Retention is how long a finished row is kept. Defaults to 30 days.
	Retention   time.Duration
	// MaxAttempts must match the publisher so dead rows are recognised.
	MaxAttempts int
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteDeadBefore(ctx context.Context, cutoff time.Time, maxAttempts int) (int64, error)
}

// NewOutboxRetentionJob prunes delivered events, and events that ran out of
// publish attempts, once they are older than the retention window. Pending
// rows are never touched.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil || params.Repository == nil {
		return nil, errors.New("outbox retention job needs a logger and a repository")
	}
	job := &outboxRetentionJob{
		logg:        params.Logger,
		repo:        params.Repository,
		window:      params.Retention,
		maxAttempts: params.MaxAttempts,
		now:         time.Now,
	}
	if job.window <= 0 {
		job.window = defaultOutboxRetention
	}
	if job.maxAttempts <= 0 {
		job.maxAttempts = defaultOutboxMaxAttempts
	}
	return job, nil
}

type outboxRetentionJob struct {
	logg        *logger.Logger
	repo        outboxRetentionRepo
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

// Run attempts both sweeps even when the first fails.
func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.window)
	sweeps := []struct {
		name string
		run  func() (int64, error)
	}{
		{"published", func() (int64, error) { return j.repo.DeletePublishedBefore(ctx, cutoff) }},
		{"dead", func() (int64, error) { return j.repo.DeleteDeadBefore(ctx, cutoff, j.maxAttempts) }},
	}

	fields := map[string]any{"cutoff": cutoff, "retention": j.window.String()}
	var errs error
	for _, sweep := range sweeps {
		rows, err := sweep.run()
		if err != nil {
			multierr.AppendInto(&errs, fmt.Errorf("delete %s events: %w", sweep.name, err))
			continue
		}
		fields[sweep.name+"_rows"] = rows
	}
	if errs != nil {
		return errs
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), "outbox.retention.complete")
	return nil
}
