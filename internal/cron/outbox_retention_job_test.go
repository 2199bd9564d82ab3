package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/dbtest"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
)

func TestOutboxRetentionJobPrunesOldRows(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	old := now.Add(-40 * 24 * time.Hour)
	recent := now.Add(-24 * time.Hour)

	seed := func(createdAt time.Time, publishedAt *time.Time, attempts int) uuid.UUID {
		event := models.OutboxEvent{
			ID:            uuid.New(),
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{"version":1}`),
			CreatedAt:     createdAt,
			PublishedAt:   publishedAt,
			AttemptCount:  attempts,
		}
		require.NoError(t, conn.Create(&event).Error)
		return event.ID
	}
	seed(old, &old, 1)
	keptRecent := seed(recent, &recent, 1)
	seed(old, nil, 10)
	keptPending := seed(old, nil, 2)

	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test", Output: &bytes.Buffer{}}),
		Repository: outbox.NewRepository(conn),
	})
	require.NoError(t, err)
	job := jobIface.(*outboxRetentionJob)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var remaining []models.OutboxEvent
	require.NoError(t, conn.Order("created_at ASC").Find(&remaining).Error)
	ids := []uuid.UUID{}
	for _, row := range remaining {
		ids = append(ids, row.ID)
	}
	require.ElementsMatch(t, []uuid.UUID{keptRecent, keptPending}, ids)
}

type failingRetentionRepo struct {
	cutoff time.Time
}

func (f *failingRetentionRepo) DeletePublishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 0, errors.New("published boom")
}

func (f *failingRetentionRepo) DeleteDeadBefore(context.Context, time.Time, int) (int64, error) {
	return 0, errors.New("dead boom")
}

func TestOutboxRetentionJobCombinesErrors(t *testing.T) {
	repo := &failingRetentionRepo{}
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test", Output: &bytes.Buffer{}}),
		Repository: repo,
		Retention:  7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	job := jobIface.(*outboxRetentionJob)
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	err = job.Run(context.Background())
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.Equal(t, now.Add(-7*24*time.Hour), repo.cutoff)
}
