package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

func TestMatchExpiryJobPurgesWithCurrentCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	purger := &fakeMatchPurger{deleted: 7}
	job := newMatchExpiryJob(t, purger)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.called != 1 {
		t.Fatalf("expected one purge call, got %d", purger.called)
	}
	if !purger.lastCutoff.Equal(now.UTC()) {
		t.Fatalf("expected cutoff %s, got %s", now.UTC(), purger.lastCutoff)
	}
}

func TestMatchExpiryJobPropagatesErrors(t *testing.T) {
	purger := &fakeMatchPurger{err: errors.New("boom")}
	job := newMatchExpiryJob(t, purger)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newMatchExpiryJob(t *testing.T, purger *fakeMatchPurger) *matchExpiryJob {
	t.Helper()
	jobIface, err := NewMatchExpiryJob(MatchExpiryJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Matches: purger,
	})
	if err != nil {
		t.Fatalf("NewMatchExpiryJob: %v", err)
	}
	job, ok := jobIface.(*matchExpiryJob)
	if !ok {
		t.Fatalf("expected matchExpiryJob, got %T", jobIface)
	}
	return job
}

type fakeMatchPurger struct {
	lastCutoff time.Time
	deleted    int64
	err        error
	called     int
}

func (f *fakeMatchPurger) DeleteExpiredMatches(ctx context.Context, before time.Time) (int64, error) {
	f.called++
	f.lastCutoff = before
	if f.err != nil {
		return 0, f.err
	}
	return f.deleted, nil
}
