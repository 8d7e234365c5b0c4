package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// guestMatchPurger is the slice of the recommendations repository this
// job needs.
type guestMatchPurger interface {
	DeleteExpiredMatches(ctx context.Context, before time.Time) (int64, error)
}

// MatchExpiryJobParams configure the guest match purge.
type MatchExpiryJobParams struct {
	Logger  *logger.Logger
	Matches guestMatchPurger
}

// NewMatchExpiryJob builds the cron job that purges expired guest matches.
func NewMatchExpiryJob(params MatchExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Matches == nil {
		return nil, fmt.Errorf("match repository required")
	}
	return &matchExpiryJob{
		logg:    params.Logger,
		matches: params.Matches,
		now:     time.Now,
	}, nil
}

type matchExpiryJob struct {
	logg    *logger.Logger
	matches guestMatchPurger
	now     func() time.Time
}

func (j *matchExpiryJob) Name() string { return "guest-match-expiry" }

func (j *matchExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	deleted, err := j.matches.DeleteExpiredMatches(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge expired guest matches: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "guest match purge complete")
	return nil
}
