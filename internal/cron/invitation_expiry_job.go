package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/internal/pools"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

const invitationSweepBatch = 200

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type staleInvitationReader interface {
	ListStaleInvitations(ctx context.Context, before time.Time, limit int) ([]models.PoolInvitation, error)
}

type invitationWriter interface {
	SaveInvitation(ctx context.Context, invitation *models.PoolInvitation) error
}

type invitationRepoFactory func(tx *gorm.DB) invitationWriter

func defaultInvitationRepo(tx *gorm.DB) invitationWriter {
	return pools.NewRepository(tx)
}

// InvitationExpiryJobParams configure the stale pool invitation sweep.
type InvitationExpiryJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Reader      staleInvitationReader
	RepoFactory invitationRepoFactory
}

// NewInvitationExpiryJob builds the cron job that marks pending pool
// invitations expired once their deadline passes. Accept and respond
// paths also expire lazily; the sweep keeps listings honest for
// invitations nobody ever opens.
func NewInvitationExpiryJob(params InvitationExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("invitation reader required")
	}
	repoFactory := params.RepoFactory
	if repoFactory == nil {
		repoFactory = defaultInvitationRepo
	}
	return &invitationExpiryJob{
		logg:        params.Logger,
		db:          params.DB,
		reader:      params.Reader,
		repoFactory: repoFactory,
		now:         time.Now,
	}, nil
}

type invitationExpiryJob struct {
	logg        *logger.Logger
	db          txRunner
	reader      staleInvitationReader
	repoFactory invitationRepoFactory
	now         func() time.Time
}

func (j *invitationExpiryJob) Name() string { return "invitation-expiry" }

func (j *invitationExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	expired := 0
	for {
		stale, err := j.reader.ListStaleInvitations(ctx, cutoff, invitationSweepBatch)
		if err != nil {
			return fmt.Errorf("list stale invitations: %w", err)
		}
		if len(stale) == 0 {
			break
		}

		err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := j.repoFactory(tx)
			for i := range stale {
				invitation := stale[i]
				invitation.Status = enums.InvitationStatusExpired
				if err := repo.SaveInvitation(ctx, &invitation); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("expire invitations: %w", err)
		}

		expired += len(stale)
		if len(stale) < invitationSweepBatch {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"expired": expired,
	})
	j.logg.Info(logCtx, "invitation expiry sweep complete")
	return nil
}
