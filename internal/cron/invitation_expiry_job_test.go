package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

func TestInvitationExpiryJobMarksStaleInvitations(t *testing.T) {
	stale := []models.PoolInvitation{
		{ID: uuid.New(), Status: enums.InvitationStatusPending},
		{ID: uuid.New(), Status: enums.InvitationStatusPending},
	}
	reader := &fakeInvitationReader{batches: [][]models.PoolInvitation{stale}}
	writer := &fakeInvitationWriter{}
	job := newInvitationExpiryJob(t, reader, writer)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(writer.saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(writer.saved))
	}
	for _, saved := range writer.saved {
		if saved.Status != enums.InvitationStatusExpired {
			t.Fatalf("expected expired status, got %s", saved.Status)
		}
	}
}

func TestInvitationExpiryJobDrainsFullBatches(t *testing.T) {
	full := make([]models.PoolInvitation, invitationSweepBatch)
	for i := range full {
		full[i] = models.PoolInvitation{ID: uuid.New(), Status: enums.InvitationStatusPending}
	}
	rest := []models.PoolInvitation{{ID: uuid.New(), Status: enums.InvitationStatusPending}}
	reader := &fakeInvitationReader{batches: [][]models.PoolInvitation{full, rest}}
	writer := &fakeInvitationWriter{}
	job := newInvitationExpiryJob(t, reader, writer)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(writer.saved) != invitationSweepBatch+1 {
		t.Fatalf("expected %d saves, got %d", invitationSweepBatch+1, len(writer.saved))
	}
	if reader.calls != 2 {
		t.Fatalf("expected 2 list calls, got %d", reader.calls)
	}
}

func TestInvitationExpiryJobPropagatesReadErrors(t *testing.T) {
	reader := &fakeInvitationReader{err: errors.New("boom")}
	job := newInvitationExpiryJob(t, reader, &fakeInvitationWriter{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newInvitationExpiryJob(t *testing.T, reader *fakeInvitationReader, writer *fakeInvitationWriter) *invitationExpiryJob {
	t.Helper()
	jobIface, err := NewInvitationExpiryJob(InvitationExpiryJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		DB:          invitationFakeTxRunner{},
		Reader:      reader,
		RepoFactory: func(tx *gorm.DB) invitationWriter { return writer },
	})
	if err != nil {
		t.Fatalf("NewInvitationExpiryJob: %v", err)
	}
	job, ok := jobIface.(*invitationExpiryJob)
	if !ok {
		t.Fatalf("expected invitationExpiryJob, got %T", jobIface)
	}
	return job
}

type fakeInvitationReader struct {
	batches [][]models.PoolInvitation
	calls   int
	err     error
}

func (f *fakeInvitationReader) ListStaleInvitations(ctx context.Context, before time.Time, limit int) ([]models.PoolInvitation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

type fakeInvitationWriter struct {
	saved []models.PoolInvitation
}

func (f *fakeInvitationWriter) SaveInvitation(ctx context.Context, invitation *models.PoolInvitation) error {
	f.saved = append(f.saved, *invitation)
	return nil
}

type invitationFakeTxRunner struct{}

func (invitationFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
