package pools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

func TestPostMessageTrimsAndSeedsReadSet(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	message, err := svc.PostMessage(ctx, pool.ID, creatorID, "  hello everyone  ")
	require.NoError(t, err)
	assert.Equal(t, "hello everyone", message.Body)
	assert.Equal(t, enums.ChatMessageTypeText, message.MessageType)
	require.NotNil(t, message.SenderID)
	assert.Equal(t, creatorID, *message.SenderID)
	require.Len(t, message.ReadBy, 1)
	assert.Equal(t, creatorID, message.ReadBy[0])
}

func TestPostMessageRejectsEmptyBody(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.PostMessage(context.Background(), pool.ID, creatorID, "   ")
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestPostMessageRequiresMembership(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	outsiderID := createTestUser(t, db, "Mallory")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.PostMessage(context.Background(), pool.ID, outsiderID, "let me in")
	assertErrorCode(t, err, pkgerrors.CodeForbidden)
}

func TestListMessagesChronological(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.PostMessage(ctx, pool.ID, creatorID, "first")
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, pool.ID, creatorID, "second")
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, pool.ID, creatorID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
}

func TestMarkMessagesReadIdempotent(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	readerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.Join(ctx, pool.ID, readerID, nil)
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, pool.ID, creatorID, "welcome")
	require.NoError(t, err)

	require.NoError(t, svc.MarkMessagesRead(ctx, pool.ID, readerID))
	require.NoError(t, svc.MarkMessagesRead(ctx, pool.ID, readerID))

	var stored []models.PoolChatMessage
	require.NoError(t, db.Where("pool_id = ?", pool.ID).Find(&stored).Error)
	for _, message := range stored {
		assert.True(t, message.IsReadBy.Contains(readerID), "message %q not marked read", message.Body)
		// The set stays a set even after the second pass.
		seen := 0
		for _, id := range message.IsReadBy {
			if id == readerID {
				seen++
			}
		}
		assert.Equal(t, 1, seen)
	}
}
