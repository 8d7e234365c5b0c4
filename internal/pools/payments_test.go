package pools

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	memberID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, memberID, nil)
	require.NoError(t, err)

	// Share after the recalculation is 110.00.
	txn, err := svc.RecordPayment(ctx, pool.ID, memberID, RecordPaymentInput{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.CompletedAt)

	detail, err := svc.Get(ctx, pool.ID, memberID)
	require.NoError(t, err)
	require.NotNil(t, detail.MyMembership)
	assert.Equal(t, enums.MemberPaymentStatusPartial, detail.MyMembership.PaymentStatus)
	assert.Equal(t, "50.00", detail.MyMembership.AmountPaid.StringFixed(2))

	_, err = svc.RecordPayment(ctx, pool.ID, memberID, RecordPaymentInput{Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)

	detail, err = svc.Get(ctx, pool.ID, memberID)
	require.NoError(t, err)
	assert.Equal(t, enums.MemberPaymentStatusPaid, detail.MyMembership.PaymentStatus)
	assert.Equal(t, "110.00", detail.MyMembership.AmountPaid.StringFixed(2))
}

func TestRecordPaymentPostsChatNotice(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.RecordPayment(ctx, pool.ID, creatorID, RecordPaymentInput{Amount: decimal.NewFromInt(25)})
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, pool.ID, creatorID, 50)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, enums.ChatMessageTypePayment, last.MessageType)
	assert.Equal(t, "25", last.Metadata["amount"])
}

func TestRecordPaymentRequiresApprovedMember(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pendingID := createTestUser(t, db, "Bob")
	outsiderID := createTestUser(t, db, "Mallory")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	_, err := svc.Join(ctx, pool.ID, pendingID, nil)
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, pool.ID, pendingID, RecordPaymentInput{Amount: decimal.NewFromInt(10)})
	assertErrorCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.RecordPayment(ctx, pool.ID, outsiderID, RecordPaymentInput{Amount: decimal.NewFromInt(10)})
	assertErrorCode(t, err, pkgerrors.CodeForbidden)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.RecordPayment(context.Background(), pool.ID, creatorID, RecordPaymentInput{Amount: decimal.Zero})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestListPaymentsMemberOnly(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	outsiderID := createTestUser(t, db, "Mallory")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.RecordPayment(ctx, pool.ID, creatorID, RecordPaymentInput{Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)

	transactions, err := svc.ListPayments(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "40.00", transactions[0].Amount.StringFixed(2))

	_, err = svc.ListPayments(ctx, pool.ID, outsiderID)
	assertErrorCode(t, err, pkgerrors.CodeForbidden)
}
