package pools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

// RecordPayment books a payment against the caller's share and moves
// their payment status forward. Approved members only.
func (s *service) RecordPayment(ctx context.Context, poolID, actorID uuid.UUID, input RecordPaymentInput) (TransactionDTO, error) {
	if actorID == uuid.Nil {
		return TransactionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return TransactionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	var dto TransactionDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.loadPool(ctx, repo, poolID)
		if err != nil {
			return err
		}

		member, err := repo.FindMember(ctx, poolID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only approved members can record payments")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
		}
		if member.Status != enums.PoolMemberStatusApproved {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only approved members can record payments")
		}

		now := time.Now()
		txn := &models.PaymentTransaction{
			ID:            uuid.New(),
			PoolID:        poolID,
			UserID:        actorID,
			Type:          enums.TransactionTypePayment,
			Status:        enums.TransactionStatusCompleted,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
			CompletedAt:   &now,
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}

		member.AmountPaid = member.AmountPaid.Add(input.Amount)
		switch {
		case member.AmountPaid.GreaterThanOrEqual(member.ShareAmount):
			member.PaymentStatus = enums.MemberPaymentStatusPaid
		case member.AmountPaid.GreaterThan(decimal.Zero):
			member.PaymentStatus = enums.MemberPaymentStatusPartial
		}
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment progress")
		}

		if err := s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypePayment,
			fmt.Sprintf("%s made a payment of $%s", s.displayName(ctx, repo, actorID), input.Amount.StringFixed(2)),
			map[string]any{"amount": input.Amount.String(), "user_id": actorID.String()}); err != nil {
			return err
		}

		dto = toTransactionDTO(*txn)
		return nil
	})
	if err != nil {
		return TransactionDTO{}, err
	}
	return dto, nil
}

// ListPayments returns the pool's payment ledger. Members and the
// creator only.
func (s *service) ListPayments(ctx context.Context, poolID, actorID uuid.UUID) ([]TransactionDTO, error) {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListTransactions(ctx, poolID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, txn := range transactions {
		dtos = append(dtos, toTransactionDTO(txn))
	}
	return dtos, nil
}
