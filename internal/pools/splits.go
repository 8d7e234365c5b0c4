package pools

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// GetCostSplit returns the persisted split together with per-member
// payment progress. Members and the creator only.
func (s *service) GetCostSplit(ctx context.Context, poolID, actorID uuid.UUID) (CostSplitDTO, error) {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return CostSplitDTO{}, err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return CostSplitDTO{}, err
	}

	split, err := s.repo.FindCostSplit(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostSplitDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cost split not found")
		}
		return CostSplitDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cost split")
	}

	approved, err := s.repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved)
	if err != nil {
		return CostSplitDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved members")
	}

	return buildCostSplitDTO(split, approved), nil
}

// ConfigureCostSplit changes the split strategy. Creator only. A custom
// split rewrites member shares from the supplied percentages; anything
// else falls back to the equal split.
func (s *service) ConfigureCostSplit(ctx context.Context, poolID, actorID uuid.UUID, input ConfigureSplitInput) (CostSplitDTO, error) {
	if !input.SplitType.IsValid() {
		return CostSplitDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid split type")
	}

	var dto CostSplitDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can configure the cost split")
		if err != nil {
			return err
		}

		split, err := repo.FindCostSplit(ctx, poolID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cost split not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cost split")
		}

		approved, err := repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved members")
		}

		split.SplitType = input.SplitType
		if input.SplitType == enums.SplitTypeCustom {
			if len(input.CustomPercentages) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "custom percentages are required for a custom split")
			}
			split.CustomPercentages = types.DecimalMap(input.CustomPercentages)

			amounts := make(types.DecimalMap, len(approved))
			for i := range approved {
				member := &approved[i]
				pct, ok := input.CustomPercentages[member.UserID.String()]
				if !ok {
					pct = decimal.Zero
				}
				amount := split.TotalAmount.Mul(pct).Div(oneHundred).Round(2)
				amounts[member.UserID.String()] = amount
				member.ShareAmount = amount
				member.CustomSplitPercentage = &pct
				if err := repo.SaveMember(ctx, member); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member share")
				}
			}
			split.IndividualAmounts = amounts
			if err := repo.SaveCostSplit(ctx, split); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cost split")
			}
		} else {
			if err := repo.SaveCostSplit(ctx, split); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cost split")
			}
			if err := s.recalculateSplit(ctx, repo, pool); err != nil {
				return err
			}
			split, err = repo.FindCostSplit(ctx, poolID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cost split")
			}
			approved, err = repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload approved members")
			}
		}

		dto = buildCostSplitDTO(split, approved)
		return nil
	})
	if err != nil {
		return CostSplitDTO{}, err
	}
	return dto, nil
}

func buildCostSplitDTO(split *models.CostSplit, approved []models.RoomPoolMember) CostSplitDTO {
	summary := make([]MemberPaymentSummary, 0, len(approved))
	collected := decimal.Zero
	due := decimal.Zero
	for _, member := range approved {
		remaining := member.ShareAmount.Sub(member.AmountPaid)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		summary = append(summary, MemberPaymentSummary{
			UserID:        member.UserID,
			ShareAmount:   member.ShareAmount,
			AmountPaid:    member.AmountPaid,
			Remaining:     remaining,
			PaymentStatus: member.PaymentStatus,
		})
		collected = collected.Add(member.AmountPaid)
		due = due.Add(member.ShareAmount)
	}

	remaining := due.Sub(collected)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return CostSplitDTO{
		ID:                split.ID,
		PoolID:            split.PoolID,
		SplitType:         split.SplitType,
		BaseAccommodation: split.BaseAccommodation,
		CleaningFee:       split.CleaningFee,
		ServiceFee:        split.ServiceFee,
		Taxes:             split.Taxes,
		TotalAmount:       split.TotalAmount,
		CustomPercentages: split.CustomPercentages,
		IndividualAmounts: split.IndividualAmounts,
		PaymentSummary:    summary,
		TotalCollected:    collected,
		TotalRemaining:    remaining,
	}
}
