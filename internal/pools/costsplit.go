package pools

import (
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// SplitPreviewInput is the request for a stateless split calculation.
type SplitPreviewInput struct {
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	MemberCount       int                        `json:"member_count"`
	SplitType         enums.SplitType            `json:"split_type"`
	CustomPercentages map[string]decimal.Decimal `json:"custom_percentages,omitempty"`
	NightsPerMember   map[string]int             `json:"nights_per_member,omitempty"`
}

// SplitPreviewResult carries either a flat per-person amount or a
// per-member mapping, depending on the strategy.
type SplitPreviewResult struct {
	SplitType         enums.SplitType            `json:"split_type"`
	Total             decimal.Decimal            `json:"total"`
	PerPerson         *decimal.Decimal           `json:"per_person,omitempty"`
	IndividualAmounts map[string]decimal.Decimal `json:"individual_amounts,omitempty"`
}

// EqualShare divides a total evenly, rounded to cents. The last cent is
// not redistributed: 100.00 across 3 members yields 33.33 each, leaving
// a 0.01 gap against the total.
func EqualShare(total decimal.Decimal, memberCount int) decimal.Decimal {
	if memberCount <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(memberCount))).Round(2)
}

// CustomShares applies caller-supplied percentages. Percentages are not
// validated to sum to 100.
func CustomShares(total decimal.Decimal, percentages map[string]decimal.Decimal) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(percentages))
	for userID, percentage := range percentages {
		shares[userID] = total.Mul(percentage.Div(oneHundred)).Round(2)
	}
	return shares
}

// NightShares splits a total proportionally to the nights each member
// stays.
func NightShares(total decimal.Decimal, nights map[string]int) map[string]decimal.Decimal {
	totalNights := 0
	for _, memberNights := range nights {
		totalNights += memberNights
	}
	shares := make(map[string]decimal.Decimal, len(nights))
	if totalNights <= 0 {
		return shares
	}
	denominator := decimal.NewFromInt(int64(totalNights))
	for userID, memberNights := range nights {
		shares[userID] = total.
			Mul(decimal.NewFromInt(int64(memberNights))).
			Div(denominator).
			Round(2)
	}
	return shares
}

// PreviewSplit computes a split without touching any pool. by_beds is
// accepted but behaves as an equal split since bed allocation is not
// tracked.
func PreviewSplit(input SplitPreviewInput) (SplitPreviewResult, error) {
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return SplitPreviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be positive")
	}
	if !input.SplitType.IsValid() {
		return SplitPreviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid split type")
	}

	result := SplitPreviewResult{
		SplitType: input.SplitType,
		Total:     input.TotalAmount,
	}

	switch input.SplitType {
	case enums.SplitTypeCustom:
		if len(input.CustomPercentages) == 0 {
			return SplitPreviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "custom percentages are required")
		}
		result.IndividualAmounts = CustomShares(input.TotalAmount, input.CustomPercentages)
	case enums.SplitTypeByNights:
		if len(input.NightsPerMember) == 0 {
			return SplitPreviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "nights per member are required")
		}
		result.IndividualAmounts = NightShares(input.TotalAmount, input.NightsPerMember)
	default:
		if input.MemberCount < 2 {
			return SplitPreviewResult{}, pkgerrors.New(pkgerrors.CodeValidation, "member count must be at least 2")
		}
		perPerson := EqualShare(input.TotalAmount, input.MemberCount)
		result.PerPerson = &perPerson
	}

	return result, nil
}
