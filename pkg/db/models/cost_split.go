package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// CostSplit is the current division of a pool's total cost. One row per
// pool, rewritten on every membership change.
type CostSplit struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PoolID            uuid.UUID        `gorm:"column:pool_id;type:uuid;not null;uniqueIndex"`
	SplitType         enums.SplitType  `gorm:"column:split_type;not null;default:'equal'"`
	BaseAccommodation decimal.Decimal  `gorm:"column:base_accommodation;type:numeric(12,2);not null;default:0"`
	CleaningFee       decimal.Decimal  `gorm:"column:cleaning_fee;type:numeric(12,2);not null;default:0"`
	ServiceFee        decimal.Decimal  `gorm:"column:service_fee;type:numeric(12,2);not null;default:0"`
	Taxes             decimal.Decimal  `gorm:"column:taxes;type:numeric(12,2);not null;default:0"`
	TotalAmount       decimal.Decimal  `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CustomPercentages types.DecimalMap `gorm:"column:custom_percentages;type:jsonb;default:'{}'"`
	IndividualAmounts types.DecimalMap `gorm:"column:individual_amounts;type:jsonb;default:'{}'"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
