package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// PaymentTransaction is one ledger entry against a member's pool share.
type PaymentTransaction struct {
	ID             uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PoolID         uuid.UUID               `gorm:"column:pool_id;type:uuid;not null;index"`
	UserID         uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Type           enums.TransactionType   `gorm:"column:type;not null;default:'payment'"`
	Status         enums.TransactionStatus `gorm:"column:status;not null;default:'pending'"`
	Amount         decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod  *string                 `gorm:"column:payment_method"`
	TransactionRef *string                 `gorm:"column:transaction_ref"`
	Notes          *string                 `gorm:"column:notes"`
	CompletedAt    *time.Time              `gorm:"column:completed_at"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
}
