package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// RoomPool is a shared-stay group on a single property. CurrentMembers
// counts approved members only, the creator included.
type RoomPool struct {
	ID                       uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title                    string                 `gorm:"column:title;not null"`
	Description              string                 `gorm:"column:description;not null;default:''"`
	PropertyID               uuid.UUID              `gorm:"column:property_id;type:uuid;not null;index"`
	CreatorID                uuid.UUID              `gorm:"column:creator_id;type:uuid;not null;index"`
	CheckIn                  time.Time              `gorm:"column:check_in;not null"`
	CheckOut                 time.Time              `gorm:"column:check_out;not null"`
	MaxMembers               int                    `gorm:"column:max_members;not null"`
	CurrentMembers           int                    `gorm:"column:current_members;not null;default:1"`
	TotalPrice               decimal.Decimal        `gorm:"column:total_price;type:numeric(12,2);not null"`
	PricePerPerson           decimal.Decimal        `gorm:"column:price_per_person;type:numeric(12,2);not null"`
	BookingFeePerPerson      decimal.Decimal        `gorm:"column:booking_fee_per_person;type:numeric(12,2);not null"`
	Status                   enums.PoolStatus       `gorm:"column:status;not null;default:'open';index"`
	Visibility               enums.PoolVisibility   `gorm:"column:visibility;not null;default:'public'"`
	GenderPreference         *enums.PreferredGender `gorm:"column:gender_preference"`
	MinAge                   *int                   `gorm:"column:min_age"`
	MaxAge                   *int                   `gorm:"column:max_age"`
	SmokingAllowed           bool                   `gorm:"column:smoking_allowed;not null;default:false"`
	PetsAllowed              bool                   `gorm:"column:pets_allowed;not null;default:false"`
	UseCompatibilityMatching bool                   `gorm:"column:use_compatibility_matching;not null;default:false"`
	MinCompatibilityScore    int                    `gorm:"column:min_compatibility_score;not null;default:50"`
	ReservationID            *uuid.UUID             `gorm:"column:reservation_id;type:uuid"`
	BookingDeadline          *time.Time             `gorm:"column:booking_deadline"`
	Members                  []RoomPoolMember       `gorm:"foreignKey:PoolID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// RoomPoolMember is one user's membership in a pool. A (pool, user) pair is
// unique; rejected or departed rows are reused on re-join.
type RoomPoolMember struct {
	ID                    uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PoolID                uuid.UUID                 `gorm:"column:pool_id;type:uuid;not null;uniqueIndex:idx_pool_member"`
	UserID                uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_pool_member"`
	Status                enums.PoolMemberStatus    `gorm:"column:status;not null;default:'pending'"`
	IsCreator             bool                      `gorm:"column:is_creator;not null;default:false"`
	CompatibilityScore    *int                      `gorm:"column:compatibility_score"`
	ShareAmount           decimal.Decimal           `gorm:"column:share_amount;type:numeric(12,2);not null;default:0"`
	AmountPaid            decimal.Decimal           `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0"`
	PaymentStatus         enums.MemberPaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentDueDate        *time.Time                `gorm:"column:payment_due_date"`
	CustomSplitPercentage *decimal.Decimal          `gorm:"column:custom_split_percentage;type:numeric(5,2)"`
	RequestMessage        *string                   `gorm:"column:request_message"`
	JoinedAt              time.Time                 `gorm:"column:joined_at;autoCreateTime"`
	ApprovedAt            *time.Time                `gorm:"column:approved_at"`
	UpdatedAt             time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
