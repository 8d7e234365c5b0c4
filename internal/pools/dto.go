package pools

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// CreatePoolInput captures everything needed to open a new pool.
type CreatePoolInput struct {
	Title                    string                 `json:"title" validate:"required,max=255"`
	Description              string                 `json:"description" validate:"max=2000"`
	PropertyID               uuid.UUID              `json:"property_id" validate:"required"`
	CheckIn                  time.Time              `json:"check_in" validate:"required"`
	CheckOut                 time.Time              `json:"check_out" validate:"required"`
	MaxMembers               int                    `json:"max_members" validate:"required,min=2"`
	TotalPrice               decimal.Decimal        `json:"total_price" validate:"required"`
	Visibility               enums.PoolVisibility   `json:"visibility"`
	GenderPreference         *enums.PreferredGender `json:"gender_preference,omitempty"`
	MinAge                   *int                   `json:"min_age,omitempty"`
	MaxAge                   *int                   `json:"max_age,omitempty"`
	SmokingAllowed           bool                   `json:"smoking_allowed"`
	PetsAllowed              bool                   `json:"pets_allowed"`
	UseCompatibilityMatching bool                   `json:"use_compatibility_matching"`
	MinCompatibilityScore    *int                   `json:"min_compatibility_score,omitempty"`
	BookingDeadline          *time.Time             `json:"booking_deadline,omitempty"`
}

// DiscoverFilters narrows the public pool listing.
type DiscoverFilters struct {
	Location          string
	CheckIn           *time.Time
	CheckOut          *time.Time
	MaxPricePerPerson *decimal.Decimal
	PropertyID        *uuid.UUID
}

// MemberDTO is the outward shape of a pool membership.
type MemberDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	PoolID             uuid.UUID                 `json:"pool_id"`
	UserID             uuid.UUID                 `json:"user_id"`
	Status             enums.PoolMemberStatus    `json:"status"`
	IsCreator          bool                      `json:"is_creator"`
	CompatibilityScore *int                      `json:"compatibility_score,omitempty"`
	ShareAmount        decimal.Decimal           `json:"share_amount"`
	AmountPaid         decimal.Decimal           `json:"amount_paid"`
	PaymentStatus      enums.MemberPaymentStatus `json:"payment_status"`
	RequestMessage     *string                   `json:"request_message,omitempty"`
	JoinedAt           time.Time                 `json:"joined_at"`
	ApprovedAt         *time.Time                `json:"approved_at,omitempty"`
}

// PoolDTO is the outward shape of a pool, optionally annotated with the
// caller's relationship to it.
type PoolDTO struct {
	ID                       uuid.UUID              `json:"id"`
	Title                    string                 `json:"title"`
	Description              string                 `json:"description"`
	PropertyID               uuid.UUID              `json:"property_id"`
	CreatorID                uuid.UUID              `json:"creator_id"`
	CheckIn                  time.Time              `json:"check_in"`
	CheckOut                 time.Time              `json:"check_out"`
	MaxMembers               int                    `json:"max_members"`
	CurrentMembers           int                    `json:"current_members"`
	SpotsAvailable           int                    `json:"spots_available"`
	TotalPrice               decimal.Decimal        `json:"total_price"`
	PricePerPerson           decimal.Decimal        `json:"price_per_person"`
	BookingFeePerPerson      decimal.Decimal        `json:"booking_fee_per_person"`
	Status                   enums.PoolStatus       `json:"status"`
	Visibility               enums.PoolVisibility   `json:"visibility"`
	GenderPreference         *enums.PreferredGender `json:"gender_preference,omitempty"`
	MinAge                   *int                   `json:"min_age,omitempty"`
	MaxAge                   *int                   `json:"max_age,omitempty"`
	SmokingAllowed           bool                   `json:"smoking_allowed"`
	PetsAllowed              bool                   `json:"pets_allowed"`
	UseCompatibilityMatching bool                   `json:"use_compatibility_matching"`
	MinCompatibilityScore    int                    `json:"min_compatibility_score"`
	ReservationID            *uuid.UUID             `json:"reservation_id,omitempty"`
	BookingDeadline          *time.Time             `json:"booking_deadline,omitempty"`
	IsMember                 bool                   `json:"is_member"`
	IsCreator                bool                   `json:"is_creator"`
	MyMembership             *MemberDTO             `json:"my_membership,omitempty"`
	Members                  []MemberDTO            `json:"members,omitempty"`
	CreatedAt                time.Time              `json:"created_at"`
	UpdatedAt                time.Time              `json:"updated_at"`
}

// MyPoolsDTO groups pools by the caller's relationship to them.
type MyPoolsDTO struct {
	Created []PoolDTO `json:"created"`
	Joined  []PoolDTO `json:"joined"`
	Pending []PoolDTO `json:"pending"`
}

// JoinResult reports the outcome of a join request.
type JoinResult struct {
	Status     enums.PoolMemberStatus `json:"status"`
	Message    string                 `json:"message"`
	Membership MemberDTO              `json:"membership"`
}

// FinalizeResult reports a successful pool booking.
type FinalizeResult struct {
	ReservationID uuid.UUID               `json:"reservation_id"`
	TotalPrice    decimal.Decimal         `json:"total_price"`
	BookingFee    decimal.Decimal         `json:"booking_fee"`
	MembersCount  int                     `json:"members_count"`
	Status        enums.ReservationStatus `json:"status"`
}

// BookingStatusDTO summarizes payment readiness or the linked reservation.
type BookingStatusDTO struct {
	HasReservation    bool                     `json:"has_reservation"`
	ReservationID     *uuid.UUID               `json:"reservation_id,omitempty"`
	ReservationStatus *enums.ReservationStatus `json:"reservation_status,omitempty"`
	CanFinalize       bool                     `json:"can_finalize"`
	MembersCount      int                      `json:"members_count"`
	TotalPaid         decimal.Decimal          `json:"total_paid"`
	TotalDue          decimal.Decimal          `json:"total_due"`
	PaymentComplete   bool                     `json:"payment_complete"`
	PoolStatus        enums.PoolStatus         `json:"pool_status"`
}

// CostSplitDTO is the persisted split plus per-member payment progress.
type CostSplitDTO struct {
	ID                uuid.UUID                  `json:"id"`
	PoolID            uuid.UUID                  `json:"pool_id"`
	SplitType         enums.SplitType            `json:"split_type"`
	BaseAccommodation decimal.Decimal            `json:"base_accommodation"`
	CleaningFee       decimal.Decimal            `json:"cleaning_fee"`
	ServiceFee        decimal.Decimal            `json:"service_fee"`
	Taxes             decimal.Decimal            `json:"taxes"`
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	CustomPercentages map[string]decimal.Decimal `json:"custom_percentages"`
	IndividualAmounts map[string]decimal.Decimal `json:"individual_amounts"`
	PaymentSummary    []MemberPaymentSummary     `json:"payment_summary"`
	TotalCollected    decimal.Decimal            `json:"total_collected"`
	TotalRemaining    decimal.Decimal            `json:"total_remaining"`
}

// MemberPaymentSummary is one member's row in the cost split readout.
type MemberPaymentSummary struct {
	UserID        uuid.UUID                 `json:"user_id"`
	ShareAmount   decimal.Decimal           `json:"share_amount"`
	AmountPaid    decimal.Decimal           `json:"amount_paid"`
	Remaining     decimal.Decimal           `json:"remaining"`
	PaymentStatus enums.MemberPaymentStatus `json:"payment_status"`
}

// ConfigureSplitInput changes a pool's split strategy.
type ConfigureSplitInput struct {
	SplitType         enums.SplitType            `json:"split_type" validate:"required"`
	CustomPercentages map[string]decimal.Decimal `json:"custom_percentages,omitempty"`
}

// RecordPaymentInput books a member payment against their share.
type RecordPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// ChatMessageDTO is the outward shape of a chat entry.
type ChatMessageDTO struct {
	ID          uuid.UUID             `json:"id"`
	PoolID      uuid.UUID             `json:"pool_id"`
	SenderID    *uuid.UUID            `json:"sender_id,omitempty"`
	MessageType enums.ChatMessageType `json:"message_type"`
	Body        string                `json:"body"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
	ReadBy      []uuid.UUID           `json:"read_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

// InvitationDTO is the outward shape of a pool invitation.
type InvitationDTO struct {
	ID            uuid.UUID              `json:"id"`
	PoolID        uuid.UUID              `json:"pool_id"`
	InvitedUserID *uuid.UUID             `json:"invited_user_id,omitempty"`
	InvitedEmail  string                 `json:"invited_email"`
	InvitedByID   uuid.UUID              `json:"invited_by_id"`
	Status        enums.InvitationStatus `json:"status"`
	Message       *string                `json:"message,omitempty"`
	ExpiresAt     time.Time              `json:"expires_at"`
	RespondedAt   *time.Time             `json:"responded_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// TransactionDTO is one ledger entry as exposed to members.
type TransactionDTO struct {
	ID            uuid.UUID               `json:"id"`
	PoolID        uuid.UUID               `json:"pool_id"`
	UserID        uuid.UUID               `json:"user_id"`
	Type          enums.TransactionType   `json:"type"`
	Status        enums.TransactionStatus `json:"status"`
	Amount        decimal.Decimal         `json:"amount"`
	PaymentMethod *string                 `json:"payment_method,omitempty"`
	Notes         *string                 `json:"notes,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

func toMemberDTO(member models.RoomPoolMember) MemberDTO {
	return MemberDTO{
		ID:                 member.ID,
		PoolID:             member.PoolID,
		UserID:             member.UserID,
		Status:             member.Status,
		IsCreator:          member.IsCreator,
		CompatibilityScore: member.CompatibilityScore,
		ShareAmount:        member.ShareAmount,
		AmountPaid:         member.AmountPaid,
		PaymentStatus:      member.PaymentStatus,
		RequestMessage:     member.RequestMessage,
		JoinedAt:           member.JoinedAt,
		ApprovedAt:         member.ApprovedAt,
	}
}

func toPoolDTO(pool models.RoomPool) PoolDTO {
	spots := pool.MaxMembers - pool.CurrentMembers
	if spots < 0 {
		spots = 0
	}
	return PoolDTO{
		ID:                       pool.ID,
		Title:                    pool.Title,
		Description:              pool.Description,
		PropertyID:               pool.PropertyID,
		CreatorID:                pool.CreatorID,
		CheckIn:                  pool.CheckIn,
		CheckOut:                 pool.CheckOut,
		MaxMembers:               pool.MaxMembers,
		CurrentMembers:           pool.CurrentMembers,
		SpotsAvailable:           spots,
		TotalPrice:               pool.TotalPrice,
		PricePerPerson:           pool.PricePerPerson,
		BookingFeePerPerson:      pool.BookingFeePerPerson,
		Status:                   pool.Status,
		Visibility:               pool.Visibility,
		GenderPreference:         pool.GenderPreference,
		MinAge:                   pool.MinAge,
		MaxAge:                   pool.MaxAge,
		SmokingAllowed:           pool.SmokingAllowed,
		PetsAllowed:              pool.PetsAllowed,
		UseCompatibilityMatching: pool.UseCompatibilityMatching,
		MinCompatibilityScore:    pool.MinCompatibilityScore,
		ReservationID:            pool.ReservationID,
		BookingDeadline:          pool.BookingDeadline,
		CreatedAt:                pool.CreatedAt,
		UpdatedAt:                pool.UpdatedAt,
	}
}

func toChatMessageDTO(message models.PoolChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:          message.ID,
		PoolID:      message.PoolID,
		SenderID:    message.SenderID,
		MessageType: message.MessageType,
		Body:        message.Body,
		Metadata:    message.Metadata,
		ReadBy:      message.IsReadBy,
		CreatedAt:   message.CreatedAt,
	}
}

func toInvitationDTO(invitation models.PoolInvitation) InvitationDTO {
	return InvitationDTO{
		ID:            invitation.ID,
		PoolID:        invitation.PoolID,
		InvitedUserID: invitation.InvitedUserID,
		InvitedEmail:  invitation.InvitedEmail,
		InvitedByID:   invitation.InvitedByID,
		Status:        invitation.Status,
		Message:       invitation.Message,
		ExpiresAt:     invitation.ExpiresAt,
		RespondedAt:   invitation.RespondedAt,
		CreatedAt:     invitation.CreatedAt,
	}
}

func toTransactionDTO(txn models.PaymentTransaction) TransactionDTO {
	return TransactionDTO{
		ID:            txn.ID,
		PoolID:        txn.PoolID,
		UserID:        txn.UserID,
		Type:          txn.Type,
		Status:        txn.Status,
		Amount:        txn.Amount,
		PaymentMethod: txn.PaymentMethod,
		Notes:         txn.Notes,
		CompletedAt:   txn.CompletedAt,
		CreatedAt:     txn.CreatedAt,
	}
}
