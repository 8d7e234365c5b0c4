package pools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/internal/roommates"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// ServiceParams groups dependencies for the pools service.
type ServiceParams struct {
	Repo        Repository
	Tx          txRunner
	ProfileRepo *roommates.Repository
	Scorer      roommates.Scorer
	Pooling     config.PoolingConfig
}

// Service exposes the room pool lifecycle plus its chat, invitation and
// payment surfaces.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreatePoolInput) (PoolDTO, error)
	Get(ctx context.Context, poolID, viewerID uuid.UUID) (PoolDTO, error)
	Discover(ctx context.Context, filters DiscoverFilters, viewerID uuid.UUID, limit int) ([]PoolDTO, error)
	MyPools(ctx context.Context, userID uuid.UUID) (MyPoolsDTO, error)

	Join(ctx context.Context, poolID, userID uuid.UUID, message *string) (JoinResult, error)
	ApproveMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) (MemberDTO, error)
	RejectMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) error
	Leave(ctx context.Context, poolID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) error
	Cancel(ctx context.Context, poolID, actorID uuid.UUID) error
	Finalize(ctx context.Context, poolID, actorID uuid.UUID) (FinalizeResult, error)
	BookingStatus(ctx context.Context, poolID, actorID uuid.UUID) (BookingStatusDTO, error)

	GetCostSplit(ctx context.Context, poolID, actorID uuid.UUID) (CostSplitDTO, error)
	ConfigureCostSplit(ctx context.Context, poolID, actorID uuid.UUID, input ConfigureSplitInput) (CostSplitDTO, error)

	ListMessages(ctx context.Context, poolID, actorID uuid.UUID, limit int) ([]ChatMessageDTO, error)
	PostMessage(ctx context.Context, poolID, actorID uuid.UUID, body string) (ChatMessageDTO, error)
	MarkMessagesRead(ctx context.Context, poolID, actorID uuid.UUID) error

	Invite(ctx context.Context, poolID, actorID uuid.UUID, email string, message *string) (InvitationDTO, error)
	RespondInvitation(ctx context.Context, invitationID, actorID uuid.UUID, accept bool) (InvitationDTO, error)
	MyInvitations(ctx context.Context, actorID uuid.UUID) ([]InvitationDTO, error)

	RecordPayment(ctx context.Context, poolID, actorID uuid.UUID, input RecordPaymentInput) (TransactionDTO, error)
	ListPayments(ctx context.Context, poolID, actorID uuid.UUID) ([]TransactionDTO, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	profileRepo *roommates.Repository
	scorer      roommates.Scorer
	pooling     config.PoolingConfig
}

// NewService builds a pools service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pools repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.Scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scorer is required")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		profileRepo: params.ProfileRepo,
		scorer:      params.Scorer,
		pooling:     params.Pooling,
	}, nil
}

// Create opens a pool and seeds the creator as its first approved member,
// all in one transaction.
func (s *service) Create(ctx context.Context, creatorID uuid.UUID, input CreatePoolInput) (PoolDTO, error) {
	if creatorID == uuid.Nil {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PropertyID == uuid.Nil {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	if !input.CheckOut.After(input.CheckIn) {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "check-out must be after check-in")
	}
	if input.MaxMembers < 2 {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "pool needs at least 2 spots")
	}
	if input.TotalPrice.LessThanOrEqual(decimal.Zero) {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "total price must be positive")
	}

	property, err := s.repo.FindProperty(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PoolDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "property not found")
		}
		return PoolDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if !property.AllowRoomPooling {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "this property does not allow room pooling")
	}
	if property.MaxPoolMembers > 0 && input.MaxMembers > property.MaxPoolMembers {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("this property allows at most %d members per pool", property.MaxPoolMembers))
	}

	pricePerPerson := EqualShare(input.TotalPrice, input.MaxMembers)
	feePerPerson := pricePerPerson.Mul(s.bookingFeeRate()).Round(2)
	share := pricePerPerson.Add(feePerPerson)

	visibility := input.Visibility
	if visibility == "" {
		visibility = enums.PoolVisibilityPublic
	}
	minScore := s.pooling.DefaultMinMatchScore
	if input.MinCompatibilityScore != nil {
		minScore = *input.MinCompatibilityScore
	}

	pool := &models.RoomPool{
		ID:                       uuid.New(),
		Title:                    input.Title,
		Description:              input.Description,
		PropertyID:               input.PropertyID,
		CreatorID:                creatorID,
		CheckIn:                  input.CheckIn,
		CheckOut:                 input.CheckOut,
		MaxMembers:               input.MaxMembers,
		CurrentMembers:           1,
		TotalPrice:               input.TotalPrice,
		PricePerPerson:           pricePerPerson,
		BookingFeePerPerson:      feePerPerson,
		Status:                   enums.PoolStatusOpen,
		Visibility:               visibility,
		GenderPreference:         input.GenderPreference,
		MinAge:                   input.MinAge,
		MaxAge:                   input.MaxAge,
		SmokingAllowed:           input.SmokingAllowed,
		PetsAllowed:              input.PetsAllowed,
		UseCompatibilityMatching: input.UseCompatibilityMatching,
		MinCompatibilityScore:    minScore,
		BookingDeadline:          input.BookingDeadline,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreatePool(ctx, pool); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pool")
		}

		now := time.Now()
		creatorMember := &models.RoomPoolMember{
			ID:                 uuid.New(),
			PoolID:             pool.ID,
			UserID:             creatorID,
			Status:             enums.PoolMemberStatusApproved,
			IsCreator:          true,
			CompatibilityScore: intPtr(100),
			ShareAmount:        share,
			ApprovedAt:         &now,
		}
		if err := repo.CreateMember(ctx, creatorMember); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create creator membership")
		}

		split := &models.CostSplit{
			ID:                uuid.New(),
			PoolID:            pool.ID,
			SplitType:         enums.SplitTypeEqual,
			BaseAccommodation: input.TotalPrice,
			TotalAmount:       input.TotalPrice.Add(feePerPerson.Mul(decimal.NewFromInt(int64(input.MaxMembers)))),
			IndividualAmounts: types.DecimalMap{creatorID.String(): share},
		}
		if err := repo.CreateCostSplit(ctx, split); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cost split")
		}
		return nil
	})
	if err != nil {
		return PoolDTO{}, err
	}

	dto := toPoolDTO(*pool)
	dto.IsCreator = true
	dto.IsMember = true
	return dto, nil
}

// Get returns a pool visible to the viewer. Private pools are only shown
// to the creator and to users holding a membership row.
func (s *service) Get(ctx context.Context, poolID, viewerID uuid.UUID) (PoolDTO, error) {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return PoolDTO{}, err
	}

	var membership *models.RoomPoolMember
	if viewerID != uuid.Nil {
		member, err := s.repo.FindMember(ctx, poolID, viewerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return PoolDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
		}
		membership = member
	}

	if pool.Visibility != enums.PoolVisibilityPublic && pool.CreatorID != viewerID && membership == nil {
		return PoolDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "pool not found")
	}

	memberRows, err := s.repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved, enums.PoolMemberStatusPending)
	if err != nil {
		return PoolDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load members")
	}

	dto := toPoolDTO(*pool)
	dto.Members = make([]MemberDTO, 0, len(memberRows))
	for _, member := range memberRows {
		dto.Members = append(dto.Members, toMemberDTO(member))
	}
	dto.IsCreator = pool.CreatorID == viewerID
	if membership != nil {
		memberDTO := toMemberDTO(*membership)
		dto.MyMembership = &memberDTO
		dto.IsMember = membership.Status == enums.PoolMemberStatusApproved
	}
	return dto, nil
}

// Discover lists open public pools, annotated with membership flags for
// authenticated viewers.
func (s *service) Discover(ctx context.Context, filters DiscoverFilters, viewerID uuid.UUID, limit int) ([]PoolDTO, error) {
	poolRows, err := s.repo.ListPublicPools(ctx, filters, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public pools")
	}

	memberPools := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil {
		ids, err := s.repo.MemberPoolIDs(ctx, viewerID, enums.PoolMemberStatusApproved, enums.PoolMemberStatusPending)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load memberships")
		}
		for _, id := range ids {
			memberPools[id] = true
		}
	}

	dtos := make([]PoolDTO, 0, len(poolRows))
	for _, pool := range poolRows {
		dto := toPoolDTO(pool)
		dto.IsMember = memberPools[pool.ID]
		dto.IsCreator = pool.CreatorID == viewerID
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// MyPools groups the caller's pools by relationship.
func (s *service) MyPools(ctx context.Context, userID uuid.UUID) (MyPoolsDTO, error) {
	if userID == uuid.Nil {
		return MyPoolsDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	created, err := s.repo.ListPoolsByCreator(ctx, userID)
	if err != nil {
		return MyPoolsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list created pools")
	}
	joined, err := s.repo.ListPoolsByMemberStatus(ctx, userID, enums.PoolMemberStatusApproved, true)
	if err != nil {
		return MyPoolsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list joined pools")
	}
	pending, err := s.repo.ListPoolsByMemberStatus(ctx, userID, enums.PoolMemberStatusPending, false)
	if err != nil {
		return MyPoolsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending pools")
	}

	result := MyPoolsDTO{
		Created: make([]PoolDTO, 0, len(created)),
		Joined:  make([]PoolDTO, 0, len(joined)),
		Pending: make([]PoolDTO, 0, len(pending)),
	}
	for _, pool := range created {
		dto := toPoolDTO(pool)
		dto.IsCreator = true
		dto.IsMember = true
		result.Created = append(result.Created, dto)
	}
	for _, pool := range joined {
		dto := toPoolDTO(pool)
		dto.IsMember = true
		result.Joined = append(result.Joined, dto)
	}
	for _, pool := range pending {
		result.Pending = append(result.Pending, toPoolDTO(pool))
	}
	return result, nil
}

// Join requests membership. Public pools without compatibility matching
// approve immediately; everything else waits on the creator.
func (s *service) Join(ctx context.Context, poolID, userID uuid.UUID, message *string) (JoinResult, error) {
	if userID == uuid.Nil {
		return JoinResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result JoinResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.loadPool(ctx, repo, poolID)
		if err != nil {
			return err
		}
		if pool.CreatorID == userID {
			return pkgerrors.New(pkgerrors.CodeValidation, "you are the creator of this pool")
		}
		if pool.CurrentMembers >= pool.MaxMembers {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this pool is full")
		}
		if pool.Status != enums.PoolStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this pool is not accepting new members")
		}

		existing, err := repo.FindMember(ctx, poolID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
		}
		if existing != nil {
			switch existing.Status {
			case enums.PoolMemberStatusPending:
				return pkgerrors.New(pkgerrors.CodeConflict, "you already have a pending request")
			case enums.PoolMemberStatusApproved:
				return pkgerrors.New(pkgerrors.CodeConflict, "you are already a member")
			}
		}

		score := 0
		if pool.UseCompatibilityMatching {
			var scored bool
			score, scored, err = s.scoreAgainstCreator(ctx, userID, pool)
			if err != nil {
				return err
			}
			// Without profiles on both sides there is nothing to gate on.
			if scored && score < pool.MinCompatibilityScore {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("your compatibility score (%d%%) is below the minimum required (%d%%)", score, pool.MinCompatibilityScore)).
					WithDetails(map[string]any{"compatibility_score": score})
			}
		}

		autoApprove := pool.Visibility == enums.PoolVisibilityPublic && !pool.UseCompatibilityMatching

		memberStatus := enums.PoolMemberStatusPending
		var approvedAt *time.Time
		if autoApprove {
			memberStatus = enums.PoolMemberStatusApproved
			now := time.Now()
			approvedAt = &now
		}

		share := pool.PricePerPerson.Add(pool.BookingFeePerPerson)
		var member *models.RoomPoolMember
		if existing != nil {
			// Rejected and departed rows are reused on re-join.
			existing.Status = memberStatus
			existing.CompatibilityScore = intPtr(score)
			existing.ShareAmount = share
			existing.RequestMessage = message
			existing.ApprovedAt = approvedAt
			if err := repo.SaveMember(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
			}
			member = existing
		} else {
			member = &models.RoomPoolMember{
				ID:                 uuid.New(),
				PoolID:             poolID,
				UserID:             userID,
				Status:             memberStatus,
				CompatibilityScore: intPtr(score),
				ShareAmount:        share,
				RequestMessage:     message,
				ApprovedAt:         approvedAt,
			}
			if err := repo.CreateMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
			}
		}

		if autoApprove {
			if err := s.admitMember(ctx, repo, pool); err != nil {
				return err
			}
		}

		verb := "requested to join"
		if autoApprove {
			verb = "joined"
		}
		if err := s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeJoin,
			fmt.Sprintf("%s %s the pool", s.displayName(ctx, repo, userID), verb),
			map[string]any{"user_id": userID.String(), "auto_approved": autoApprove}); err != nil {
			return err
		}

		note := "Your request has been submitted"
		if autoApprove {
			note = "You have joined the pool!"
		}
		result = JoinResult{
			Status:     member.Status,
			Message:    note,
			Membership: toMemberDTO(*member),
		}
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}
	return result, nil
}

// ApproveMember admits a pending member. Creator only.
func (s *service) ApproveMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) (MemberDTO, error) {
	var dto MemberDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can approve members")
		if err != nil {
			return err
		}

		member, err := s.findPendingMember(ctx, repo, poolID, memberID)
		if err != nil {
			return err
		}
		if pool.CurrentMembers >= pool.MaxMembers {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pool is already full")
		}

		now := time.Now()
		member.Status = enums.PoolMemberStatusApproved
		member.ApprovedAt = &now
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
		}

		if err := s.admitMember(ctx, repo, pool); err != nil {
			return err
		}

		if err := s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeSystem,
			fmt.Sprintf("%s has been approved to join the pool", s.displayName(ctx, repo, member.UserID)), nil); err != nil {
			return err
		}

		dto = toMemberDTO(*member)
		return nil
	})
	if err != nil {
		return MemberDTO{}, err
	}
	return dto, nil
}

// RejectMember declines a pending member. Creator only.
func (s *service) RejectMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can reject members"); err != nil {
			return err
		}
		member, err := s.findPendingMember(ctx, repo, poolID, memberID)
		if err != nil {
			return err
		}

		member.Status = enums.PoolMemberStatusRejected
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
		}
		return nil
	})
}

// Leave withdraws an approved membership. The creator cancels instead.
func (s *service) Leave(ctx context.Context, poolID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.loadPool(ctx, repo, poolID)
		if err != nil {
			return err
		}
		if pool.CreatorID == userID {
			return pkgerrors.New(pkgerrors.CodeValidation, "creator cannot leave the pool, cancel it instead")
		}

		member, err := repo.FindMember(ctx, poolID, userID)
		if err != nil || member.Status != enums.PoolMemberStatusApproved {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "you are not a member of this pool")
		}

		member.Status = enums.PoolMemberStatusLeft
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
		}

		if err := s.releaseMember(ctx, repo, pool); err != nil {
			return err
		}

		return s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeLeave,
			fmt.Sprintf("%s has left the pool", s.displayName(ctx, repo, userID)), nil)
	})
}

// RemoveMember evicts an approved member. Creator only.
func (s *service) RemoveMember(ctx context.Context, poolID, memberID, actorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can remove members")
		if err != nil {
			return err
		}

		member, err := repo.FindMemberByID(ctx, poolID, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
		}
		if member.IsCreator {
			return pkgerrors.New(pkgerrors.CodeValidation, "creator cannot be removed")
		}
		if member.Status != enums.PoolMemberStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only approved members can be removed")
		}

		member.Status = enums.PoolMemberStatusRemoved
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
		}

		if err := s.releaseMember(ctx, repo, pool); err != nil {
			return err
		}

		return s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeSystem,
			fmt.Sprintf("%s was removed from the pool", s.displayName(ctx, repo, member.UserID)), nil)
	})
}

// Cancel closes a pool that has not been booked. Creator only.
func (s *service) Cancel(ctx context.Context, poolID, actorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can cancel the pool")
		if err != nil {
			return err
		}
		if pool.Status == enums.PoolStatusBooked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "a booked pool cannot be cancelled")
		}

		pool.Status = enums.PoolStatusCancelled
		if err := repo.SavePool(ctx, pool); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pool")
		}
		return nil
	})
}

// Finalize books the pool. The member check, reservation insert, pool
// mutation and payment ledger all commit or roll back together.
func (s *service) Finalize(ctx context.Context, poolID, actorID uuid.UUID) (FinalizeResult, error) {
	var result FinalizeResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pool, err := s.requireCreator(ctx, repo, poolID, actorID, "only the pool creator can finalize the booking")
		if err != nil {
			return err
		}
		if pool.Status == enums.PoolStatusBooked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this pool is already booked")
		}
		if pool.ReservationID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "a reservation already exists for this pool")
		}

		approved, err := repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved members")
		}
		if len(approved) < 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, "pool needs at least 2 members to finalize booking")
		}

		bookingFee := pool.TotalPrice.Mul(s.bookingFeeRate()).Round(2)
		reservation := &models.Reservation{
			ID:           uuid.New(),
			PropertyID:   pool.PropertyID,
			GuestID:      pool.CreatorID,
			CheckIn:      pool.CheckIn,
			CheckOut:     pool.CheckOut,
			GuestsCount:  len(approved),
			TotalPrice:   pool.TotalPrice,
			BookingFee:   bookingFee,
			HostEarnings: pool.TotalPrice.Sub(bookingFee),
			Status:       enums.ReservationStatusPending,
		}
		if err := repo.CreateReservation(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
		}

		pool.ReservationID = &reservation.ID
		pool.Status = enums.PoolStatusBooked
		if err := repo.SavePool(ctx, pool); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pool")
		}

		if err := s.postSystemMessage(ctx, repo, pool.ID, enums.ChatMessageTypeSystem,
			"Pool booking finalized! Reservation created and pending host approval.",
			map[string]any{"reservation_id": reservation.ID.String()}); err != nil {
			return err
		}

		now := time.Now()
		method := "pool_booking"
		for _, member := range approved {
			if member.AmountPaid.LessThanOrEqual(decimal.Zero) {
				continue
			}
			notes := fmt.Sprintf("Payment for pool booking, reservation %s", reservation.ID)
			txn := &models.PaymentTransaction{
				ID:            uuid.New(),
				PoolID:        pool.ID,
				UserID:        member.UserID,
				Type:          enums.TransactionTypePayment,
				Status:        enums.TransactionStatusCompleted,
				Amount:        member.AmountPaid,
				PaymentMethod: &method,
				Notes:         &notes,
				CompletedAt:   &now,
			}
			if err := repo.CreateTransaction(ctx, txn); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record pool payment")
			}
		}

		result = FinalizeResult{
			ReservationID: reservation.ID,
			TotalPrice:    pool.TotalPrice,
			BookingFee:    bookingFee,
			MembersCount:  len(approved),
			Status:        reservation.Status,
		}
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}
	return result, nil
}

// BookingStatus reports payment readiness, or the linked reservation once
// the pool is booked.
func (s *service) BookingStatus(ctx context.Context, poolID, actorID uuid.UUID) (BookingStatusDTO, error) {
	pool, err := s.loadPool(ctx, s.repo, poolID)
	if err != nil {
		return BookingStatusDTO{}, err
	}
	if err := s.requireMembership(ctx, s.repo, pool, actorID); err != nil {
		return BookingStatusDTO{}, err
	}

	approved, err := s.repo.ListMembers(ctx, poolID, enums.PoolMemberStatusApproved)
	if err != nil {
		return BookingStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved members")
	}

	totalPaid := decimal.Zero
	totalDue := decimal.Zero
	for _, member := range approved {
		totalPaid = totalPaid.Add(member.AmountPaid)
		totalDue = totalDue.Add(member.ShareAmount)
	}

	var reservationStatus *enums.ReservationStatus
	if pool.ReservationID != nil {
		reservation, err := s.repo.FindReservation(ctx, *pool.ReservationID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if reservation != nil {
			reservationStatus = &reservation.Status
		}
	}

	status := BookingStatusDTO{
		HasReservation:    pool.ReservationID != nil,
		ReservationID:     pool.ReservationID,
		ReservationStatus: reservationStatus,
		CanFinalize:       pool.ReservationID == nil && len(approved) >= 2,
		MembersCount:      len(approved),
		TotalPaid:         totalPaid,
		TotalDue:          totalDue,
		PaymentComplete:   totalPaid.GreaterThanOrEqual(totalDue) && totalDue.GreaterThan(decimal.Zero),
		PoolStatus:        pool.Status,
	}
	return status, nil
}

func (s *service) bookingFeeRate() decimal.Decimal {
	percent := s.pooling.BookingFeePercent
	if percent <= 0 {
		percent = 10
	}
	return decimal.NewFromInt(int64(percent)).Div(oneHundred)
}

// admitMember bumps the approved counter after an admission, flips the
// pool to full at capacity, and rewrites the split.
func (s *service) admitMember(ctx context.Context, repo Repository, pool *models.RoomPool) error {
	pool.CurrentMembers++
	if pool.CurrentMembers >= pool.MaxMembers {
		pool.Status = enums.PoolStatusFull
	}
	if err := repo.SavePool(ctx, pool); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pool")
	}
	return s.recalculateSplit(ctx, repo, pool)
}

// releaseMember reverses admitMember when a member departs.
func (s *service) releaseMember(ctx context.Context, repo Repository, pool *models.RoomPool) error {
	pool.CurrentMembers--
	if pool.CurrentMembers < 0 {
		pool.CurrentMembers = 0
	}
	if pool.Status == enums.PoolStatusFull {
		pool.Status = enums.PoolStatusOpen
	}
	if err := repo.SavePool(ctx, pool); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pool")
	}
	return s.recalculateSplit(ctx, repo, pool)
}

// recalculateSplit rewrites the equal split and member shares for the
// current approved roster.
func (s *service) recalculateSplit(ctx context.Context, repo Repository, pool *models.RoomPool) error {
	split, err := repo.FindCostSplit(ctx, pool.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cost split")
		}
		split = &models.CostSplit{
			ID:                uuid.New(),
			PoolID:            pool.ID,
			SplitType:         enums.SplitTypeEqual,
			BaseAccommodation: pool.TotalPrice,
			TotalAmount:       pool.TotalPrice.Add(pool.BookingFeePerPerson.Mul(decimal.NewFromInt(int64(pool.MaxMembers)))),
		}
		if err := repo.CreateCostSplit(ctx, split); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cost split")
		}
	}

	approved, err := repo.ListMembers(ctx, pool.ID, enums.PoolMemberStatusApproved)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved members")
	}
	if len(approved) == 0 {
		return nil
	}

	perPerson := EqualShare(split.TotalAmount, len(approved))
	baseShare := EqualShare(pool.TotalPrice, len(approved))
	amounts := make(types.DecimalMap, len(approved))
	for i := range approved {
		member := &approved[i]
		amounts[member.UserID.String()] = perPerson
		member.ShareAmount = baseShare.Add(pool.BookingFeePerPerson)
		if err := repo.SaveMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member share")
		}
	}

	split.IndividualAmounts = amounts
	if err := repo.SaveCostSplit(ctx, split); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cost split")
	}
	return nil
}

// scoreAgainstCreator returns the joiner's compatibility with the pool
// creator. scored is false when either side has no profile yet.
func (s *service) scoreAgainstCreator(ctx context.Context, userID uuid.UUID, pool *models.RoomPool) (score int, scored bool, err error) {
	userProfile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roommate profile")
	}
	creatorProfile, err := s.profileRepo.FindByUser(ctx, pool.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load creator profile")
	}
	return s.scorer.Score(userProfile, creatorProfile).Score, true, nil
}

func (s *service) loadPool(ctx context.Context, repo Repository, poolID uuid.UUID) (*models.RoomPool, error) {
	if poolID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pool id is required")
	}
	pool, err := repo.FindPool(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "pool not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pool")
	}
	return pool, nil
}

func (s *service) requireCreator(ctx context.Context, repo Repository, poolID, actorID uuid.UUID, message string) (*models.RoomPool, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	pool, err := s.loadPool(ctx, repo, poolID)
	if err != nil {
		return nil, err
	}
	if pool.CreatorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, message)
	}
	return pool, nil
}

// requireMembership admits the creator and approved members.
func (s *service) requireMembership(ctx context.Context, repo Repository, pool *models.RoomPool, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if pool.CreatorID == actorID {
		return nil
	}
	member, err := repo.FindMember(ctx, pool.ID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "access restricted to pool members")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if member.Status != enums.PoolMemberStatusApproved {
		return pkgerrors.New(pkgerrors.CodeForbidden, "access restricted to pool members")
	}
	return nil
}

func (s *service) findPendingMember(ctx context.Context, repo Repository, poolID, memberID uuid.UUID) (*models.RoomPoolMember, error) {
	member, err := repo.FindMemberByID(ctx, poolID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	if member.Status != enums.PoolMemberStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}
	return member, nil
}

func (s *service) postSystemMessage(ctx context.Context, repo Repository, poolID uuid.UUID, messageType enums.ChatMessageType, body string, metadata map[string]any) error {
	message := &models.PoolChatMessage{
		ID:          uuid.New(),
		PoolID:      poolID,
		MessageType: messageType,
		Body:        body,
		Metadata:    metadata,
	}
	if err := repo.CreateChatMessage(ctx, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append chat message")
	}
	return nil
}

// displayName resolves a user's name for chat notices, falling back to a
// generic label if the lookup fails.
func (s *service) displayName(ctx context.Context, repo Repository, userID uuid.UUID) string {
	user, err := repo.FindUser(ctx, userID)
	if err != nil || user.Name == "" {
		return "A member"
	}
	return user.Name
}

func intPtr(v int) *int {
	return &v
}
