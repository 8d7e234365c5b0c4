package pools

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pools repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePool(ctx context.Context, pool *models.RoomPool) error {
	return r.db.WithContext(ctx).Create(pool).Error
}

func (r *repository) FindPool(ctx context.Context, id uuid.UUID) (*models.RoomPool, error) {
	var pool models.RoomPool
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *repository) SavePool(ctx context.Context, pool *models.RoomPool) error {
	return r.db.WithContext(ctx).Omit("Members").Save(pool).Error
}

func (r *repository) ListPublicPools(ctx context.Context, filters DiscoverFilters, limit int) ([]models.RoomPool, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Table("room_pools rp").
		Select("rp.*").
		Joins("JOIN properties p ON p.id = rp.property_id").
		Where("rp.visibility = ?", enums.PoolVisibilityPublic).
		Where("rp.status IN ?", []enums.PoolStatus{enums.PoolStatusOpen, enums.PoolStatusFull}).
		Where("rp.booking_deadline IS NULL OR rp.booking_deadline > ?", time.Now())

	if location := strings.TrimSpace(filters.Location); location != "" {
		pattern := "%" + strings.ToLower(location) + "%"
		query = query.Where("LOWER(p.country) LIKE ? OR LOWER(p.country_code) LIKE ? OR LOWER(p.location) LIKE ?", pattern, pattern, pattern)
	}
	if filters.CheckIn != nil {
		query = query.Where("rp.check_in >= ?", *filters.CheckIn)
	}
	if filters.CheckOut != nil {
		query = query.Where("rp.check_out <= ?", *filters.CheckOut)
	}
	if filters.MaxPricePerPerson != nil {
		query = query.Where("rp.price_per_person <= ?", *filters.MaxPricePerPerson)
	}
	if filters.PropertyID != nil {
		query = query.Where("rp.property_id = ?", *filters.PropertyID)
	}

	var poolRows []models.RoomPool
	err := query.
		Order("rp.created_at DESC").
		Limit(normalizedLimit).
		Find(&poolRows).Error
	return poolRows, err
}

func (r *repository) ListPoolsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.RoomPool, error) {
	var poolRows []models.RoomPool
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&poolRows).Error
	return poolRows, err
}

func (r *repository) ListPoolsByMemberStatus(ctx context.Context, userID uuid.UUID, status enums.PoolMemberStatus, excludeCreator bool) ([]models.RoomPool, error) {
	query := r.db.WithContext(ctx).
		Table("room_pools rp").
		Select("rp.*").
		Joins("JOIN room_pool_members m ON m.pool_id = rp.id").
		Where("m.user_id = ? AND m.status = ?", userID, status)
	if excludeCreator {
		query = query.Where("rp.creator_id <> ?", userID)
	}

	var poolRows []models.RoomPool
	err := query.Order("rp.created_at DESC").Find(&poolRows).Error
	return poolRows, err
}

func (r *repository) CreateMember(ctx context.Context, member *models.RoomPoolMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) SaveMember(ctx context.Context, member *models.RoomPoolMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) FindMember(ctx context.Context, poolID, userID uuid.UUID) (*models.RoomPoolMember, error) {
	var member models.RoomPoolMember
	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) FindMemberByID(ctx context.Context, poolID, memberID uuid.UUID) (*models.RoomPoolMember, error) {
	var member models.RoomPoolMember
	err := r.db.WithContext(ctx).
		Where("id = ? AND pool_id = ?", memberID, poolID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, poolID uuid.UUID, statuses ...enums.PoolMemberStatus) ([]models.RoomPoolMember, error) {
	query := r.db.WithContext(ctx).Where("pool_id = ?", poolID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var memberRows []models.RoomPoolMember
	err := query.Order("joined_at ASC").Find(&memberRows).Error
	return memberRows, err
}

func (r *repository) MemberPoolIDs(ctx context.Context, userID uuid.UUID, statuses ...enums.PoolMemberStatus) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&models.RoomPoolMember{}).
		Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var ids []uuid.UUID
	err := query.Pluck("pool_id", &ids).Error
	return ids, err
}

func (r *repository) FindCostSplit(ctx context.Context, poolID uuid.UUID) (*models.CostSplit, error) {
	var split models.CostSplit
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		First(&split).Error
	if err != nil {
		return nil, err
	}
	return &split, nil
}

func (r *repository) CreateCostSplit(ctx context.Context, split *models.CostSplit) error {
	return r.db.WithContext(ctx).Create(split).Error
}

func (r *repository) SaveCostSplit(ctx context.Context, split *models.CostSplit) error {
	return r.db.WithContext(ctx).Save(split).Error
}

func (r *repository) CreateChatMessage(ctx context.Context, message *models.PoolChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) ListChatMessages(ctx context.Context, poolID uuid.UUID, limit int) ([]models.PoolChatMessage, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)

	var messageRows []models.PoolChatMessage
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at DESC").
		Limit(normalizedLimit).
		Find(&messageRows).Error
	return messageRows, err
}

func (r *repository) ListUnreadChatMessages(ctx context.Context, poolID, userID uuid.UUID) ([]models.PoolChatMessage, error) {
	// Read-state lives in a jsonb set, so filtering happens in memory.
	var messageRows []models.PoolChatMessage
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at ASC").
		Find(&messageRows).Error
	if err != nil {
		return nil, err
	}

	unread := make([]models.PoolChatMessage, 0, len(messageRows))
	for _, message := range messageRows {
		if !message.IsReadBy.Contains(userID) {
			unread = append(unread, message)
		}
	}
	return unread, nil
}

func (r *repository) SaveChatMessage(ctx context.Context, message *models.PoolChatMessage) error {
	return r.db.WithContext(ctx).Save(message).Error
}

func (r *repository) CreateInvitation(ctx context.Context, invitation *models.PoolInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *repository) SaveInvitation(ctx context.Context, invitation *models.PoolInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

func (r *repository) FindInvitation(ctx context.Context, id uuid.UUID) (*models.PoolInvitation, error) {
	var invitation models.PoolInvitation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) HasPendingInvitation(ctx context.Context, poolID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PoolInvitation{}).
		Where("pool_id = ? AND invited_email = ? AND status = ?", poolID, email, enums.InvitationStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListInvitationsForUser(ctx context.Context, userID uuid.UUID, email string) ([]models.PoolInvitation, error) {
	var invitationRows []models.PoolInvitation
	err := r.db.WithContext(ctx).
		Where("invited_user_id = ? OR invited_by_id = ? OR invited_email = ?", userID, userID, email).
		Order("created_at DESC").
		Find(&invitationRows).Error
	return invitationRows, err
}

func (r *repository) ListStaleInvitations(ctx context.Context, before time.Time, limit int) ([]models.PoolInvitation, error) {
	var invitationRows []models.PoolInvitation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", enums.InvitationStatusPending, before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&invitationRows).Error
	return invitationRows, err
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, poolID uuid.UUID) ([]models.PaymentTransaction, error) {
	var txnRows []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at DESC").
		Find(&txnRows).Error
	return txnRows, err
}

func (r *repository) FindProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
