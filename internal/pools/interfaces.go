package pools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// Repository abstracts pool persistence so services can run against a
// transaction-scoped copy.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreatePool(ctx context.Context, pool *models.RoomPool) error
	FindPool(ctx context.Context, id uuid.UUID) (*models.RoomPool, error)
	SavePool(ctx context.Context, pool *models.RoomPool) error
	ListPublicPools(ctx context.Context, filters DiscoverFilters, limit int) ([]models.RoomPool, error)
	ListPoolsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.RoomPool, error)
	ListPoolsByMemberStatus(ctx context.Context, userID uuid.UUID, status enums.PoolMemberStatus, excludeCreator bool) ([]models.RoomPool, error)

	CreateMember(ctx context.Context, member *models.RoomPoolMember) error
	SaveMember(ctx context.Context, member *models.RoomPoolMember) error
	FindMember(ctx context.Context, poolID, userID uuid.UUID) (*models.RoomPoolMember, error)
	FindMemberByID(ctx context.Context, poolID, memberID uuid.UUID) (*models.RoomPoolMember, error)
	ListMembers(ctx context.Context, poolID uuid.UUID, statuses ...enums.PoolMemberStatus) ([]models.RoomPoolMember, error)
	MemberPoolIDs(ctx context.Context, userID uuid.UUID, statuses ...enums.PoolMemberStatus) ([]uuid.UUID, error)

	FindCostSplit(ctx context.Context, poolID uuid.UUID) (*models.CostSplit, error)
	CreateCostSplit(ctx context.Context, split *models.CostSplit) error
	SaveCostSplit(ctx context.Context, split *models.CostSplit) error

	CreateChatMessage(ctx context.Context, message *models.PoolChatMessage) error
	ListChatMessages(ctx context.Context, poolID uuid.UUID, limit int) ([]models.PoolChatMessage, error)
	ListUnreadChatMessages(ctx context.Context, poolID, userID uuid.UUID) ([]models.PoolChatMessage, error)
	SaveChatMessage(ctx context.Context, message *models.PoolChatMessage) error

	CreateInvitation(ctx context.Context, invitation *models.PoolInvitation) error
	SaveInvitation(ctx context.Context, invitation *models.PoolInvitation) error
	FindInvitation(ctx context.Context, id uuid.UUID) (*models.PoolInvitation, error)
	HasPendingInvitation(ctx context.Context, poolID uuid.UUID, email string) (bool, error)
	ListInvitationsForUser(ctx context.Context, userID uuid.UUID, email string) ([]models.PoolInvitation, error)
	ListStaleInvitations(ctx context.Context, before time.Time, limit int) ([]models.PoolInvitation, error)

	CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error
	ListTransactions(ctx context.Context, poolID uuid.UUID) ([]models.PaymentTransaction, error)

	FindProperty(ctx context.Context, id uuid.UUID) (*models.Property, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
