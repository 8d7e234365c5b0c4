package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed bookings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
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

func (r *repository) ListReservationsByGuest(ctx context.Context, guestID uuid.UUID, status *enums.ReservationStatus, limit int) ([]models.Reservation, error) {
	query := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var reservations []models.Reservation
	err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&reservations).Error
	return reservations, err
}

// hostReservationQuery scopes reservations to properties owned by the host.
func (r *repository) hostReservationQuery(ctx context.Context, hostID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Joins("JOIN properties ON properties.id = reservations.property_id").
		Where("properties.host_id = ?", hostID)
}

func (r *repository) ListReservationsByHost(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus, limit int) ([]models.Reservation, error) {
	query := r.hostReservationQuery(ctx, hostID)
	if status != nil {
		query = query.Where("reservations.status = ?", *status)
	}

	var reservations []models.Reservation
	err := query.
		Order("reservations.created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&reservations).Error
	return reservations, err
}

func (r *repository) CountReservationsByHost(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus) (int64, error) {
	query := r.hostReservationQuery(ctx, hostID)
	if status != nil {
		query = query.Where("reservations.status = ?", *status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) FindEligibleReviewReservation(ctx context.Context, guestID, propertyID uuid.UUID, cutoff time.Time) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("guest_id = ? AND property_id = ?", guestID, propertyID).
		Where("status = ? OR (status = ? AND check_out <= ?)",
			enums.ReservationStatusCompleted, enums.ReservationStatusApproved, cutoff).
		Where("id NOT IN (?)", r.db.Model(&models.PropertyReview{}).Select("reservation_id")).
		Order("created_at DESC").
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
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

func (r *repository) CountPropertiesByHost(ctx context.Context, hostID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("host_id = ?", hostID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateHostEarning(ctx context.Context, earning *models.HostEarning) error {
	return r.db.WithContext(ctx).Create(earning).Error
}

func (r *repository) HasHostEarning(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HostEarning{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListHostEarnings(ctx context.Context, hostID uuid.UUID, from, to *time.Time) ([]models.HostEarning, error) {
	query := r.db.WithContext(ctx).
		Where("host_id = ?", hostID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var earnings []models.HostEarning
	err := query.
		Order("created_at DESC").
		Find(&earnings).Error
	return earnings, err
}

func (r *repository) SumHostEarnings(ctx context.Context, hostID uuid.UUID, since *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.HostEarning{}).
		Where("host_id = ?", hostID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var total decimal.NullDecimal
	err := query.
		Select("SUM(net_amount)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *repository) CreateHostMessage(ctx context.Context, message *models.HostMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) ListHostMessages(ctx context.Context, userID uuid.UUID, limit int) ([]models.HostMessage, error) {
	var messageRows []models.HostMessage
	err := r.db.WithContext(ctx).
		Joins("JOIN reservations ON reservations.id = host_messages.reservation_id").
		Joins("JOIN properties ON properties.id = reservations.property_id").
		Where("host_messages.sender_id = ? OR reservations.guest_id = ? OR properties.host_id = ?", userID, userID, userID).
		Order("host_messages.created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&messageRows).Error
	return messageRows, err
}

func (r *repository) MarkHostMessagesRead(ctx context.Context, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.HostMessage{}).
		Where("is_read = ? AND sender_id <> ?", false, receiverID).
		Where("reservation_id IN (?)", r.receivedThreadIDs(receiverID)).
		Update("is_read", true).Error
}

// receivedThreadIDs selects reservations where the user participates as
// guest or host, so their incoming messages can be flipped to read.
func (r *repository) receivedThreadIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.Reservation{}).
		Select("reservations.id").
		Joins("JOIN properties ON properties.id = reservations.property_id").
		Where("reservations.guest_id = ? OR properties.host_id = ?", userID, userID)
}

func (r *repository) CountUnreadHostMessages(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HostMessage{}).
		Where("is_read = ? AND sender_id <> ?", false, receiverID).
		Where("reservation_id IN (?)", r.receivedThreadIDs(receiverID)).
		Count(&count).Error
	return count, err
}

func (r *repository) CreatePropertyReview(ctx context.Context, review *models.PropertyReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) HasPropertyReview(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListPropertyReviews(ctx context.Context, propertyID uuid.UUID, offset, limit int) ([]models.PropertyReview, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Where("property_id = ?", propertyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.PropertyReview
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pagination.NormalizeLimit(limit)).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *repository) ListPropertyReviewsByHost(ctx context.Context, hostID uuid.UUID, offset, limit int) ([]models.PropertyReview, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Joins("JOIN properties ON properties.id = property_reviews.property_id").
		Where("properties.host_id = ?", hostID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.PropertyReview
	err := query.
		Order("property_reviews.created_at DESC").
		Offset(offset).
		Limit(pagination.NormalizeLimit(limit)).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *repository) AveragePropertyRatingForHost(ctx context.Context, hostID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Joins("JOIN properties ON properties.id = property_reviews.property_id").
		Where("properties.host_id = ?", hostID).
		Select("AVG(property_reviews.rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *repository) ReviewedReservationIDs(ctx context.Context, guestID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Where("guest_id = ?", guestID).
		Pluck("reservation_id", &ids).Error
	if err != nil {
		return nil, err
	}

	reviewed := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		reviewed[id] = true
	}
	return reviewed, nil
}

func (r *repository) CreateGuestReview(ctx context.Context, review *models.GuestReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) HasGuestReview(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GuestReview{}).
		Where("reservation_id = ?", reservationID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListGuestReviewsGiven(ctx context.Context, hostID uuid.UUID) ([]models.GuestReview, error) {
	var reviews []models.GuestReview
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *repository) ListGuestReviewsReceived(ctx context.Context, guestID uuid.UUID) ([]models.GuestReview, error) {
	var reviews []models.GuestReview
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
