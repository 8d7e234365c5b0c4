package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

var bookingsTestDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  external_id TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  avatar_url TEXT,
  is_host INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_seen_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS properties (
  id TEXT PRIMARY KEY,
  host_id TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  country_code TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  price_per_night NUMERIC NOT NULL DEFAULT 0,
  bedrooms INTEGER NOT NULL DEFAULT 1,
  bathrooms INTEGER NOT NULL DEFAULT 1,
  guests INTEGER NOT NULL DEFAULT 1,
  amenities TEXT,
  allow_room_pooling INTEGER NOT NULL DEFAULT 0,
  max_pool_members INTEGER NOT NULL DEFAULT 6,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS reservations (
  id TEXT PRIMARY KEY,
  property_id TEXT NOT NULL,
  guest_id TEXT NOT NULL,
  check_in DATETIME,
  check_out DATETIME,
  guests_count INTEGER NOT NULL DEFAULT 1,
  total_price NUMERIC NOT NULL DEFAULT 0,
  booking_fee NUMERIC NOT NULL DEFAULT 0,
  host_earnings NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS host_earnings (
  id TEXT PRIMARY KEY,
  host_id TEXT NOT NULL,
  reservation_id TEXT NOT NULL UNIQUE,
  gross_amount NUMERIC NOT NULL DEFAULT 0,
  platform_fee NUMERIC NOT NULL DEFAULT 0,
  net_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS host_messages (
  id TEXT PRIMARY KEY,
  reservation_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS property_reviews (
  id TEXT PRIMARY KEY,
  property_id TEXT NOT NULL,
  reservation_id TEXT NOT NULL UNIQUE,
  guest_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS guest_reviews (
  id TEXT PRIMARY KEY,
  guest_id TEXT NOT NULL,
  host_id TEXT NOT NULL,
  reservation_id TEXT NOT NULL UNIQUE,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
}

var bookingsTestTables = []string{
	"users", "properties", "reservations", "host_earnings", "host_messages",
	"property_reviews", "guest_reviews",
}

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range bookingsTestDDL {
		require.NoError(t, db.Exec(ddl).Error)
	}
	for _, table := range bookingsTestTables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

type bookingsTxRunner struct {
	db *gorm.DB
}

func (r *bookingsTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestBookingsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupBookingsTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(db),
		Tx:      &bookingsTxRunner{db: db},
		Booking: config.BookingConfig{PlatformFeePercent: 10},
	})
	require.NoError(t, err)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:         uuid.New(),
		ExternalID: uuid.NewString(),
		Email:      fmt.Sprintf("%s@example.com", uuid.NewString()),
		Name:       name,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedProperty(t *testing.T, db *gorm.DB, hostID uuid.UUID, nightly int64) uuid.UUID {
	t.Helper()

	property := models.Property{
		ID:            uuid.New(),
		HostID:        hostID,
		Title:         "City flat",
		Location:      "Porto, Portugal",
		Category:      "city",
		PricePerNight: decimal.NewFromInt(nightly),
		IsActive:      true,
	}
	require.NoError(t, db.Create(&property).Error)
	return property.ID
}

func seedReservation(t *testing.T, db *gorm.DB, propertyID, guestID uuid.UUID, status enums.ReservationStatus, checkOut time.Time) uuid.UUID {
	t.Helper()

	reservation := models.Reservation{
		ID:           uuid.New(),
		PropertyID:   propertyID,
		GuestID:      guestID,
		CheckIn:      checkOut.AddDate(0, 0, -3),
		CheckOut:     checkOut,
		GuestsCount:  2,
		TotalPrice:   decimal.NewFromInt(300),
		BookingFee:   decimal.NewFromInt(30),
		HostEarnings: decimal.NewFromInt(270),
		Status:       status,
	}
	require.NoError(t, db.Create(&reservation).Error)
	return reservation.ID
}

func requireBookingErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected a coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestCreateReservationDerivesPriceFromNights(t *testing.T) {
	svc, db := newTestBookingsService(t)
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, seedUser(t, db, "Host"), 100)

	checkIn := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	dto, err := svc.CreateReservation(context.Background(), guestID, CreateReservationInput{
		PropertyID:  propertyID,
		CheckIn:     checkIn,
		CheckOut:    checkIn.AddDate(0, 0, 3),
		GuestsCount: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "300.00", dto.TotalPrice.StringFixed(2))
	assert.Equal(t, "30.00", dto.BookingFee.StringFixed(2))
	assert.Equal(t, "270.00", dto.HostEarnings.StringFixed(2))
	assert.Equal(t, enums.ReservationStatusPending, dto.Status)
}

func TestCreateReservationHonorsSuppliedPrice(t *testing.T) {
	svc, db := newTestBookingsService(t)
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, seedUser(t, db, "Host"), 100)

	price := decimal.NewFromInt(250)
	checkIn := time.Now().AddDate(0, 1, 0)
	dto, err := svc.CreateReservation(context.Background(), guestID, CreateReservationInput{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 2),
		TotalPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "250.00", dto.TotalPrice.StringFixed(2))
	assert.Equal(t, "25.00", dto.BookingFee.StringFixed(2))
}

func TestCreateReservationRejectsInvertedDates(t *testing.T) {
	svc, db := newTestBookingsService(t)
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, seedUser(t, db, "Host"), 100)

	checkIn := time.Now().AddDate(0, 1, 0)
	_, err := svc.CreateReservation(context.Background(), guestID, CreateReservationInput{
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, -1),
	})
	requireBookingErrCode(t, err, pkgerrors.CodeValidation)
}

func TestApproveReservationCutsEarningsOnce(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))

	dto, err := svc.UpdateReservationStatus(ctx, hostID, reservationID, enums.ReservationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, enums.ReservationStatusApproved, dto.Status)

	var earnings []models.HostEarning
	require.NoError(t, db.Where("host_id = ?", hostID).Find(&earnings).Error)
	require.Len(t, earnings, 1)
	assert.Equal(t, "300.00", earnings[0].GrossAmount.StringFixed(2))
	assert.Equal(t, "30.00", earnings[0].PlatformFee.StringFixed(2))
	assert.Equal(t, "270.00", earnings[0].NetAmount.StringFixed(2))

	// Re-approving must not mint a second payout record.
	_, err = svc.UpdateReservationStatus(ctx, hostID, reservationID, enums.ReservationStatusApproved)
	require.NoError(t, err)
	require.NoError(t, db.Where("host_id = ?", hostID).Find(&earnings).Error)
	assert.Len(t, earnings, 1)
}

func TestDeclineReservationSkipsEarnings(t *testing.T) {
	svc, db := newTestBookingsService(t)
	hostID := seedUser(t, db, "Host")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, seedUser(t, db, "Guest"), enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))

	dto, err := svc.UpdateReservationStatus(context.Background(), hostID, reservationID, enums.ReservationStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, enums.ReservationStatusDeclined, dto.Status)

	var count int64
	require.NoError(t, db.Model(&models.HostEarning{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateReservationStatusHostOnly(t *testing.T) {
	svc, db := newTestBookingsService(t)
	hostID := seedUser(t, db, "Host")
	strangerID := seedUser(t, db, "Stranger")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, seedUser(t, db, "Guest"), enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))

	_, err := svc.UpdateReservationStatus(context.Background(), strangerID, reservationID, enums.ReservationStatusApproved)
	requireBookingErrCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateReservationStatusRejectsOtherStatuses(t *testing.T) {
	svc, db := newTestBookingsService(t)
	hostID := seedUser(t, db, "Host")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, seedUser(t, db, "Guest"), enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))

	_, err := svc.UpdateReservationStatus(context.Background(), hostID, reservationID, enums.ReservationStatusCompleted)
	requireBookingErrCode(t, err, pkgerrors.CodeValidation)
}

func TestDashboardStatsAggregates(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)

	seedReservation(t, db, propertyID, guestID, enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))
	approved := seedReservation(t, db, propertyID, seedUser(t, db, "Other"), enums.ReservationStatusPending, time.Now().AddDate(0, 2, 0))
	_, err := svc.UpdateReservationStatus(ctx, hostID, approved, enums.ReservationStatusApproved)
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx, hostID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalProperties)
	assert.Equal(t, int64(2), stats.TotalReservations)
	assert.Equal(t, int64(1), stats.PendingRequests)
	assert.Equal(t, "270.00", stats.TotalEarnings.StringFixed(2))
	assert.Equal(t, "270.00", stats.ThisMonthEarnings.StringFixed(2))
	assert.Zero(t, stats.UnreadMessages)
}

func TestMessagingMarksReadOnList(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusApproved, time.Now().AddDate(0, 1, 0))

	_, err := svc.SendMessage(ctx, hostID, reservationID, "Welcome! Check-in is at 3pm.")
	require.NoError(t, err)

	stranger := seedUser(t, db, "Stranger")
	_, err = svc.SendMessage(ctx, stranger, reservationID, "hi")
	requireBookingErrCode(t, err, pkgerrors.CodeForbidden)

	var unread int64
	require.NoError(t, db.Model(&models.HostMessage{}).Where("is_read = ?", false).Count(&unread).Error)
	assert.Equal(t, int64(1), unread)

	messages, err := svc.ListMessages(ctx, guestID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	require.NoError(t, db.Model(&models.HostMessage{}).Where("is_read = ?", false).Count(&unread).Error)
	assert.Zero(t, unread)

	// The sender listing their own thread leaves nothing else to flip.
	_, err = svc.ListMessages(ctx, hostID, 50)
	require.NoError(t, err)
}

func TestSubmitPropertyReviewEligibility(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)

	upcoming := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusApproved, time.Now().AddDate(0, 1, 0))
	_, err := svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: upcoming,
		Rating:        5,
		Comment:       "Amazing stay, would come back.",
	})
	requireBookingErrCode(t, err, pkgerrors.CodeValidation)

	past := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusApproved, time.Now().AddDate(0, 0, -1))
	review, err := svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: past,
		Rating:        5,
		Comment:       "Amazing stay, would come back.",
	})
	require.NoError(t, err)
	assert.Equal(t, propertyID, review.PropertyID)

	_, err = svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: past,
		Rating:        4,
		Comment:       "Trying to review twice here.",
	})
	requireBookingErrCode(t, err, pkgerrors.CodeConflict)
}

func TestSubmitPropertyReviewModeration(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -5))

	_, err := svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
		Comment:       "Great place, contact me on whatsapp",
	})
	requireBookingErrCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
		Comment:       "ok stay",
	})
	requireBookingErrCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitPropertyReviewGuestOnly(t *testing.T) {
	svc, db := newTestBookingsService(t)
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -5))

	_, err := svc.SubmitPropertyReview(context.Background(), hostID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
		Comment:       "Reviewing my own property.",
	})
	requireBookingErrCode(t, err, pkgerrors.CodeForbidden)
}

func TestPropertyReviewsPagination(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	propertyID := seedProperty(t, db, hostID, 100)

	for i := 0; i < 3; i++ {
		guestID := seedUser(t, db, fmt.Sprintf("Guest%d", i))
		reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -2))
		_, err := svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
			ReservationID: reservationID,
			Rating:        4,
			Comment:       "Lovely spot near the river.",
		})
		require.NoError(t, err)
	}

	page, err := svc.PropertyReviews(ctx, propertyID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	assert.Len(t, page.Results, 2)

	page, err = svc.PropertyReviews(ctx, propertyID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
}

func TestSubmitGuestReviewHostOnly(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)
	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -2))

	_, err := svc.SubmitGuestReview(ctx, guestID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
	})
	requireBookingErrCode(t, err, pkgerrors.CodeForbidden)

	review, err := svc.SubmitGuestReview(ctx, hostID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
		Comment:       "Tidy and communicative guest.",
	})
	require.NoError(t, err)
	assert.Equal(t, guestID, review.GuestID)

	received, err := svc.GuestReviews(ctx, guestID, true)
	require.NoError(t, err)
	require.Len(t, received, 1)

	given, err := svc.GuestReviews(ctx, hostID, false)
	require.NoError(t, err)
	require.Len(t, given, 1)
}

func TestGuestReservationsFlagReviewed(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)

	reviewedID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -10))
	pendingID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusPending, time.Now().AddDate(0, 1, 0))

	_, err := svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: reviewedID,
		Rating:        5,
		Comment:       "Everything was as described.",
	})
	require.NoError(t, err)

	reservations, err := svc.GuestReservations(ctx, guestID, nil)
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	byID := make(map[uuid.UUID]ReservationDTO, len(reservations))
	for _, dto := range reservations {
		byID[dto.ID] = dto
	}
	assert.True(t, byID[reviewedID].HasReview)
	assert.False(t, byID[pendingID].HasReview)
}

func TestCanReviewPropertyProbe(t *testing.T) {
	svc, db := newTestBookingsService(t)
	ctx := context.Background()
	hostID := seedUser(t, db, "Host")
	guestID := seedUser(t, db, "Guest")
	propertyID := seedProperty(t, db, hostID, 100)

	probe, err := svc.CanReviewProperty(ctx, guestID, propertyID)
	require.NoError(t, err)
	assert.False(t, probe.CanReview)

	reservationID := seedReservation(t, db, propertyID, guestID, enums.ReservationStatusCompleted, time.Now().AddDate(0, 0, -2))

	probe, err = svc.CanReviewProperty(ctx, guestID, propertyID)
	require.NoError(t, err)
	assert.True(t, probe.CanReview)
	require.NotNil(t, probe.ReservationID)
	assert.Equal(t, reservationID, *probe.ReservationID)

	_, err = svc.SubmitPropertyReview(ctx, guestID, SubmitReviewInput{
		ReservationID: reservationID,
		Rating:        5,
		Comment:       "Spotless and quiet, highly recommend.",
	})
	require.NoError(t, err)

	probe, err = svc.CanReviewProperty(ctx, guestID, propertyID)
	require.NoError(t, err)
	assert.False(t, probe.CanReview)
}
