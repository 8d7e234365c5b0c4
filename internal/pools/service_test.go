package pools

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

	"github.com/flexbnb/flexbnb-backend/internal/roommates"
	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

var poolsTestDDL = []string{
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
	`CREATE TABLE IF NOT EXISTS room_pools (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  property_id TEXT NOT NULL,
  creator_id TEXT NOT NULL,
  check_in DATETIME,
  check_out DATETIME,
  max_members INTEGER NOT NULL DEFAULT 2,
  current_members INTEGER NOT NULL DEFAULT 1,
  total_price NUMERIC NOT NULL DEFAULT 0,
  price_per_person NUMERIC NOT NULL DEFAULT 0,
  booking_fee_per_person NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'open',
  visibility TEXT NOT NULL DEFAULT 'public',
  gender_preference TEXT,
  min_age INTEGER,
  max_age INTEGER,
  smoking_allowed INTEGER NOT NULL DEFAULT 0,
  pets_allowed INTEGER NOT NULL DEFAULT 0,
  use_compatibility_matching INTEGER NOT NULL DEFAULT 0,
  min_compatibility_score INTEGER NOT NULL DEFAULT 50,
  reservation_id TEXT,
  booking_deadline DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS room_pool_members (
  id TEXT PRIMARY KEY,
  pool_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  is_creator INTEGER NOT NULL DEFAULT 0,
  compatibility_score INTEGER,
  share_amount NUMERIC NOT NULL DEFAULT 0,
  amount_paid NUMERIC NOT NULL DEFAULT 0,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_due_date DATETIME,
  custom_split_percentage NUMERIC,
  request_message TEXT,
  joined_at DATETIME,
  approved_at DATETIME,
  updated_at DATETIME,
  UNIQUE(pool_id, user_id)
);`,
	`CREATE TABLE IF NOT EXISTS cost_splits (
  id TEXT PRIMARY KEY,
  pool_id TEXT NOT NULL UNIQUE,
  split_type TEXT NOT NULL DEFAULT 'equal',
  base_accommodation NUMERIC NOT NULL DEFAULT 0,
  cleaning_fee NUMERIC NOT NULL DEFAULT 0,
  service_fee NUMERIC NOT NULL DEFAULT 0,
  taxes NUMERIC NOT NULL DEFAULT 0,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  custom_percentages TEXT,
  individual_amounts TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS pool_chat_messages (
  id TEXT PRIMARY KEY,
  pool_id TEXT NOT NULL,
  sender_id TEXT,
  message_type TEXT NOT NULL DEFAULT 'text',
  body TEXT NOT NULL DEFAULT '',
  metadata TEXT,
  is_read_by TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS pool_invitations (
  id TEXT PRIMARY KEY,
  pool_id TEXT NOT NULL,
  invited_user_id TEXT,
  invited_email TEXT NOT NULL,
  invited_by_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  message TEXT,
  expires_at DATETIME,
  responded_at DATETIME,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS payment_transactions (
  id TEXT PRIMARY KEY,
  pool_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'payment',
  status TEXT NOT NULL DEFAULT 'pending',
  amount NUMERIC NOT NULL DEFAULT 0,
  payment_method TEXT,
  transaction_ref TEXT,
  notes TEXT,
  completed_at DATETIME,
  created_at DATETIME
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
	`CREATE TABLE IF NOT EXISTS roommate_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  gender TEXT NOT NULL DEFAULT 'other',
  preferred_gender TEXT NOT NULL DEFAULT 'any',
  age_group TEXT NOT NULL DEFAULT '18_25',
  sleep_schedule TEXT NOT NULL DEFAULT 'flexible',
  cleanliness TEXT NOT NULL DEFAULT 'moderate',
  noise_preference TEXT NOT NULL DEFAULT 'moderate',
  smoking_preference TEXT NOT NULL DEFAULT 'no_preference',
  interests TEXT,
  languages TEXT,
  occupation TEXT,
  bio TEXT,
  has_pets INTEGER NOT NULL DEFAULT 0,
  is_verified INTEGER NOT NULL DEFAULT 0,
  is_looking_for_roommate INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
}

var poolsTestTables = []string{
	"users", "properties", "room_pools", "room_pool_members", "cost_splits",
	"pool_chat_messages", "pool_invitations", "payment_transactions",
	"reservations", "roommate_profiles",
}

func setupPoolsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range poolsTestDDL {
		require.NoError(t, db.Exec(ddl).Error)
	}
	for _, table := range poolsTestTables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r *sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestPoolsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupPoolsTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		Tx:          &sqliteTxRunner{db: db},
		ProfileRepo: roommates.NewRepository(db),
		Scorer:      roommates.NewScorer(),
		Pooling: config.PoolingConfig{
			BookingFeePercent:    10,
			DefaultMinMatchScore: 50,
			InvitationTTL:        7 * 24 * time.Hour,
			RoommateMatchCutoff:  40,
			RoommateMatchLimit:   20,
		},
	})
	require.NoError(t, err)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
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

func createTestProperty(t *testing.T, db *gorm.DB, hostID uuid.UUID, maxPool int) uuid.UUID {
	t.Helper()

	property := models.Property{
		ID:               uuid.New(),
		HostID:           hostID,
		Title:            "Beach house",
		Location:         "Lisbon, Portugal",
		Country:          "Portugal",
		CountryCode:      "PT",
		Category:         "beach",
		PricePerNight:    decimal.NewFromInt(100),
		AllowRoomPooling: true,
		MaxPoolMembers:   maxPool,
		IsActive:         true,
	}
	require.NoError(t, db.Create(&property).Error)
	return property.ID
}

func createTestPool(t *testing.T, svc Service, db *gorm.DB, creatorID uuid.UUID, mutate func(*CreatePoolInput)) PoolDTO {
	t.Helper()

	propertyID := createTestProperty(t, db, createTestUser(t, db, "Host"), 6)
	input := CreatePoolInput{
		Title:      "Summer trip",
		PropertyID: propertyID,
		CheckIn:    time.Now().AddDate(0, 1, 0),
		CheckOut:   time.Now().AddDate(0, 1, 4),
		MaxMembers: 4,
		TotalPrice: decimal.NewFromInt(400),
		Visibility: enums.PoolVisibilityPublic,
	}
	if mutate != nil {
		mutate(&input)
	}
	pool, err := svc.Create(context.Background(), creatorID, input)
	require.NoError(t, err)
	return pool
}

func assertErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected a coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestCreatePoolSeedsCreatorMembershipAndSplit(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")

	pool := createTestPool(t, svc, db, creatorID, nil)

	assert.Equal(t, "100.00", pool.PricePerPerson.StringFixed(2))
	assert.Equal(t, "10.00", pool.BookingFeePerPerson.StringFixed(2))
	assert.Equal(t, 1, pool.CurrentMembers)
	assert.Equal(t, enums.PoolStatusOpen, pool.Status)
	assert.True(t, pool.IsCreator)

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	creator := detail.Members[0]
	assert.True(t, creator.IsCreator)
	assert.Equal(t, enums.PoolMemberStatusApproved, creator.Status)
	assert.Equal(t, "110.00", creator.ShareAmount.StringFixed(2))
	require.NotNil(t, creator.CompatibilityScore)
	assert.Equal(t, 100, *creator.CompatibilityScore)

	split, err := svc.GetCostSplit(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, "400.00", split.BaseAccommodation.StringFixed(2))
	assert.Equal(t, "440.00", split.TotalAmount.StringFixed(2))
	assert.Equal(t, "110.00", split.IndividualAmounts[creatorID.String()].StringFixed(2))
}

func TestCreatePoolRejectsPropertyWithoutPooling(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")

	property := models.Property{
		ID:            uuid.New(),
		HostID:        createTestUser(t, db, "Host"),
		Title:         "No pooling here",
		PricePerNight: decimal.NewFromInt(50),
	}
	require.NoError(t, db.Create(&property).Error)

	_, err := svc.Create(context.Background(), creatorID, CreatePoolInput{
		Title:      "Nope",
		PropertyID: property.ID,
		CheckIn:    time.Now().AddDate(0, 1, 0),
		CheckOut:   time.Now().AddDate(0, 1, 2),
		MaxMembers: 3,
		TotalPrice: decimal.NewFromInt(300),
	})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestCreatePoolEnforcesPropertyMemberCap(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	propertyID := createTestProperty(t, db, createTestUser(t, db, "Host"), 3)

	_, err := svc.Create(context.Background(), creatorID, CreatePoolInput{
		Title:      "Too big",
		PropertyID: propertyID,
		CheckIn:    time.Now().AddDate(0, 1, 0),
		CheckOut:   time.Now().AddDate(0, 1, 2),
		MaxMembers: 5,
		TotalPrice: decimal.NewFromInt(500),
	})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestJoinCreatorAlwaysRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.Join(context.Background(), pool.ID, creatorID, nil)
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestJoinAutoApprovesPublicNonMatchingPool(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, nil)

	result, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolMemberStatusApproved, result.Status)

	detail, err := svc.Get(ctx, pool.ID, joinerID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.CurrentMembers)
	assert.True(t, detail.IsMember)

	// Equal split over two approved members: 400/2 base plus the fee.
	require.NotNil(t, detail.MyMembership)
	assert.Equal(t, "210.00", detail.MyMembership.ShareAmount.StringFixed(2))

	split, err := svc.GetCostSplit(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, "220.00", split.IndividualAmounts[joinerID.String()].StringFixed(2))

	messages, err := svc.ListMessages(ctx, pool.ID, creatorID, 50)
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, enums.ChatMessageTypeJoin, last.MessageType)
	assert.Equal(t, true, last.Metadata["auto_approved"])
}

func TestJoinPrivatePoolStaysPending(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	result, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolMemberStatusPending, result.Status)

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CurrentMembers)
}

func TestJoinDuplicatePendingRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	_, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	_, err = svc.Join(ctx, pool.ID, joinerID, nil)
	assertErrorCode(t, err, pkgerrors.CodeConflict)
}

func TestJoinCompatibilityBelowMinimumRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")

	profiles := roommates.NewRepository(db)
	creatorProfile, err := profiles.GetOrCreateByUser(ctx, creatorID)
	require.NoError(t, err)
	creatorProfile.SleepSchedule = enums.SleepScheduleEarlyBird
	creatorProfile.Cleanliness = enums.CleanlinessVeryClean
	creatorProfile.SmokingPreference = enums.SmokingPreferenceNonSmoker
	creatorProfile.NoisePreference = enums.NoisePreferenceQuiet
	require.NoError(t, profiles.Save(ctx, &creatorProfile))

	joinerProfile, err := profiles.GetOrCreateByUser(ctx, joinerID)
	require.NoError(t, err)
	joinerProfile.SleepSchedule = enums.SleepScheduleNightOwl
	joinerProfile.Cleanliness = enums.CleanlinessRelaxed
	joinerProfile.SmokingPreference = enums.SmokingPreferenceSmoker
	joinerProfile.NoisePreference = enums.NoisePreferenceLively
	joinerProfile.Interests = nil
	require.NoError(t, profiles.Save(ctx, &joinerProfile))

	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.UseCompatibilityMatching = true
	})

	_, err = svc.Join(ctx, pool.ID, joinerID, nil)
	assertErrorCode(t, err, pkgerrors.CodeValidation)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "compatibility_score")
}

func TestJoinWithoutProfilesSkipsCompatibilityGate(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")

	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.UseCompatibilityMatching = true
	})

	result, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolMemberStatusPending, result.Status)
	require.NotNil(t, result.Membership.CompatibilityScore)
	assert.Equal(t, 0, *result.Membership.CompatibilityScore)
}

func TestJoinFullPoolRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, createTestUser(t, db, "Bob"), nil)
	require.NoError(t, err)

	_, err = svc.Join(ctx, pool.ID, createTestUser(t, db, "Carol"), nil)
	assertErrorCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApproveMemberUpdatesCountersAndStatus(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	joined, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	member, err := svc.ApproveMember(ctx, pool.ID, joined.Membership.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolMemberStatusApproved, member.Status)
	require.NotNil(t, member.ApprovedAt)

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.CurrentMembers)
	assert.Equal(t, enums.PoolStatusFull, detail.Status)
}

func TestApproveMemberCreatorOnly(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	joined, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	_, err = svc.ApproveMember(ctx, pool.ID, joined.Membership.ID, joinerID)
	assertErrorCode(t, err, pkgerrors.CodeForbidden)
}

func TestLeaveReopensFullPool(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolStatusFull, detail.Status)

	require.NoError(t, svc.Leave(ctx, pool.ID, joinerID))

	detail, err = svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolStatusOpen, detail.Status)
	assert.Equal(t, 1, detail.CurrentMembers)
}

func TestLeaveCreatorRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	err := svc.Leave(context.Background(), pool.ID, creatorID)
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestRemoveMemberCreatorOnly(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, nil)

	joined, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	err = svc.RemoveMember(ctx, pool.ID, joined.Membership.ID, joinerID)
	assertErrorCode(t, err, pkgerrors.CodeForbidden)

	require.NoError(t, svc.RemoveMember(ctx, pool.ID, joined.Membership.ID, creatorID))

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CurrentMembers)
}

func TestCancelBookedPoolRejected(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, createTestUser(t, db, "Bob"), nil)
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, pool.ID, creatorID)
	require.NoError(t, err)

	err = svc.Cancel(ctx, pool.ID, creatorID)
	assertErrorCode(t, err, pkgerrors.CodeStateConflict)
}

func TestFinalizeRequiresTwoApprovedMembers(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.Finalize(context.Background(), pool.ID, creatorID)
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestFinalizeEndToEnd(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	pool := createTestPool(t, svc, db, creatorID, nil)

	memberIDs := []uuid.UUID{
		createTestUser(t, db, "Bob"),
		createTestUser(t, db, "Carol"),
		createTestUser(t, db, "Dave"),
	}
	for _, id := range memberIDs {
		_, err := svc.Join(ctx, pool.ID, id, nil)
		require.NoError(t, err)
	}

	detail, err := svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 4, detail.CurrentMembers)
	assert.Equal(t, enums.PoolStatusFull, detail.Status)

	// Everyone settles their 110.00 share before booking.
	_, err = svc.RecordPayment(ctx, pool.ID, creatorID, RecordPaymentInput{Amount: decimal.NewFromInt(110)})
	require.NoError(t, err)
	for _, id := range memberIDs {
		_, err = svc.RecordPayment(ctx, pool.ID, id, RecordPaymentInput{Amount: decimal.NewFromInt(110)})
		require.NoError(t, err)
	}

	status, err := svc.BookingStatus(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.True(t, status.CanFinalize)
	assert.True(t, status.PaymentComplete)
	assert.Equal(t, "440.00", status.TotalPaid.StringFixed(2))

	result, err := svc.Finalize(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.MembersCount)
	assert.Equal(t, "400.00", result.TotalPrice.StringFixed(2))
	assert.Equal(t, "40.00", result.BookingFee.StringFixed(2))
	assert.Equal(t, enums.ReservationStatusPending, result.Status)

	var reservation models.Reservation
	require.NoError(t, db.First(&reservation, "id = ?", result.ReservationID).Error)
	assert.Equal(t, creatorID, reservation.GuestID)
	assert.Equal(t, 4, reservation.GuestsCount)
	assert.Equal(t, "360.00", reservation.HostEarnings.StringFixed(2))

	detail, err = svc.Get(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, enums.PoolStatusBooked, detail.Status)
	require.NotNil(t, detail.ReservationID)
	assert.Equal(t, result.ReservationID, *detail.ReservationID)

	status, err = svc.BookingStatus(ctx, pool.ID, creatorID)
	require.NoError(t, err)
	assert.False(t, status.CanFinalize)
	assert.True(t, status.HasReservation)
	require.NotNil(t, status.ReservationStatus)
	assert.Equal(t, enums.ReservationStatusPending, *status.ReservationStatus)

	// A second attempt must not mint another reservation.
	_, err = svc.Finalize(ctx, pool.ID, creatorID)
	assertErrorCode(t, err, pkgerrors.CodeStateConflict)
}

func TestConfigureCostSplitCustom(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	split, err := svc.ConfigureCostSplit(ctx, pool.ID, creatorID, ConfigureSplitInput{
		SplitType: enums.SplitTypeCustom,
		CustomPercentages: map[string]decimal.Decimal{
			creatorID.String(): decimal.NewFromInt(60),
			joinerID.String():  decimal.NewFromInt(40),
		},
	})
	require.NoError(t, err)

	// 60/40 of the 220.00 total, fees included.
	assert.Equal(t, "132.00", split.IndividualAmounts[creatorID.String()].StringFixed(2))
	assert.Equal(t, "88.00", split.IndividualAmounts[joinerID.String()].StringFixed(2))

	detail, err := svc.Get(ctx, pool.ID, joinerID)
	require.NoError(t, err)
	require.NotNil(t, detail.MyMembership)
	assert.Equal(t, "88.00", detail.MyMembership.ShareAmount.StringFixed(2))
}

func TestConfigureCostSplitBackToEqual(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	creatorID := createTestUser(t, db, "Alice")
	joinerID := createTestUser(t, db, "Bob")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.MaxMembers = 2
		input.TotalPrice = decimal.NewFromInt(200)
	})

	_, err := svc.Join(ctx, pool.ID, joinerID, nil)
	require.NoError(t, err)

	_, err = svc.ConfigureCostSplit(ctx, pool.ID, creatorID, ConfigureSplitInput{
		SplitType: enums.SplitTypeCustom,
		CustomPercentages: map[string]decimal.Decimal{
			creatorID.String(): decimal.NewFromInt(70),
			joinerID.String():  decimal.NewFromInt(30),
		},
	})
	require.NoError(t, err)

	split, err := svc.ConfigureCostSplit(ctx, pool.ID, creatorID, ConfigureSplitInput{
		SplitType: enums.SplitTypeEqual,
	})
	require.NoError(t, err)
	assert.Equal(t, "110.00", split.IndividualAmounts[creatorID.String()].StringFixed(2))
	assert.Equal(t, "110.00", split.IndividualAmounts[joinerID.String()].StringFixed(2))
}

func TestGetCostSplitRequiresMembership(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	outsiderID := createTestUser(t, db, "Mallory")
	pool := createTestPool(t, svc, db, creatorID, nil)

	_, err := svc.GetCostSplit(context.Background(), pool.ID, outsiderID)
	assertErrorCode(t, err, pkgerrors.CodeForbidden)
}

func TestMyPoolsGroupsByRelationship(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	aliceID := createTestUser(t, db, "Alice")
	bobID := createTestUser(t, db, "Bob")

	created := createTestPool(t, svc, db, aliceID, nil)
	joined := createTestPool(t, svc, db, bobID, nil)
	pendingIn := createTestPool(t, svc, db, bobID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	_, err := svc.Join(ctx, joined.ID, aliceID, nil)
	require.NoError(t, err)
	_, err = svc.Join(ctx, pendingIn.ID, aliceID, nil)
	require.NoError(t, err)

	mine, err := svc.MyPools(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, mine.Created, 1)
	assert.Equal(t, created.ID, mine.Created[0].ID)
	require.Len(t, mine.Joined, 1)
	assert.Equal(t, joined.ID, mine.Joined[0].ID)
	require.Len(t, mine.Pending, 1)
	assert.Equal(t, pendingIn.ID, mine.Pending[0].ID)
}

func TestDiscoverFiltersAndAnnotates(t *testing.T) {
	svc, db := newTestPoolsService(t)
	ctx := context.Background()
	aliceID := createTestUser(t, db, "Alice")
	bobID := createTestUser(t, db, "Bob")

	visible := createTestPool(t, svc, db, aliceID, nil)
	createTestPool(t, svc, db, aliceID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	pools, err := svc.Discover(ctx, DiscoverFilters{}, bobID, 20)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, visible.ID, pools[0].ID)
	assert.False(t, pools[0].IsMember)

	_, err = svc.Join(ctx, visible.ID, bobID, nil)
	require.NoError(t, err)

	pools, err = svc.Discover(ctx, DiscoverFilters{Location: "portugal"}, bobID, 20)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.True(t, pools[0].IsMember)

	pools, err = svc.Discover(ctx, DiscoverFilters{Location: "iceland"}, bobID, 20)
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestGetPrivatePoolHiddenFromOutsiders(t *testing.T) {
	svc, db := newTestPoolsService(t)
	creatorID := createTestUser(t, db, "Alice")
	outsiderID := createTestUser(t, db, "Mallory")
	pool := createTestPool(t, svc, db, creatorID, func(input *CreatePoolInput) {
		input.Visibility = enums.PoolVisibilityPrivate
	})

	_, err := svc.Get(context.Background(), pool.ID, outsiderID)
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}
