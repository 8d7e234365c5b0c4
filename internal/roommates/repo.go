package roommates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// Repository encapsulates roommate profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roommate repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser loads the profile owned by a user.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (models.RoommateProfile, error) {
	var profile models.RoommateProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).
		Error
	return profile, err
}

// GetOrCreateByUser returns the user's profile, creating a default one on
// first access.
func (r *Repository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (models.RoommateProfile, error) {
	if userID == uuid.Nil {
		return models.RoommateProfile{}, gorm.ErrInvalidValue
	}

	var profile models.RoommateProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(models.RoommateProfile{
			ID:                   uuid.New(),
			UserID:               userID,
			Gender:               enums.GenderOther,
			PreferredGender:      enums.PreferredGenderAny,
			AgeGroup:             enums.AgeGroup18To25,
			SleepSchedule:        enums.SleepScheduleFlexible,
			Cleanliness:          enums.CleanlinessModerate,
			NoisePreference:      enums.NoisePreferenceModerate,
			SmokingPreference:    enums.SmokingPreferenceNoPreference,
			IsLookingForRoommate: true,
		}).
		FirstOrCreate(&profile).
		Error
	return profile, err
}

// Save persists profile mutations.
func (r *Repository) Save(ctx context.Context, profile *models.RoommateProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// ListCandidates returns every profile currently looking for a roommate,
// excluding the caller's own.
func (r *Repository) ListCandidates(ctx context.Context, excludeUserID uuid.UUID) ([]models.RoommateProfile, error) {
	var profiles []models.RoommateProfile
	err := r.db.WithContext(ctx).
		Where("is_looking_for_roommate = ?", true).
		Where("user_id <> ?", excludeUserID).
		Order("updated_at DESC").
		Find(&profiles).
		Error
	return profiles, err
}
