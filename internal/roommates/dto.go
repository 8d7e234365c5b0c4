package roommates

import (
	"time"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// ProfileDTO is the outward shape of a roommate profile.
type ProfileDTO struct {
	ID                   uuid.UUID               `json:"id"`
	UserID               uuid.UUID               `json:"user_id"`
	Gender               enums.Gender            `json:"gender"`
	PreferredGender      enums.PreferredGender   `json:"preferred_gender"`
	AgeGroup             enums.AgeGroup          `json:"age_group"`
	SleepSchedule        enums.SleepSchedule     `json:"sleep_schedule"`
	Cleanliness          enums.Cleanliness       `json:"cleanliness"`
	NoisePreference      enums.NoisePreference   `json:"noise_preference"`
	SmokingPreference    enums.SmokingPreference `json:"smoking_preference"`
	Interests            []string                `json:"interests"`
	Languages            []string                `json:"languages"`
	Occupation           *string                 `json:"occupation,omitempty"`
	Bio                  *string                 `json:"bio,omitempty"`
	HasPets              bool                    `json:"has_pets"`
	IsVerified           bool                    `json:"is_verified"`
	IsLookingForRoommate bool                    `json:"is_looking_for_roommate"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	Gender               *enums.Gender            `json:"gender,omitempty"`
	PreferredGender      *enums.PreferredGender   `json:"preferred_gender,omitempty"`
	AgeGroup             *enums.AgeGroup          `json:"age_group,omitempty"`
	SleepSchedule        *enums.SleepSchedule     `json:"sleep_schedule,omitempty"`
	Cleanliness          *enums.Cleanliness       `json:"cleanliness,omitempty"`
	NoisePreference      *enums.NoisePreference   `json:"noise_preference,omitempty"`
	SmokingPreference    *enums.SmokingPreference `json:"smoking_preference,omitempty"`
	Interests            []string                 `json:"interests,omitempty"`
	Languages            []string                 `json:"languages,omitempty"`
	Occupation           *string                  `json:"occupation,omitempty"`
	Bio                  *string                  `json:"bio,omitempty"`
	HasPets              *bool                    `json:"has_pets,omitempty"`
	IsLookingForRoommate *bool                    `json:"is_looking_for_roommate,omitempty"`
}

// MatchDTO pairs a candidate profile with its compatibility result.
type MatchDTO struct {
	Profile            ProfileDTO                `json:"profile"`
	CompatibilityScore int                       `json:"compatibility_score"`
	MatchReasons       []string                  `json:"match_reasons"`
	Breakdown          map[string]DimensionScore `json:"compatibility_breakdown"`
}

// MatchesDTO wraps the ranked match listing.
type MatchesDTO struct {
	Matches    []MatchDTO `json:"matches"`
	TotalFound int        `json:"total_found"`
}

func toProfileDTO(profile models.RoommateProfile) ProfileDTO {
	return ProfileDTO{
		ID:                   profile.ID,
		UserID:               profile.UserID,
		Gender:               profile.Gender,
		PreferredGender:      profile.PreferredGender,
		AgeGroup:             profile.AgeGroup,
		SleepSchedule:        profile.SleepSchedule,
		Cleanliness:          profile.Cleanliness,
		NoisePreference:      profile.NoisePreference,
		SmokingPreference:    profile.SmokingPreference,
		Interests:            append([]string{}, profile.Interests...),
		Languages:            append([]string{}, profile.Languages...),
		Occupation:           profile.Occupation,
		Bio:                  profile.Bio,
		HasPets:              profile.HasPets,
		IsVerified:           profile.IsVerified,
		IsLookingForRoommate: profile.IsLookingForRoommate,
		CreatedAt:            profile.CreatedAt,
		UpdatedAt:            profile.UpdatedAt,
	}
}
