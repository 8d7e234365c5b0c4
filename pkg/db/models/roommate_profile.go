package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// RoommateProfile holds the lifestyle answers compatibility scoring reads.
// One profile per user.
type RoommateProfile struct {
	ID                   uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID               `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Gender               enums.Gender            `gorm:"column:gender;not null;default:'other'"`
	PreferredGender      enums.PreferredGender   `gorm:"column:preferred_gender;not null;default:'any'"`
	AgeGroup             enums.AgeGroup          `gorm:"column:age_group;not null;default:'18_25'"`
	SleepSchedule        enums.SleepSchedule     `gorm:"column:sleep_schedule;not null;default:'flexible'"`
	Cleanliness          enums.Cleanliness       `gorm:"column:cleanliness;not null;default:'moderate'"`
	NoisePreference      enums.NoisePreference   `gorm:"column:noise_preference;not null;default:'moderate'"`
	SmokingPreference    enums.SmokingPreference `gorm:"column:smoking_preference;not null;default:'no_preference'"`
	Interests            pq.StringArray          `gorm:"column:interests;type:text[];default:ARRAY[]::text[]"`
	Languages            pq.StringArray          `gorm:"column:languages;type:text[];default:ARRAY[]::text[]"`
	Occupation           *string                 `gorm:"column:occupation"`
	Bio                  *string                 `gorm:"column:bio"`
	HasPets              bool                    `gorm:"column:has_pets;not null;default:false"`
	IsVerified           bool                    `gorm:"column:is_verified;not null;default:false"`
	IsLookingForRoommate bool                    `gorm:"column:is_looking_for_roommate;not null;default:true"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
