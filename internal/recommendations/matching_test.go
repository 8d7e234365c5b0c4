package recommendations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

func TestFitScoreNeutralWithoutPreferences(t *testing.T) {
	property := models.Property{
		Category:      "beach",
		Country:       "Portugal",
		Location:      "Albufeira, Portugal",
		PricePerNight: decimal.NewFromInt(120),
	}

	score, reasons := fitScore(property, models.UserPreference{}, 0)
	assert.InDelta(t, 70, score, 0.01)
	assert.Empty(t, reasons)
}

func TestFitScoreWeighsAllDimensions(t *testing.T) {
	property := models.Property{
		Category:      "beach",
		Country:       "Portugal",
		Location:      "Albufeira, Portugal",
		PricePerNight: decimal.NewFromInt(80),
		Amenities:     pq.StringArray{"pool", "wifi"},
	}
	preference := models.UserPreference{
		PreferredCategories: pq.StringArray{"beach"},
		PreferredLocations:  pq.StringArray{"portugal"},
		PreferredAmenities:  pq.StringArray{"pool"},
		MaxPrice:            decPtr(100),
		TravelStyle:         strPtr("budget"),
	}

	// category 100*.25 + price 76*.25 + location 100*.20 +
	// amenities 100*.15 + style 100*.15 = 94.
	score, reasons := fitScore(property, preference, 0)
	assert.InDelta(t, 94, score, 0.01)
	assert.Contains(t, reasons, "Matches your preferred category: beach")
	assert.Contains(t, reasons, "Great value for money")
}

func TestFitScorePenalizesMismatches(t *testing.T) {
	property := models.Property{
		Category:      "city",
		Country:       "Spain",
		Location:      "Madrid, Spain",
		PricePerNight: decimal.NewFromInt(500),
		Amenities:     pq.StringArray{"parking"},
	}
	preference := models.UserPreference{
		PreferredCategories: pq.StringArray{"beach"},
		PreferredLocations:  pq.StringArray{"portugal"},
		PreferredAmenities:  pq.StringArray{"pool"},
		MaxPrice:            decPtr(100),
		TravelStyle:         strPtr("budget"),
	}

	// category 30*.25 + price 20*.25 + location 40*.20 +
	// amenities 0*.15 + style 50*.15 = 28.
	score, _ := fitScore(property, preference, 0)
	assert.InDelta(t, 28, score, 0.01)
	assert.Less(t, score, float64(matchThreshold))
}

func TestFitScoreRatingBoost(t *testing.T) {
	property := models.Property{
		Category:      "beach",
		Country:       "Portugal",
		PricePerNight: decimal.NewFromInt(120),
	}

	score, reasons := fitScore(property, models.UserPreference{}, 4.7)
	assert.InDelta(t, 80, score, 0.01)
	assert.Contains(t, reasons, "Highly rated by other guests")

	score, _ = fitScore(property, models.UserPreference{}, 4.4)
	assert.InDelta(t, 70, score, 0.01)
}

func TestStyleScoreBands(t *testing.T) {
	cases := []struct {
		name  string
		style *string
		price int64
		want  float64
	}{
		{"unset style is neutral", nil, 120, 70},
		{"budget under 100", strPtr("budget"), 80, 100},
		{"budget over 100", strPtr("budget"), 150, 50},
		{"moderate in band", strPtr("moderate"), 120, 100},
		{"moderate below band", strPtr("moderate"), 40, 50},
		{"luxury above 150", strPtr("luxury"), 250, 100},
		{"luxury below 150", strPtr("luxury"), 90, 50},
		{"any always fits", strPtr("any"), 500, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			property := models.Property{PricePerNight: decimal.NewFromInt(tc.price)}
			preference := models.UserPreference{TravelStyle: tc.style}
			reasons := []string{}
			assert.InDelta(t, tc.want, styleScore(property, preference, &reasons), 0.01)
		})
	}
}

func TestGuestMatchesGeneratesAndReuses(t *testing.T) {
	svc, db := newTestRecsService(t)
	ctx := context.Background()

	userID := uuid.New()
	seedListing(t, db, "beach", "Albufeira, Portugal", "Portugal", 80)
	seedListing(t, db, "city", "Lisbon, Portugal", "Portugal", 120)

	first, err := svc.GuestMatches(ctx, userID)
	require.NoError(t, err)
	assert.True(t, first.NewlyGenerated)
	assert.Equal(t, 2, first.MatchCount)

	second, err := svc.GuestMatches(ctx, userID)
	require.NoError(t, err)
	assert.False(t, second.NewlyGenerated)
	assert.Equal(t, 2, second.MatchCount)

	var stored int64
	require.NoError(t, db.Model(&models.GuestMatch{}).Where("user_id = ?", userID).Count(&stored).Error)
	assert.Equal(t, int64(2), stored)
}

func TestGuestMatchesRequireIdentity(t *testing.T) {
	svc, _ := newTestRecsService(t)

	_, err := svc.GuestMatches(context.Background(), uuid.Nil)
	requireRecsErrCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestUpdatePreferencesRegeneratesMatches(t *testing.T) {
	svc, db := newTestRecsService(t)
	ctx := context.Background()

	userID := uuid.New()
	fitting := seedListing(t, db, "beach", "Albufeira, Portugal", "Portugal", 80)
	seedListing(t, db, "city", "Madrid, Spain", "Spain", 500)

	preference, matches, err := svc.UpdatePreferences(ctx, userID, UpdatePreferenceInput{
		PreferredCategories: []string{"beach"},
		PreferredLocations:  []string{"portugal"},
		PreferredAmenities:  []string{"pool"},
		MaxPrice:            decPtr(100),
		TravelStyle:         strPtr("budget"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"beach"}, preference.PreferredCategories)
	assert.NotNil(t, preference.MaxPrice)

	assert.True(t, matches.NewlyGenerated)
	require.Equal(t, 1, matches.MatchCount)
	assert.Equal(t, fitting, matches.Matches[0].Property.ID)
	assert.True(t, matches.Matches[0].Score.GreaterThanOrEqual(decimal.NewFromInt(matchThreshold)))
	assert.NotEmpty(t, matches.Matches[0].MatchReasons)
}

func TestUpdatePreferencesRejectsInvertedBudget(t *testing.T) {
	svc, _ := newTestRecsService(t)

	_, _, err := svc.UpdatePreferences(context.Background(), uuid.New(), UpdatePreferenceInput{
		MinPrice: decPtr(200),
		MaxPrice: decPtr(100),
	})
	requireRecsErrCode(t, err, pkgerrors.CodeValidation)
}

func TestPreferencesCreatedOnFirstAccess(t *testing.T) {
	svc, db := newTestRecsService(t)
	ctx := context.Background()

	userID := uuid.New()
	preference, err := svc.Preferences(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, preference.PreferredCategories)

	var count int64
	require.NoError(t, db.Model(&models.UserPreference{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
