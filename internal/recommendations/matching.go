package recommendations

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
)

const (
	matchThreshold = 50
	matchLimit     = 10
	ratingBoost    = 10
)

// Fit dimension weights. They sum to 1.
const (
	weightCategory  = 0.25
	weightPrice     = 0.25
	weightLocation  = 0.20
	weightAmenities = 0.15
	weightStyle     = 0.15
)

// Preferences returns the caller's travel-preference profile, creating a
// default on first access.
func (s *service) Preferences(ctx context.Context, userID uuid.UUID) (PreferenceDTO, error) {
	if userID == uuid.Nil {
		return PreferenceDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	preference, err := s.repo.GetOrCreatePreference(ctx, userID)
	if err != nil {
		return PreferenceDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preference")
	}
	return toPreferenceDTO(preference), nil
}

// UpdatePreferences applies a partial update and regenerates the caller's
// guest matches from the new profile.
func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input UpdatePreferenceInput) (PreferenceDTO, GuestMatchesDTO, error) {
	if userID == uuid.Nil {
		return PreferenceDTO{}, GuestMatchesDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.MinPrice != nil && input.MaxPrice != nil && input.MinPrice.GreaterThan(*input.MaxPrice) {
		return PreferenceDTO{}, GuestMatchesDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "min price cannot exceed max price")
	}

	preference, err := s.repo.GetOrCreatePreference(ctx, userID)
	if err != nil {
		return PreferenceDTO{}, GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preference")
	}

	if input.PreferredCategories != nil {
		preference.PreferredCategories = input.PreferredCategories
	}
	if input.PreferredLocations != nil {
		preference.PreferredLocations = input.PreferredLocations
	}
	if input.PreferredAmenities != nil {
		preference.PreferredAmenities = input.PreferredAmenities
	}
	if input.MinPrice != nil {
		preference.MinPrice = input.MinPrice
	}
	if input.MaxPrice != nil {
		preference.MaxPrice = input.MaxPrice
	}
	if input.TravelStyle != nil {
		preference.TravelStyle = input.TravelStyle
	}

	var matches GuestMatchesDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SavePreference(ctx, &preference); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save preference")
		}
		generated, err := s.regenerateMatches(ctx, repo, userID, preference)
		if err != nil {
			return err
		}
		matches = generated
		return nil
	})
	if err != nil {
		return PreferenceDTO{}, GuestMatchesDTO{}, err
	}
	return toPreferenceDTO(preference), matches, nil
}

// GuestMatches returns fresh precomputed matches, generating a new batch
// when none are stored or all have expired.
func (s *service) GuestMatches(ctx context.Context, userID uuid.UUID) (GuestMatchesDTO, error) {
	if userID == uuid.Nil {
		return GuestMatchesDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	fresh, err := s.repo.ListFreshMatches(ctx, userID, time.Now(), matchLimit)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load matches")
	}
	if len(fresh) > 0 {
		return s.toMatchesDTO(ctx, fresh, false)
	}

	preference, err := s.repo.GetOrCreatePreference(ctx, userID)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preference")
	}

	var matches GuestMatchesDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		generated, err := s.regenerateMatches(ctx, s.repo.WithTx(tx), userID, preference)
		if err != nil {
			return err
		}
		matches = generated
		return nil
	})
	if err != nil {
		return GuestMatchesDTO{}, err
	}
	return matches, nil
}

// regenerateMatches scores every active listing against the preference
// profile and persists the qualifying rows.
func (s *service) regenerateMatches(ctx context.Context, repo Repository, userID uuid.UUID, preference models.UserPreference) (GuestMatchesDTO, error) {
	if err := repo.DeleteMatches(ctx, userID); err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear matches")
	}

	properties, err := repo.ListProperties(ctx, PropertyFilter{}, 200)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listings")
	}
	ids := make([]uuid.UUID, 0, len(properties))
	for _, property := range properties {
		ids = append(ids, property.ID)
	}
	ratings, err := repo.AveragePropertyRatings(ctx, ids)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ratings")
	}

	expiry := s.recs.MatchExpiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	expiresAt := time.Now().Add(expiry)

	rows := make([]*models.GuestMatch, 0, len(properties))
	for _, property := range properties {
		score, reasons := fitScore(property, preference, ratings[property.ID])
		if score < matchThreshold {
			continue
		}
		rows = append(rows, &models.GuestMatch{
			ID:           uuid.New(),
			UserID:       userID,
			PropertyID:   property.ID,
			Score:        decimal.NewFromFloat(score).Round(2),
			MatchReasons: reasons,
			ExpiresAt:    expiresAt,
		})
	}

	// Best-first, keep the top batch only.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score.GreaterThan(rows[j].Score)
	})
	if len(rows) > matchLimit {
		rows = rows[:matchLimit]
	}

	if err := repo.CreateMatches(ctx, rows); err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store matches")
	}

	stored := make([]models.GuestMatch, 0, len(rows))
	for _, row := range rows {
		stored = append(stored, *row)
	}
	return s.toMatchesDTO(ctx, stored, true)
}

func (s *service) toMatchesDTO(ctx context.Context, matches []models.GuestMatch, generated bool) (GuestMatchesDTO, error) {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.PropertyID)
	}
	properties, err := s.repo.ListPropertiesByIDs(ctx, ids)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load matched listings")
	}
	ratings, err := s.repo.AveragePropertyRatings(ctx, ids)
	if err != nil {
		return GuestMatchesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ratings")
	}
	byID := make(map[uuid.UUID]models.Property, len(properties))
	for _, property := range properties {
		byID[property.ID] = property
	}

	dtos := make([]GuestMatchDTO, 0, len(matches))
	for _, match := range matches {
		property, ok := byID[match.PropertyID]
		if !ok {
			continue
		}
		dtos = append(dtos, GuestMatchDTO{
			Property:     toPropertySummaryDTO(property, ratings[property.ID]),
			Score:        match.Score,
			MatchReasons: match.MatchReasons,
			ExpiresAt:    match.ExpiresAt,
			CreatedAt:    match.CreatedAt,
		})
	}
	return GuestMatchesDTO{Matches: dtos, MatchCount: len(dtos), NewlyGenerated: generated}, nil
}

// fitScore grades one listing against the preference profile, 0-100,
// with human-readable reasons for the dimensions that matched.
func fitScore(property models.Property, preference models.UserPreference, rating float64) (float64, []string) {
	reasons := []string{}

	category := 70.0
	if len(preference.PreferredCategories) > 0 {
		if containsFold(preference.PreferredCategories, property.Category) {
			category = 100
			reasons = append(reasons, "Matches your preferred category: "+property.Category)
		} else {
			category = 30
		}
	}

	price := 70.0
	if preference.MaxPrice != nil {
		if property.PricePerNight.LessThanOrEqual(*preference.MaxPrice) && preference.MaxPrice.IsPositive() {
			ratio, _ := property.PricePerNight.Div(*preference.MaxPrice).Float64()
			price = 100 - ratio*30
			reasons = append(reasons, "Within your budget ($"+property.PricePerNight.StringFixed(0)+"/night)")
		} else {
			price = 20
		}
	}

	location := 70.0
	if len(preference.PreferredLocations) > 0 {
		if matchesLocation(preference.PreferredLocations, property) {
			location = 100
			reasons = append(reasons, "Located in "+property.Country+", one of your favorites")
		} else {
			location = 40
		}
	}

	amenities := 70.0
	if len(preference.PreferredAmenities) > 0 {
		matched := 0
		for _, wanted := range preference.PreferredAmenities {
			if containsFold(property.Amenities, wanted) {
				matched++
			}
		}
		amenities = 100 * float64(matched) / float64(len(preference.PreferredAmenities))
		if matched > 0 && matched*2 >= len(preference.PreferredAmenities) {
			reasons = append(reasons, "Has the amenities you care about")
		}
	}

	style := styleScore(property, preference, &reasons)

	overall := category*weightCategory + price*weightPrice + location*weightLocation +
		amenities*weightAmenities + style*weightStyle

	if rating >= 4.5 {
		overall += ratingBoost
		if overall > 100 {
			overall = 100
		}
		reasons = append(reasons, "Highly rated by other guests")
	}
	return overall, reasons
}

// styleScore maps the declared travel style onto nightly-rate bands.
func styleScore(property models.Property, preference models.UserPreference, reasons *[]string) float64 {
	if preference.TravelStyle == nil {
		return 70
	}

	price := property.PricePerNight
	switch strings.ToLower(*preference.TravelStyle) {
	case "budget":
		if price.LessThanOrEqual(decimal.NewFromInt(100)) {
			*reasons = append(*reasons, "Great value for money")
			return 100
		}
	case "moderate":
		if price.GreaterThanOrEqual(decimal.NewFromInt(50)) && price.LessThanOrEqual(decimal.NewFromInt(200)) {
			return 100
		}
	case "luxury":
		if price.GreaterThanOrEqual(decimal.NewFromInt(150)) {
			if price.GreaterThan(decimal.NewFromInt(200)) {
				*reasons = append(*reasons, "Premium luxury property")
			}
			return 100
		}
	case "any":
		return 100
	}
	return 50
}

func matchesLocation(preferred []string, property models.Property) bool {
	for _, wanted := range preferred {
		needle := strings.ToLower(strings.TrimSpace(wanted))
		if needle == "" {
			continue
		}
		if strings.EqualFold(property.Country, needle) ||
			strings.Contains(strings.ToLower(property.Location), needle) ||
			strings.Contains(strings.ToLower(property.Country), needle) {
			return true
		}
	}
	return false
}

func containsFold(values []string, wanted string) bool {
	for _, value := range values {
		if strings.EqualFold(value, wanted) {
			return true
		}
	}
	return false
}
