package recommendations

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/flexbnb/flexbnb-backend/pkg/config"
	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/logger"
)

// ServiceParams groups dependencies for the recommendations service.
// Cache and Log are optional; everything else is required.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Scorer Scorer
	Cache  trendingCache
	Log    *logger.Logger
	Recs   config.RecommendationsConfig
}

// Service exposes suggestions, guest matching, pricing insights, the
// travel chatbot, itineraries and behavior tracking.
type Service interface {
	Recommendations(ctx context.Context, userID *uuid.UUID, sessionID string, limit int) (RecommendationsDTO, error)
	PersonalizationScore(ctx context.Context, userID uuid.UUID) (int, error)

	Preferences(ctx context.Context, userID uuid.UUID) (PreferenceDTO, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input UpdatePreferenceInput) (PreferenceDTO, GuestMatchesDTO, error)
	GuestMatches(ctx context.Context, userID uuid.UUID) (GuestMatchesDTO, error)

	PropertyPricing(ctx context.Context, propertyID uuid.UUID, checkIn *time.Time) (PricingInsightDTO, error)
	LocationPricing(ctx context.Context, location string) (LocationPricingDTO, error)

	Chat(ctx context.Context, userID *uuid.UUID, input ChatInput) (ChatResponseDTO, error)

	GenerateItinerary(ctx context.Context, userID uuid.UUID, input GenerateItineraryInput) (ItineraryDTO, error)
	MyItineraries(ctx context.Context, userID uuid.UUID) ([]ItineraryDTO, error)
	DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error

	TrackSearch(ctx context.Context, userID *uuid.UUID, input TrackSearchInput) error
	TrackView(ctx context.Context, userID *uuid.UUID, input TrackViewInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	scorer Scorer
	cache  trendingCache
	log    *logger.Logger
	recs   config.RecommendationsConfig
}

// NewService builds a recommendations service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recommendations repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scorer is required")
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		scorer: params.Scorer,
		cache:  params.Cache,
		log:    params.Log,
		recs:   params.Recs,
	}, nil
}

const strategyBatch = 5

// Recommendations assembles suggestions from every applicable strategy.
// Strategy failures degrade to partial results; only a fully empty run
// with errors is surfaced to the caller.
func (s *service) Recommendations(ctx context.Context, userID *uuid.UUID, sessionID string, limit int) (RecommendationsDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = s.defaultLimit()
	}

	var (
		candidates []RecommendationDTO
		reasons    []string
		errs       error
	)

	if userID != nil {
		preference, err := s.repo.FindPreference(ctx, *userID)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if preference != nil {
			items, strategyReasons, err := s.contentBased(ctx, *preference)
			candidates = append(candidates, items...)
			reasons = append(reasons, strategyReasons...)
			errs = multierr.Append(errs, err)
		}

		items, strategyReasons, err := s.collaborative(ctx, *userID)
		candidates = append(candidates, items...)
		reasons = append(reasons, strategyReasons...)
		errs = multierr.Append(errs, err)

		items, strategyReasons, err = s.historyBased(ctx, *userID)
		candidates = append(candidates, items...)
		reasons = append(reasons, strategyReasons...)
		errs = multierr.Append(errs, err)
	} else {
		items, strategyReasons, err := s.trending(ctx, limit)
		candidates = append(candidates, items...)
		reasons = append(reasons, strategyReasons...)
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		if s.log != nil {
			s.log.Warn(ctx, "recommendation strategies degraded: "+errs.Error())
		}
		if len(candidates) == 0 {
			return RecommendationsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "build recommendations")
		}
	}

	unique := dedupeByProperty(candidates)
	ranked := s.scorer.Rank(unique)

	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recommendationType := "trending"
	personalization := 0
	if userID != nil {
		recommendationType = "personalized"
		score, err := s.PersonalizationScore(ctx, *userID)
		if err == nil {
			personalization = score
		}
	}

	return RecommendationsDTO{
		Recommendations:      ranked,
		RecommendationType:   recommendationType,
		TotalCount:           total,
		Reasons:              dedupeStrings(reasons, 5),
		PersonalizationScore: personalization,
	}, nil
}

// PersonalizationScore grades how much behavioral signal backs the
// caller's suggestions, 0-100.
func (s *service) PersonalizationScore(ctx context.Context, userID uuid.UUID) (int, error) {
	score := 0.0

	preference, err := s.repo.FindPreference(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preference")
	}
	if preference != nil {
		score += 30
	}

	searches, err := s.repo.CountSearches(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count searches")
	}
	score += capped(float64(searches)*2, 20)

	views, err := s.repo.CountViews(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count views")
	}
	score += capped(float64(views)*2.5, 25)

	bookings, err := s.repo.CountBookings(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}
	score += capped(float64(bookings)*5, 25)

	if score > 100 {
		score = 100
	}
	return int(score), nil
}

func (s *service) contentBased(ctx context.Context, preference models.UserPreference) ([]RecommendationDTO, []string, error) {
	filter := PropertyFilter{
		Categories: preference.PreferredCategories,
		Locations:  preference.PreferredLocations,
		MaxPrice:   preference.MaxPrice,
	}

	reasons := []string{}
	if len(preference.PreferredCategories) > 0 {
		reasons = append(reasons, "Matches your preferred categories")
	}
	if len(preference.PreferredLocations) > 0 {
		reasons = append(reasons, "In your favorite destinations")
	}
	if preference.MaxPrice != nil {
		reasons = append(reasons, "Within your budget")
	}

	properties, err := s.repo.ListProperties(ctx, filter, strategyBatch)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.toRecommendations(ctx, properties, enums.RecommendationStrategyContentBased)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, nil
	}
	return items, reasons, nil
}

func (s *service) collaborative(ctx context.Context, userID uuid.UUID) ([]RecommendationDTO, []string, error) {
	booked, err := s.repo.BookedPropertyIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(booked) == 0 {
		return nil, nil, nil
	}

	ids, err := s.repo.CoBookedPropertyIDs(ctx, userID, strategyBatch)
	if err != nil {
		return nil, nil, err
	}
	properties, err := s.repo.ListPropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.toRecommendations(ctx, properties, enums.RecommendationStrategyCollaborative)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, nil
	}
	return items, []string{"Popular among travelers like you"}, nil
}

func (s *service) historyBased(ctx context.Context, userID uuid.UUID) ([]RecommendationDTO, []string, error) {
	searches, err := s.repo.ListRecentSearches(ctx, userID, 10)
	if err != nil {
		return nil, nil, err
	}

	filter := PropertyFilter{}
	reasons := []string{}
	if location := modalValue(searches, func(s models.SearchHistory) string { return s.Location }); location != "" {
		filter.Locations = []string{location}
		reasons = append(reasons, "Based on your searches in "+location)
	}
	if category := modalValue(searches, func(s models.SearchHistory) string { return s.Category }); category != "" {
		filter.Categories = []string{category}
		reasons = append(reasons, "Based on your interest in "+category)
	}

	var items []RecommendationDTO
	if len(filter.Locations) > 0 || len(filter.Categories) > 0 {
		properties, err := s.repo.ListProperties(ctx, filter, strategyBatch)
		if err != nil {
			return nil, nil, err
		}
		items, err = s.toRecommendations(ctx, properties, enums.RecommendationStrategyHistoryBased)
		if err != nil {
			return nil, nil, err
		}
	}

	viewedIDs, err := s.repo.ViewedNotBookedPropertyIDs(ctx, userID, strategyBatch)
	if err != nil {
		return nil, nil, err
	}
	if len(viewedIDs) > 0 {
		viewed, err := s.repo.ListPropertiesByIDs(ctx, viewedIDs)
		if err != nil {
			return nil, nil, err
		}
		viewedItems, err := s.toRecommendations(ctx, viewed, enums.RecommendationStrategyHistoryBased)
		if err != nil {
			return nil, nil, err
		}
		if len(viewedItems) > 0 {
			items = append(items, viewedItems...)
			reasons = append(reasons, "Properties you viewed but haven't booked")
		}
	}

	if len(items) == 0 {
		return nil, nil, nil
	}
	return items, reasons, nil
}

// trending serves anonymous callers. The assembled list is cached in
// redis keyed by limit so the public endpoint stays cheap.
func (s *service) trending(ctx context.Context, limit int) ([]RecommendationDTO, []string, error) {
	reasons := []string{"Trending this week", "Popular among travelers"}

	if s.cache != nil {
		key := s.cache.CacheKey("trending", strconv.Itoa(limit))
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached []RecommendationDTO
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, reasons, nil
			}
		}
	}

	window := s.recs.TrendingWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	rows, err := s.repo.TrendingProperties(ctx, time.Now().Add(-window), limit)
	if err != nil {
		return nil, nil, err
	}

	items := make([]RecommendationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, RecommendationDTO{
			Property: toPropertySummaryDTO(row.Property, row.AverageRating),
			Strategy: enums.RecommendationStrategyTrending,
		})
	}

	if s.cache != nil && len(items) > 0 {
		if buf, err := json.Marshal(items); err == nil {
			ttl := s.recs.TrendingCacheTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			key := s.cache.CacheKey("trending", strconv.Itoa(limit))
			if err := s.cache.Set(ctx, key, string(buf), ttl); err != nil && s.log != nil {
				s.log.Warn(ctx, "trending cache write failed: "+err.Error())
			}
		}
	}
	return items, reasons, nil
}

func (s *service) toRecommendations(ctx context.Context, properties []models.Property, strategy enums.RecommendationStrategy) ([]RecommendationDTO, error) {
	if len(properties) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(properties))
	for _, property := range properties {
		ids = append(ids, property.ID)
	}
	ratings, err := s.repo.AveragePropertyRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]RecommendationDTO, 0, len(properties))
	for _, property := range properties {
		items = append(items, RecommendationDTO{
			Property: toPropertySummaryDTO(property, ratings[property.ID]),
			Strategy: strategy,
		})
	}
	return items, nil
}

func (s *service) defaultLimit() int {
	if s.recs.DefaultLimit > 0 {
		return s.recs.DefaultLimit
	}
	return 10
}

func dedupeByProperty(items []RecommendationDTO) []RecommendationDTO {
	seen := make(map[uuid.UUID]bool, len(items))
	unique := make([]RecommendationDTO, 0, len(items))
	for _, item := range items {
		if seen[item.Property.ID] {
			continue
		}
		seen[item.Property.ID] = true
		unique = append(unique, item)
	}
	return unique
}

func dedupeStrings(values []string, limit int) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
		if len(unique) == limit {
			break
		}
	}
	return unique
}

// modalValue returns the most frequent non-empty extracted value,
// breaking ties by first appearance.
func modalValue(searches []models.SearchHistory, extract func(models.SearchHistory) string) string {
	counts := map[string]int{}
	order := []string{}
	for _, search := range searches {
		value := extract(search)
		if value == "" {
			continue
		}
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}

	best := ""
	bestCount := 0
	for _, value := range order {
		if counts[value] > bestCount {
			best = value
			bestCount = counts[value]
		}
	}
	return best
}

func capped(value, max float64) float64 {
	if value > max {
		return max
	}
	return value
}
