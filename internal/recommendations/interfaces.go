package recommendations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
)

// PropertyFilter narrows listing queries for the content-based strategy
// and the chatbot search handler.
type PropertyFilter struct {
	Categories []string
	Locations  []string
	MaxPrice   *decimal.Decimal
	MinGuests  int
}

// TrendingProperty is a listing with its recent activity counters.
type TrendingProperty struct {
	Property       models.Property
	RecentBookings int64
	RecentViews    int64
	AverageRating  float64
}

// PriceStats summarizes nightly rates across a set of listings.
type PriceStats struct {
	Average decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
	Count   int64
}

// Repository is the persistence surface for recommendations, guest
// matching, pricing insights, the chatbot and itineraries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Preferences
	FindPreference(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error)
	GetOrCreatePreference(ctx context.Context, userID uuid.UUID) (models.UserPreference, error)
	SavePreference(ctx context.Context, preference *models.UserPreference) error

	// Listings
	FindProperty(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListProperties(ctx context.Context, filter PropertyFilter, limit int) ([]models.Property, error)
	ListPropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error)
	AveragePropertyRatings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error)
	TrendingProperties(ctx context.Context, since time.Time, limit int) ([]TrendingProperty, error)
	PriceStatsForLocation(ctx context.Context, location string) (PriceStats, error)
	FindLocationIndex(ctx context.Context, location string) (*models.LocationPriceIndex, error)

	// Behavior signals
	ListRecentSearches(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchHistory, error)
	CountSearches(ctx context.Context, userID uuid.UUID) (int64, error)
	CountViews(ctx context.Context, userID uuid.UUID) (int64, error)
	CountBookings(ctx context.Context, guestID uuid.UUID) (int64, error)
	BookedPropertyIDs(ctx context.Context, guestID uuid.UUID) ([]uuid.UUID, error)
	ViewedNotBookedPropertyIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
	CoBookedPropertyIDs(ctx context.Context, guestID uuid.UUID, limit int) ([]uuid.UUID, error)
	CountRecentBookingsForProperty(ctx context.Context, propertyID uuid.UUID, since time.Time) (int64, error)
	CountRecentViewsForProperty(ctx context.Context, propertyID uuid.UUID, since time.Time) (int64, error)
	CountSimilarBookings(ctx context.Context, country, category string, since time.Time) (int64, error)

	// Guest matches
	ListFreshMatches(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.GuestMatch, error)
	DeleteMatches(ctx context.Context, userID uuid.UUID) error
	CreateMatches(ctx context.Context, matches []*models.GuestMatch) error
	DeleteExpiredMatches(ctx context.Context, before time.Time) (int64, error)

	// Tracking
	CreateSearch(ctx context.Context, search *models.SearchHistory) error
	CreateView(ctx context.Context, view *models.PropertyView) error

	// Chatbot
	GetOrCreateConversation(ctx context.Context, sessionID string, userID *uuid.UUID) (models.ChatbotConversation, error)
	SaveConversation(ctx context.Context, conversation *models.ChatbotConversation) error

	// Itineraries
	CreateItinerary(ctx context.Context, itinerary *models.Itinerary) error
	ListItineraries(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error)
	FindItinerary(ctx context.Context, id uuid.UUID) (*models.Itinerary, error)
	DeleteItinerary(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// trendingCache is the slice of the redis client the trending strategy
// needs. A nil cache disables caching.
type trendingCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope string, parts ...string) string
}
