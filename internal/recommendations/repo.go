package recommendations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a recommendations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPreference(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	var preference models.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&preference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &preference, nil
}

func (r *repository) GetOrCreatePreference(ctx context.Context, userID uuid.UUID) (models.UserPreference, error) {
	var preference models.UserPreference
	err := r.db.WithContext(ctx).
		Where(models.UserPreference{UserID: userID}).
		Attrs(models.UserPreference{ID: uuid.New()}).
		FirstOrCreate(&preference).Error
	return preference, err
}

func (r *repository) SavePreference(ctx context.Context, preference *models.UserPreference) error {
	return r.db.WithContext(ctx).Save(preference).Error
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

const avgRatingSubquery = "(SELECT COALESCE(AVG(rating), 0) FROM property_reviews WHERE property_reviews.property_id = properties.id)"

func (r *repository) ListProperties(ctx context.Context, filter PropertyFilter, limit int) ([]models.Property, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("is_active = ?", true)

	if len(filter.Categories) > 0 {
		lowered := make([]string, 0, len(filter.Categories))
		for _, category := range filter.Categories {
			lowered = append(lowered, strings.ToLower(category))
		}
		query = query.Where("LOWER(category) IN ?", lowered)
	}
	if len(filter.Locations) > 0 {
		var locQuery *gorm.DB
		for _, location := range filter.Locations {
			pattern := "%" + strings.ToLower(strings.TrimSpace(location)) + "%"
			cond := r.db.Where("LOWER(country) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
			if locQuery == nil {
				locQuery = cond
			} else {
				locQuery = locQuery.Or(cond)
			}
		}
		query = query.Where(locQuery)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_per_night <= ?", filter.MaxPrice)
	}
	if filter.MinGuests > 0 {
		query = query.Where("guests >= ?", filter.MinGuests)
	}

	var properties []models.Property
	err := query.
		Order(avgRatingSubquery + " DESC").
		Limit(limit).
		Find(&properties).Error
	return properties, err
}

func (r *repository) ListPropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&properties).Error
	return properties, err
}

func (r *repository) AveragePropertyRatings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error) {
	ratings := make(map[uuid.UUID]float64, len(ids))
	if len(ids) == 0 {
		return ratings, nil
	}

	var rows []struct {
		PropertyID uuid.UUID
		AvgRating  float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.PropertyReview{}).
		Select("property_id, AVG(rating) AS avg_rating").
		Where("property_id IN ?", ids).
		Group("property_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		ratings[row.PropertyID] = row.AvgRating
	}
	return ratings, nil
}

func (r *repository) TrendingProperties(ctx context.Context, since time.Time, limit int) ([]TrendingProperty, error) {
	var rows []struct {
		ID             uuid.UUID
		RecentBookings int64
		RecentViews    int64
		AvgRating      float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select(`properties.id,
			(SELECT COUNT(*) FROM reservations WHERE reservations.property_id = properties.id AND reservations.created_at >= ?) AS recent_bookings,
			(SELECT COUNT(*) FROM property_views WHERE property_views.property_id = properties.id AND property_views.created_at >= ?) AS recent_views,
			`+avgRatingSubquery+` AS avg_rating`, since, since).
		Where("is_active = ?", true).
		Order("recent_bookings DESC, recent_views DESC, avg_rating DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	properties, err := r.ListPropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Property, len(properties))
	for _, property := range properties {
		byID[property.ID] = property
	}

	trending := make([]TrendingProperty, 0, len(rows))
	for _, row := range rows {
		property, ok := byID[row.ID]
		if !ok {
			continue
		}
		trending = append(trending, TrendingProperty{
			Property:       property,
			RecentBookings: row.RecentBookings,
			RecentViews:    row.RecentViews,
			AverageRating:  row.AvgRating,
		})
	}
	return trending, nil
}

func (r *repository) PriceStatsForLocation(ctx context.Context, location string) (PriceStats, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("is_active = ?", true)
	if location != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(location)) + "%"
		query = query.Where("LOWER(country) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}

	var row struct {
		Average float64
		Min     float64
		Max     float64
		Count   int64
	}
	err := query.
		Select("COALESCE(AVG(price_per_night), 0) AS average, COALESCE(MIN(price_per_night), 0) AS min, COALESCE(MAX(price_per_night), 0) AS max, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return PriceStats{}, err
	}
	return PriceStats{
		Average: decimalFromFloat(row.Average),
		Min:     decimalFromFloat(row.Min),
		Max:     decimalFromFloat(row.Max),
		Count:   row.Count,
	}, nil
}

func (r *repository) FindLocationIndex(ctx context.Context, location string) (*models.LocationPriceIndex, error) {
	var index models.LocationPriceIndex
	pattern := "%" + strings.ToLower(strings.TrimSpace(location)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(location) LIKE ?", pattern).
		First(&index).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &index, nil
}

func (r *repository) ListRecentSearches(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchHistory, error) {
	var searches []models.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&searches).Error
	return searches, err
}

func (r *repository) CountSearches(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SearchHistory{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountViews(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PropertyView{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountBookings(ctx context.Context, guestID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("guest_id = ?", guestID).
		Count(&count).Error
	return count, err
}

func (r *repository) BookedPropertyIDs(ctx context.Context, guestID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Distinct("property_id").
		Where("guest_id = ?", guestID).
		Pluck("property_id", &ids).Error
	return ids, err
}

func (r *repository) ViewedNotBookedPropertyIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	booked := r.db.
		Model(&models.Reservation{}).
		Select("property_id").
		Where("guest_id = ?", userID)

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PropertyView{}).
		Distinct("property_id").
		Where("user_id = ?", userID).
		Where("property_id NOT IN (?)", booked).
		Limit(limit).
		Pluck("property_id", &ids).Error
	return ids, err
}

// CoBookedPropertyIDs resolves properties booked by guests who share at
// least one booked property with the caller, minus the caller's own
// history.
func (r *repository) CoBookedPropertyIDs(ctx context.Context, guestID uuid.UUID, limit int) ([]uuid.UUID, error) {
	own := r.db.
		Model(&models.Reservation{}).
		Select("property_id").
		Where("guest_id = ?", guestID)

	coGuests := r.db.
		Model(&models.Reservation{}).
		Distinct("guest_id").
		Where("property_id IN (?)", own).
		Where("guest_id <> ?", guestID)

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Distinct("property_id").
		Where("guest_id IN (?)", coGuests).
		Where("property_id NOT IN (?)", own).
		Limit(limit).
		Pluck("property_id", &ids).Error
	return ids, err
}

func (r *repository) CountRecentBookingsForProperty(ctx context.Context, propertyID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("property_id = ? AND created_at >= ?", propertyID, since).
		Count(&count).Error
	return count, err
}

func (r *repository) CountRecentViewsForProperty(ctx context.Context, propertyID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PropertyView{}).
		Where("property_id = ? AND created_at >= ?", propertyID, since).
		Count(&count).Error
	return count, err
}

func (r *repository) CountSimilarBookings(ctx context.Context, country, category string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservations").
		Joins("JOIN properties ON properties.id = reservations.property_id").
		Where("properties.country = ? AND properties.category = ?", country, category).
		Where("reservations.created_at >= ?", since).
		Where("reservations.status = ?", "approved").
		Count(&count).Error
	return count, err
}

func (r *repository) ListFreshMatches(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.GuestMatch, error) {
	var matches []models.GuestMatch
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("score DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

func (r *repository) DeleteMatches(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.GuestMatch{}).Error
}

func (r *repository) CreateMatches(ctx context.Context, matches []*models.GuestMatch) error {
	if len(matches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(matches).Error
}

func (r *repository) DeleteExpiredMatches(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&models.GuestMatch{})
	return result.RowsAffected, result.Error
}

func (r *repository) CreateSearch(ctx context.Context, search *models.SearchHistory) error {
	return r.db.WithContext(ctx).Create(search).Error
}

func (r *repository) CreateView(ctx context.Context, view *models.PropertyView) error {
	return r.db.WithContext(ctx).Create(view).Error
}

func (r *repository) GetOrCreateConversation(ctx context.Context, sessionID string, userID *uuid.UUID) (models.ChatbotConversation, error) {
	var conversation models.ChatbotConversation
	err := r.db.WithContext(ctx).
		Where(models.ChatbotConversation{SessionID: sessionID}).
		Attrs(models.ChatbotConversation{ID: uuid.New(), UserID: userID, Messages: types.JSONMap{}}).
		FirstOrCreate(&conversation).Error
	return conversation, err
}

func (r *repository) SaveConversation(ctx context.Context, conversation *models.ChatbotConversation) error {
	return r.db.WithContext(ctx).Save(conversation).Error
}

func (r *repository) CreateItinerary(ctx context.Context, itinerary *models.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

func (r *repository) ListItineraries(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	var itineraries []models.Itinerary
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&itineraries).Error
	return itineraries, err
}

func (r *repository) FindItinerary(ctx context.Context, id uuid.UUID) (*models.Itinerary, error) {
	var itinerary models.Itinerary
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&itinerary).Error
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

func (r *repository) DeleteItinerary(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Itinerary{}).Error
}

func decimalFromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}
