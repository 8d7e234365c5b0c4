package recommendations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// PropertySummaryDTO is the listing shape embedded in recommendation and
// match payloads.
type PropertySummaryDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Location      string          `json:"location"`
	Country       string          `json:"country"`
	Category      string          `json:"category"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Bedrooms      int             `json:"bedrooms"`
	Guests        int             `json:"guests"`
	AverageRating float64         `json:"average_rating"`
}

// RecommendationDTO is one scored suggestion.
type RecommendationDTO struct {
	Property PropertySummaryDTO           `json:"property"`
	Score    float64                      `json:"recommendation_score"`
	Strategy enums.RecommendationStrategy `json:"strategy"`
}

// RecommendationsDTO is the full suggestion payload.
type RecommendationsDTO struct {
	Recommendations      []RecommendationDTO `json:"recommendations"`
	RecommendationType   string              `json:"recommendation_type"`
	TotalCount           int                 `json:"total_count"`
	Reasons              []string            `json:"reasons"`
	PersonalizationScore int                 `json:"personalization_score"`
}

// PreferenceDTO mirrors the stored travel-preference profile.
type PreferenceDTO struct {
	PreferredCategories []string         `json:"preferred_categories"`
	PreferredLocations  []string         `json:"preferred_locations"`
	PreferredAmenities  []string         `json:"preferred_amenities"`
	MinPrice            *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice            *decimal.Decimal `json:"max_price,omitempty"`
	TravelStyle         *string          `json:"travel_style,omitempty"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// UpdatePreferenceInput applies a partial preference update.
type UpdatePreferenceInput struct {
	PreferredCategories []string         `json:"preferred_categories"`
	PreferredLocations  []string         `json:"preferred_locations"`
	PreferredAmenities  []string         `json:"preferred_amenities"`
	MinPrice            *decimal.Decimal `json:"min_price" validate:"omitempty"`
	MaxPrice            *decimal.Decimal `json:"max_price" validate:"omitempty"`
	TravelStyle         *string          `json:"travel_style" validate:"omitempty,oneof=budget moderate luxury any"`
}

// GuestMatchDTO is one precomputed property match.
type GuestMatchDTO struct {
	Property     PropertySummaryDTO `json:"property"`
	Score        decimal.Decimal    `json:"overall_match_score"`
	MatchReasons []string           `json:"match_reasons"`
	ExpiresAt    time.Time          `json:"expires_at"`
	CreatedAt    time.Time          `json:"created_at"`
}

// GuestMatchesDTO is the match listing payload.
type GuestMatchesDTO struct {
	Matches        []GuestMatchDTO `json:"matches"`
	MatchCount     int             `json:"match_count"`
	NewlyGenerated bool            `json:"newly_generated"`
}

// ForecastDayDTO is one entry of the 7-day price forecast.
type ForecastDayDTO struct {
	Date           string  `json:"date"`
	DayName        string  `json:"day_name"`
	PredictedPrice int64   `json:"predicted_price"`
	Confidence     float64 `json:"confidence"`
	IsWeekend      bool    `json:"is_weekend"`
}

// PriceFactorDTO names one driver behind the quoted price.
type PriceFactorDTO struct {
	Factor      string `json:"factor"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// PricingInsightDTO is the per-property pricing readout.
type PricingInsightDTO struct {
	PropertyID              uuid.UUID        `json:"property_id"`
	PropertyTitle           string           `json:"property_title"`
	CurrentPrice            decimal.Decimal  `json:"current_price"`
	AveragePrice            float64          `json:"average_price"`
	MinPrice30Days          int64            `json:"min_price_30_days"`
	MaxPrice30Days          int64            `json:"max_price_30_days"`
	PriceTrend              enums.PriceTrend `json:"price_trend"`
	TrendPercentage         float64          `json:"trend_percentage"`
	BestTimeToBook          string           `json:"best_time_to_book"`
	PotentialSavings        int64            `json:"potential_savings"`
	PriceForecast           []ForecastDayDTO `json:"price_forecast"`
	DemandLevel             enums.DemandLevel `json:"demand_level"`
	DemandScore             int64            `json:"demand_score"`
	SimilarPropertiesBooked int64            `json:"similar_properties_booked"`
	BookingRecommendation   string           `json:"booking_recommendation"`
	PriceFactors            []PriceFactorDTO `json:"price_factors"`
}

// LocationPricingDTO is the market-level answer when no property is named.
type LocationPricingDTO struct {
	Location     string           `json:"location"`
	AveragePrice *decimal.Decimal `json:"average_price,omitempty"`
	SampleSize   int              `json:"sample_size,omitempty"`
	Message      string           `json:"message,omitempty"`
	GeneralTips  []string         `json:"general_tips,omitempty"`
}

// ChatInput is one user message to the travel assistant.
type ChatInput struct {
	Message   string  `json:"message" validate:"required,max=2000"`
	SessionID *string `json:"session_id"`
}

// ChatSuggestionDTO is a quick-reply chip.
type ChatSuggestionDTO struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

// ChatResponseDTO is the assistant's reply.
type ChatResponseDTO struct {
	SessionID  string               `json:"session_id"`
	Response   string               `json:"response"`
	Intent     enums.ChatIntent     `json:"intent"`
	Entities   map[string]any       `json:"entities,omitempty"`
	Suggestions []ChatSuggestionDTO `json:"suggestions,omitempty"`
	Properties []PropertySummaryDTO `json:"properties,omitempty"`
	Actions    []ChatSuggestionDTO  `json:"actions,omitempty"`
	FollowUp   []string             `json:"follow_up_questions,omitempty"`
}

// GenerateItineraryInput describes the trip to plan.
type GenerateItineraryInput struct {
	Destination string           `json:"destination" validate:"required,max=120"`
	StartDate   time.Time        `json:"start_date" validate:"required"`
	EndDate     time.Time        `json:"end_date" validate:"required"`
	Interests   []string         `json:"interests"`
	Pace        enums.TravelPace `json:"pace"`
}

// ItineraryDTO is a stored trip plan.
type ItineraryDTO struct {
	ID          uuid.UUID        `json:"id"`
	Destination string           `json:"destination"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Pace        enums.TravelPace `json:"pace"`
	Interests   []string         `json:"interests"`
	Plan        map[string]any   `json:"plan"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TrackSearchInput records one search event.
type TrackSearchInput struct {
	SessionID   *string    `json:"session_id"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	GuestsCount int        `json:"guests_count"`
	CheckIn     *time.Time `json:"check_in"`
	CheckOut    *time.Time `json:"check_out"`
}

// TrackViewInput records one listing view.
type TrackViewInput struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	SessionID  *string   `json:"session_id"`
}

func toPropertySummaryDTO(property models.Property, rating float64) PropertySummaryDTO {
	return PropertySummaryDTO{
		ID:            property.ID,
		Title:         property.Title,
		Location:      property.Location,
		Country:       property.Country,
		Category:      property.Category,
		PricePerNight: property.PricePerNight,
		Bedrooms:      property.Bedrooms,
		Guests:        property.Guests,
		AverageRating: rating,
	}
}

func toPreferenceDTO(preference models.UserPreference) PreferenceDTO {
	return PreferenceDTO{
		PreferredCategories: preference.PreferredCategories,
		PreferredLocations:  preference.PreferredLocations,
		PreferredAmenities:  preference.PreferredAmenities,
		MinPrice:            preference.MinPrice,
		MaxPrice:            preference.MaxPrice,
		TravelStyle:         preference.TravelStyle,
		UpdatedAt:           preference.UpdatedAt,
	}
}

func toItineraryDTO(itinerary models.Itinerary) ItineraryDTO {
	return ItineraryDTO{
		ID:          itinerary.ID,
		Destination: itinerary.Destination,
		StartDate:   itinerary.StartDate,
		EndDate:     itinerary.EndDate,
		Pace:        itinerary.Pace,
		Interests:   itinerary.Interests,
		Plan:        itinerary.Plan,
		CreatedAt:   itinerary.CreatedAt,
	}
}
