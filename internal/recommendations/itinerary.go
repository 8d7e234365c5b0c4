package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

var activitiesPerDay = map[enums.TravelPace]int{
	enums.TravelPaceRelaxed:  2,
	enums.TravelPaceModerate: 3,
	enums.TravelPacePacked:   5,
}

type activityTemplate struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

var interestTemplates = map[string][]activityTemplate{
	"adventure": {
		{Time: "09:00", Activity: "Morning hiking trail", Duration: "3 hours", Type: "outdoor"},
		{Time: "14:00", Activity: "Water sports adventure", Duration: "2 hours", Type: "adventure"},
		{Time: "17:00", Activity: "Sunset viewpoint visit", Duration: "1.5 hours", Type: "scenic"},
	},
	"culture": {
		{Time: "10:00", Activity: "Museum visit", Duration: "2 hours", Type: "cultural"},
		{Time: "14:00", Activity: "Historical walking tour", Duration: "2.5 hours", Type: "tour"},
		{Time: "19:00", Activity: "Local cultural show", Duration: "2 hours", Type: "entertainment"},
	},
	"food": {
		{Time: "10:00", Activity: "Food market tour", Duration: "2 hours", Type: "food"},
		{Time: "14:00", Activity: "Cooking class", Duration: "3 hours", Type: "experience"},
		{Time: "20:00", Activity: "Fine dining experience", Duration: "2 hours", Type: "food"},
	},
	"relaxation": {
		{Time: "10:00", Activity: "Spa and wellness session", Duration: "2 hours", Type: "wellness"},
		{Time: "14:00", Activity: "Beach and pool time", Duration: "3 hours", Type: "leisure"},
		{Time: "18:00", Activity: "Sunset yoga", Duration: "1 hour", Type: "wellness"},
	},
}

// GenerateItinerary builds and stores a day-by-day plan for the trip.
func (s *service) GenerateItinerary(ctx context.Context, userID uuid.UUID, input GenerateItineraryInput) (ItineraryDTO, error) {
	if userID == uuid.Nil {
		return ItineraryDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	destination := strings.TrimSpace(input.Destination)
	if destination == "" {
		return ItineraryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}
	if input.EndDate.Before(input.StartDate) {
		return ItineraryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date")
	}

	pace := input.Pace
	if pace == "" {
		pace = enums.TravelPaceModerate
	}
	if !pace.IsValid() {
		return ItineraryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid travel pace")
	}

	duration := int(input.EndDate.Sub(input.StartDate).Hours()/24) + 1

	itinerary := &models.Itinerary{
		ID:          uuid.New(),
		UserID:      userID,
		Destination: destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Pace:        pace,
		Interests:   input.Interests,
		Plan: types.JSONMap{
			"title":          fmt.Sprintf("%d-Day Trip to %s", duration, destination),
			"activities":     buildActivities(destination, duration, input.Interests, pace),
			"restaurants":    buildRestaurants(destination, duration),
			"attractions":    buildAttractions(destination),
			"transportation": buildTransportTips(destination),
			"suggestions":    buildSuggestions(destination, duration, input.Interests),
			"weather":        stubWeather(),
		},
	}
	if err := s.repo.CreateItinerary(ctx, itinerary); err != nil {
		return ItineraryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create itinerary")
	}
	return toItineraryDTO(*itinerary), nil
}

// MyItineraries lists the caller's stored plans.
func (s *service) MyItineraries(ctx context.Context, userID uuid.UUID) ([]ItineraryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	itineraries, err := s.repo.ListItineraries(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list itineraries")
	}
	dtos := make([]ItineraryDTO, 0, len(itineraries))
	for _, itinerary := range itineraries {
		dtos = append(dtos, toItineraryDTO(itinerary))
	}
	return dtos, nil
}

// DeleteItinerary removes a plan owned by the caller.
func (s *service) DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error {
	itinerary, err := s.repo.FindItinerary(ctx, itineraryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "itinerary not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load itinerary")
	}
	if itinerary.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete an itinerary")
	}
	if err := s.repo.DeleteItinerary(ctx, itineraryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete itinerary")
	}
	return nil
}

func buildActivities(destination string, duration int, interests []string, pace enums.TravelPace) []map[string]any {
	perDay := activitiesPerDay[pace]
	if perDay == 0 {
		perDay = 3
	}

	defaults := []activityTemplate{
		{Time: "09:00", Activity: "Explore " + destination + " highlights", Duration: "3 hours", Type: "sightseeing"},
		{Time: "14:00", Activity: "Local neighborhood walk", Duration: "2 hours", Type: "explore"},
		{Time: "17:00", Activity: "Relax at a local cafe", Duration: "1.5 hours", Type: "leisure"},
	}

	activities := []map[string]any{}
	for day := 1; day <= duration; day++ {
		dayActivities := []map[string]any{}

		appendFrom := func(templates []activityTemplate) {
			for _, template := range templates {
				if len(dayActivities) >= perDay {
					return
				}
				dayActivities = append(dayActivities, map[string]any{
					"day":      day,
					"time":     template.Time,
					"activity": template.Activity,
					"duration": template.Duration,
					"type":     template.Type,
					"location": destination + " Area",
				})
			}
		}

		matched := false
		for _, interest := range interests {
			if templates, ok := interestTemplates[strings.ToLower(interest)]; ok {
				appendFrom(templates)
				matched = true
			}
			if len(dayActivities) >= perDay {
				break
			}
		}
		if !matched {
			appendFrom(defaults)
		}
		activities = append(activities, dayActivities...)
	}
	return activities
}

func buildRestaurants(destination string, duration int) []map[string]any {
	meals := []string{"breakfast", "lunch", "dinner"}
	restaurants := []map[string]any{}
	for day := 1; day <= duration; day++ {
		for _, meal := range meals {
			restaurants = append(restaurants, map[string]any{
				"day":                     day,
				"meal":                    meal,
				"suggestion":              fmt.Sprintf("Local %s spot in %s", meal, destination),
				"cuisine":                 "Local",
				"price_range":             "$$",
				"reservation_recommended": meal == "dinner",
			})
		}
	}
	return restaurants
}

func buildAttractions(destination string) []map[string]any {
	return []map[string]any{
		{
			"name":           destination + " Main Square",
			"type":           "landmark",
			"priority":       "must-see",
			"estimated_time": "1-2 hours",
			"best_time":      "morning or evening",
		},
		{
			"name":           destination + " Historical District",
			"type":           "historical",
			"priority":       "recommended",
			"estimated_time": "2-3 hours",
			"best_time":      "afternoon",
		},
		{
			"name":           "Local Market in " + destination,
			"type":           "shopping",
			"priority":       "recommended",
			"estimated_time": "1-2 hours",
			"best_time":      "morning",
		},
	}
}

func buildTransportTips(destination string) []map[string]any {
	return []map[string]any{
		{
			"type":           "arrival",
			"tip":            fmt.Sprintf("From airport to %s center: taxi (~30 min) or public transport (~45 min)", destination),
			"estimated_cost": "$15-40",
		},
		{
			"type":           "local",
			"tip":            "Walking is recommended for the city center. Consider ride-sharing apps for longer distances.",
			"estimated_cost": "$5-15 per trip",
		},
		{
			"type":           "day_trips",
			"tip":            "Rental cars or organized tours available for nearby attractions",
			"estimated_cost": "$30-80 per day",
		},
	}
}

func buildSuggestions(destination string, duration int, interests []string) []string {
	suggestions := []string{
		"Best photo spots in " + destination + ": city viewpoints and local landmarks",
		"Visit popular attractions early morning to avoid crowds",
		"Pack light layers as weather can vary throughout the day",
	}
	if duration >= 3 {
		suggestions = append(suggestions, "Consider a day trip to nearby attractions on day 2 or 3")
	}
	if duration >= 5 {
		suggestions = append(suggestions, fmt.Sprintf("Build in a rest day around day %d to recharge", duration/2))
	}
	for _, interest := range interests {
		switch strings.ToLower(interest) {
		case "adventure":
			suggestions = append(suggestions, "Book adventure activities in advance, they fill up quickly")
		case "food":
			suggestions = append(suggestions, "Ask locals for restaurant recommendations, the best finds are hidden gems")
		}
	}
	return suggestions
}

// stubWeather stands in until a weather provider is wired up.
func stubWeather() map[string]any {
	return map[string]any{
		"summary": "Partly cloudy with occasional sunshine",
		"temperature": map[string]any{
			"high": 25,
			"low":  18,
			"unit": "celsius",
		},
		"precipitation_chance": 20,
		"recommendation":       "Pack layers and a light rain jacket just in case",
	}
}
