package recommendations

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// intentPatterns are checked in order; the first hit wins, so booking
// phrasing is not swallowed by the price patterns below it.
var intentPatterns = []struct {
	intent   enums.ChatIntent
	patterns []string
}{
	{enums.ChatIntentGreeting, []string{"hi", "hello", "hey", "good morning", "good evening", "howdy"}},
	{enums.ChatIntentSearchProperty, []string{"find", "search", "looking for", "show me", "any properties", "places to stay", "accommodation"}},
	{enums.ChatIntentBookingHelp, []string{"book", "reserve", "how to book", "booking", "reservation", "make a booking"}},
	{enums.ChatIntentPriceInquiry, []string{"price", "cost", "how much", "expensive", "cheap", "affordable", "budget"}},
	{enums.ChatIntentRecommendation, []string{"recommend", "suggest", "best", "top rated", "popular", "where should"}},
	{enums.ChatIntentItinerary, []string{"itinerary", "plan", "trip", "schedule", "things to do", "activities"}},
	{enums.ChatIntentSupport, []string{"help", "support", "problem", "issue", "refund", "cancel", "contact"}},
}

var (
	guestCountPattern  = regexp.MustCompile(`(\d+)\s*(guest|people|person|adult)`)
	numericDatePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	monthDatePattern   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}`)
)

var locationKeywords = []string{"in", "at", "near", "around", "to"}

var chatCategories = []string{"beach", "mountain", "city", "countryside", "lake", "tropical", "ski", "desert"}

// Chat classifies the message, answers it and appends both sides of the
// exchange to the session's conversation record.
func (s *service) Chat(ctx context.Context, userID *uuid.UUID, input ChatInput) (ChatResponseDTO, error) {
	message := strings.ToLower(strings.TrimSpace(input.Message))
	if message == "" {
		return ChatResponseDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	sessionID := uuid.NewString()
	if input.SessionID != nil && *input.SessionID != "" {
		sessionID = *input.SessionID
	}

	intent, entities := classifyIntent(message)
	response, err := s.respond(ctx, intent, entities, message, userID)
	if err != nil {
		return ChatResponseDTO{}, err
	}
	response.SessionID = sessionID
	response.Intent = intent
	response.Entities = entities

	if err := s.persistExchange(ctx, sessionID, userID, message, response); err != nil {
		if s.log != nil {
			s.log.Warn(ctx, "chatbot conversation not persisted: "+err.Error())
		}
	}
	return response, nil
}

func (s *service) persistExchange(ctx context.Context, sessionID string, userID *uuid.UUID, message string, response ChatResponseDTO) error {
	conversation, err := s.repo.GetOrCreateConversation(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if conversation.Messages == nil {
		conversation.Messages = types.JSONMap{}
	}

	entries, _ := conversation.Messages["entries"].([]any)
	entries = append(entries,
		map[string]any{"role": "user", "text": message, "intent": response.Intent.String()},
		map[string]any{"role": "bot", "text": response.Response, "intent": response.Intent.String()},
	)
	conversation.Messages["entries"] = entries
	return s.repo.SaveConversation(ctx, &conversation)
}

// classifyIntent matches keyword patterns and pulls out location, guest
// count, category and date mentions.
func classifyIntent(message string) (enums.ChatIntent, map[string]any) {
	entities := map[string]any{}

	intent := enums.ChatIntentGeneral
	for _, group := range intentPatterns {
		for _, pattern := range group.patterns {
			if strings.Contains(message, pattern) {
				intent = group.intent
				break
			}
		}
		if intent != enums.ChatIntentGeneral {
			break
		}
	}

	if location := extractLocation(message); location != "" {
		entities["location"] = location
	}
	if match := guestCountPattern.FindStringSubmatch(message); match != nil {
		if guests, err := strconv.Atoi(match[1]); err == nil {
			entities["guests"] = guests
		}
	}
	if match := numericDatePattern.FindString(message); match != "" {
		entities["date_mentioned"] = match
	} else if match := monthDatePattern.FindString(message); match != "" {
		entities["date_mentioned"] = match
	}
	for _, category := range chatCategories {
		if strings.Contains(message, category) {
			entities["category"] = titleCase(category)
			break
		}
	}
	return intent, entities
}

// extractLocation takes the first word after a location preposition.
func extractLocation(message string) string {
	padded := " " + message + " "
	for _, keyword := range locationKeywords {
		marker := " " + keyword + " "
		idx := strings.Index(padded, marker)
		if idx < 0 {
			continue
		}
		rest := strings.Fields(padded[idx+len(marker):])
		if len(rest) == 0 {
			continue
		}
		candidate := strings.Trim(rest[0], ".,!?")
		if len(candidate) > 2 {
			return titleCase(candidate)
		}
	}
	return ""
}

func (s *service) respond(ctx context.Context, intent enums.ChatIntent, entities map[string]any, message string, userID *uuid.UUID) (ChatResponseDTO, error) {
	switch intent {
	case enums.ChatIntentGreeting:
		return s.greetingResponse(), nil
	case enums.ChatIntentSearchProperty:
		return s.searchResponse(ctx, entities)
	case enums.ChatIntentBookingHelp:
		return bookingHelpResponse(), nil
	case enums.ChatIntentPriceInquiry:
		return s.priceInquiryResponse(ctx, entities)
	case enums.ChatIntentRecommendation:
		return s.recommendationResponse(ctx, entities)
	case enums.ChatIntentItinerary:
		return itineraryPromptResponse(entities), nil
	case enums.ChatIntentSupport:
		return supportResponse(message), nil
	default:
		return generalResponse(), nil
	}
}

func (s *service) greetingResponse() ChatResponseDTO {
	return ChatResponseDTO{
		Response: "Hello! Welcome to FlexBnB. I'm here to help you find the perfect stay. What are you looking for today?",
		Suggestions: []ChatSuggestionDTO{
			{Text: "Search properties", Action: "search"},
			{Text: "Get recommendations", Action: "recommend"},
			{Text: "Plan a trip", Action: "itinerary"},
			{Text: "Check prices", Action: "pricing"},
		},
		FollowUp: []string{
			"Where would you like to stay?",
			"What type of property are you looking for?",
			"When are you planning to travel?",
		},
	}
}

func (s *service) searchResponse(ctx context.Context, entities map[string]any) (ChatResponseDTO, error) {
	filter := PropertyFilter{}
	parts := []string{"I'll help you find the perfect place! "}

	if location, ok := entities["location"].(string); ok {
		filter.Locations = []string{location}
		parts = append(parts, fmt.Sprintf("Searching in %s. ", location))
	}
	if category, ok := entities["category"].(string); ok {
		filter.Categories = []string{category}
		parts = append(parts, fmt.Sprintf("Looking for %s properties. ", category))
	}
	if guests, ok := entities["guests"].(int); ok {
		filter.MinGuests = guests
		parts = append(parts, fmt.Sprintf("For %d guests. ", guests))
	}

	properties, err := s.repo.ListProperties(ctx, filter, strategyBatch)
	if err != nil {
		return ChatResponseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search listings")
	}

	if len(properties) == 0 {
		fallback, err := s.repo.ListProperties(ctx, PropertyFilter{}, strategyBatch)
		if err != nil {
			return ChatResponseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fallback listings")
		}
		summaries, err := s.summarize(ctx, fallback)
		if err != nil {
			return ChatResponseDTO{}, err
		}
		return ChatResponseDTO{
			Response:   "I couldn't find exact matches, but here are some popular alternatives:",
			Properties: summaries,
			Suggestions: []ChatSuggestionDTO{
				{Text: "Try different location", Action: "search"},
				{Text: "Expand search criteria", Action: "search"},
				{Text: "View all properties", URL: "/search"},
			},
		}, nil
	}

	summaries, err := s.summarize(ctx, properties)
	if err != nil {
		return ChatResponseDTO{}, err
	}
	parts = append(parts, fmt.Sprintf("I found %d great options for you!", len(properties)))
	return ChatResponseDTO{
		Response:   strings.Join(parts, ""),
		Properties: summaries,
		Actions: []ChatSuggestionDTO{
			{Text: "View all results", URL: "/search"},
			{Text: "Refine search", Action: "refine"},
		},
		FollowUp: []string{
			"Would you like to filter by price?",
			"Need more bedrooms?",
			"Looking for specific amenities?",
		},
	}, nil
}

func bookingHelpResponse() ChatResponseDTO {
	return ChatResponseDTO{
		Response: "How to book on FlexBnB: find a property, select your dates, review the price and policies, then click Reserve and complete payment. You'll get a confirmation email. Need help with a specific step?",
		Suggestions: []ChatSuggestionDTO{
			{Text: "Start searching", URL: "/search"},
			{Text: "View my reservations", URL: "/reservations"},
			{Text: "Contact support", Action: "support"},
		},
		FollowUp: []string{
			"Are you having trouble with a specific booking?",
			"Would you like to know about our cancellation policy?",
		},
	}
}

func (s *service) priceInquiryResponse(ctx context.Context, entities map[string]any) (ChatResponseDTO, error) {
	location, _ := entities["location"].(string)

	stats, err := s.repo.PriceStatsForLocation(ctx, location)
	if err != nil {
		return ChatResponseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price stats")
	}
	if stats.Count == 0 {
		return ChatResponseDTO{
			Response: "Tell me your destination and I'll show you the best prices! Where are you planning to go?",
			FollowUp: []string{"What's your budget per night?", "Which city or country?"},
		}, nil
	}

	label := location
	if label == "" {
		label = "your destination"
	}
	return ChatResponseDTO{
		Response: fmt.Sprintf(
			"Price insights for %s: average $%s/night, budget-friendly from $%s/night, premium up to $%s/night. Tip: weekday stays and off-peak months are 15-20%% cheaper.",
			label, stats.Average.StringFixed(0), stats.Min.StringFixed(0), stats.Max.StringFixed(0),
		),
		Actions: []ChatSuggestionDTO{
			{Text: "View price trends", URL: "/pricing-insights"},
			{Text: "Search by budget", Action: "search_budget"},
		},
	}, nil
}

func (s *service) recommendationResponse(ctx context.Context, entities map[string]any) (ChatResponseDTO, error) {
	filter := PropertyFilter{}
	if location, ok := entities["location"].(string); ok {
		filter.Locations = []string{location}
	}
	if category, ok := entities["category"].(string); ok {
		filter.Categories = []string{category}
	}

	properties, err := s.repo.ListProperties(ctx, filter, strategyBatch)
	if err != nil {
		return ChatResponseDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recommendations")
	}
	if len(properties) == 0 {
		return ChatResponseDTO{
			Response: "I'd love to recommend the perfect place! Tell me where you'd like to go, what type of experience you want, and your travel dates.",
			Suggestions: []ChatSuggestionDTO{
				{Text: "Beach getaway", Action: "recommend_beach"},
				{Text: "Mountain escape", Action: "recommend_mountain"},
				{Text: "City adventure", Action: "recommend_city"},
			},
		}, nil
	}

	summaries, err := s.summarize(ctx, properties)
	if err != nil {
		return ChatResponseDTO{}, err
	}
	scope := "our platform"
	if location, ok := entities["location"].(string); ok {
		scope = location
	}
	return ChatResponseDTO{
		Response:   fmt.Sprintf("Top recommended properties in %s. Here are our highest-rated stays, loved by travelers!", scope),
		Properties: summaries,
		FollowUp: []string{
			"Want recommendations for a specific type?",
			"Need family-friendly options?",
			"Looking for romantic getaways?",
		},
	}, nil
}

func itineraryPromptResponse(entities map[string]any) ChatResponseDTO {
	suffix := ""
	if location, ok := entities["location"].(string); ok {
		suffix = " to " + location
	}
	return ChatResponseDTO{
		Response: fmt.Sprintf("I can help you plan the perfect trip%s! Tell me where you are traveling, your dates, and what interests you (adventure, culture, food, relaxation) and I'll create a day-by-day itinerary.", suffix),
		Actions: []ChatSuggestionDTO{
			{Text: "Open itinerary planner", URL: "/itinerary-planner"},
			{Text: "View my itineraries", URL: "/my-itineraries"},
		},
		FollowUp: []string{
			"How many days will you be traveling?",
			"Do you prefer packed schedules or relaxed pace?",
			"Any must-see attractions?",
		},
	}
}

func supportResponse(message string) ChatResponseDTO {
	for _, word := range []string{"refund", "money back", "cancel"} {
		if strings.Contains(message, word) {
			return ChatResponseDTO{
				Response: "Cancellation policy depends on the property. Generally: free cancellation 48+ hours before check-in, partial refund 24-48 hours before, no refund under 24 hours. To cancel, open My Reservations, select the booking and click Cancel Reservation.",
				Actions: []ChatSuggestionDTO{
					{Text: "My Reservations", URL: "/reservations"},
					{Text: "Contact Support", URL: "/support"},
				},
			}
		}
	}
	return ChatResponseDTO{
		Response: "I'm here to assist with finding properties, booking assistance, pricing questions, trip planning and general inquiries. What do you need help with?",
		Suggestions: []ChatSuggestionDTO{
			{Text: "Cancellation help", Action: "support_cancel"},
			{Text: "Payment issues", Action: "support_payment"},
			{Text: "Property questions", Action: "support_property"},
			{Text: "Contact human support", URL: "/support"},
		},
	}
}

func generalResponse() ChatResponseDTO {
	return ChatResponseDTO{
		Response: "I'm not sure I understood that. I can help you find properties, get personalized recommendations, check price insights, plan trips and walk you through booking. What would you like to explore?",
		Suggestions: []ChatSuggestionDTO{
			{Text: "Search properties", Action: "search"},
			{Text: "Get recommendations", Action: "recommend"},
			{Text: "Check prices", Action: "pricing"},
			{Text: "Plan a trip", Action: "itinerary"},
		},
	}
}

func (s *service) summarize(ctx context.Context, properties []models.Property) ([]PropertySummaryDTO, error) {
	items, err := s.toRecommendations(ctx, properties, enums.RecommendationStrategyContentBased)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ratings")
	}
	summaries := make([]PropertySummaryDTO, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, item.Property)
	}
	return summaries, nil
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
