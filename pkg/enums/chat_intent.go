package enums

import "fmt"

// ChatIntent is the classified purpose of a chatbot message.
type ChatIntent string

const (
	ChatIntentGreeting       ChatIntent = "greeting"
	ChatIntentSearchProperty ChatIntent = "search_property"
	ChatIntentBookingHelp    ChatIntent = "booking_help"
	ChatIntentPriceInquiry   ChatIntent = "price_inquiry"
	ChatIntentRecommendation ChatIntent = "recommendation"
	ChatIntentItinerary      ChatIntent = "itinerary"
	ChatIntentSupport        ChatIntent = "support"
	ChatIntentGeneral        ChatIntent = "general"
)

var validChatIntents = []ChatIntent{
	ChatIntentGreeting,
	ChatIntentSearchProperty,
	ChatIntentBookingHelp,
	ChatIntentPriceInquiry,
	ChatIntentRecommendation,
	ChatIntentItinerary,
	ChatIntentSupport,
	ChatIntentGeneral,
}

// String implements fmt.Stringer.
func (c ChatIntent) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatIntent.
func (c ChatIntent) IsValid() bool {
	for _, candidate := range validChatIntents {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatIntent converts raw input into a ChatIntent.
func ParseChatIntent(value string) (ChatIntent, error) {
	for _, candidate := range validChatIntents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat intent %q", value)
}
