package enums

import "fmt"

// TravelPace sets how many activities an itinerary packs per day.
type TravelPace string

const (
	TravelPaceRelaxed  TravelPace = "relaxed"
	TravelPaceModerate TravelPace = "moderate"
	TravelPacePacked   TravelPace = "packed"
)

var validTravelPaces = []TravelPace{
	TravelPaceRelaxed,
	TravelPaceModerate,
	TravelPacePacked,
}

// String implements fmt.Stringer.
func (t TravelPace) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TravelPace.
func (t TravelPace) IsValid() bool {
	for _, candidate := range validTravelPaces {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTravelPace converts raw input into a TravelPace.
func ParseTravelPace(value string) (TravelPace, error) {
	for _, candidate := range validTravelPaces {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid travel pace %q", value)
}
