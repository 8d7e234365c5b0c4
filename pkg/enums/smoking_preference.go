package enums

import "fmt"

// SmokingPreference records smoking habit and tolerance.
type SmokingPreference string

const (
	SmokingPreferenceNonSmoker    SmokingPreference = "non_smoker"
	SmokingPreferenceSmoker       SmokingPreference = "smoker"
	SmokingPreferenceOutdoorOnly  SmokingPreference = "outdoor_only"
	SmokingPreferenceNoPreference SmokingPreference = "no_preference"
)

var validSmokingPreferences = []SmokingPreference{
	SmokingPreferenceNonSmoker,
	SmokingPreferenceSmoker,
	SmokingPreferenceOutdoorOnly,
	SmokingPreferenceNoPreference,
}

// String implements fmt.Stringer.
func (s SmokingPreference) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SmokingPreference.
func (s SmokingPreference) IsValid() bool {
	for _, candidate := range validSmokingPreferences {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSmokingPreference converts raw input into a SmokingPreference.
func ParseSmokingPreference(value string) (SmokingPreference, error) {
	for _, candidate := range validSmokingPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid smoking preference %q", value)
}
