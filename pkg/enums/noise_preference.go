package enums

import "fmt"

// NoisePreference describes the ambient noise a roommate prefers.
type NoisePreference string

const (
	NoisePreferenceQuiet    NoisePreference = "quiet"
	NoisePreferenceModerate NoisePreference = "moderate"
	NoisePreferenceLively   NoisePreference = "lively"
)

var validNoisePreferences = []NoisePreference{
	NoisePreferenceQuiet,
	NoisePreferenceModerate,
	NoisePreferenceLively,
}

// String implements fmt.Stringer.
func (n NoisePreference) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NoisePreference.
func (n NoisePreference) IsValid() bool {
	for _, candidate := range validNoisePreferences {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNoisePreference converts raw input into a NoisePreference.
func ParseNoisePreference(value string) (NoisePreference, error) {
	for _, candidate := range validNoisePreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid noise preference %q", value)
}
