package enums

import "fmt"

// DemandLevel grades booking pressure on a property.
type DemandLevel string

const (
	DemandLevelVeryHigh DemandLevel = "very_high"
	DemandLevelHigh     DemandLevel = "high"
	DemandLevelMedium   DemandLevel = "medium"
	DemandLevelLow      DemandLevel = "low"
)

var validDemandLevels = []DemandLevel{
	DemandLevelVeryHigh,
	DemandLevelHigh,
	DemandLevelMedium,
	DemandLevelLow,
}

// String implements fmt.Stringer.
func (d DemandLevel) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DemandLevel.
func (d DemandLevel) IsValid() bool {
	for _, candidate := range validDemandLevels {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDemandLevel converts raw input into a DemandLevel.
func ParseDemandLevel(value string) (DemandLevel, error) {
	for _, candidate := range validDemandLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid demand level %q", value)
}
