package enums

import "fmt"

// AgeGroup buckets profile ages for matching.
type AgeGroup string

const (
	AgeGroup18To25 AgeGroup = "18_25"
	AgeGroup26To35 AgeGroup = "26_35"
	AgeGroup36To45 AgeGroup = "36_45"
	AgeGroup46Plus AgeGroup = "46_plus"
)

var validAgeGroups = []AgeGroup{
	AgeGroup18To25,
	AgeGroup26To35,
	AgeGroup36To45,
	AgeGroup46Plus,
}

// String implements fmt.Stringer.
func (a AgeGroup) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AgeGroup.
func (a AgeGroup) IsValid() bool {
	for _, candidate := range validAgeGroups {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAgeGroup converts raw input into an AgeGroup.
func ParseAgeGroup(value string) (AgeGroup, error) {
	for _, candidate := range validAgeGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid age group %q", value)
}
