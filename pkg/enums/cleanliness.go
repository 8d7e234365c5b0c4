package enums

import "fmt"

// Cleanliness grades how tidy a roommate keeps shared space.
type Cleanliness string

const (
	CleanlinessVeryClean Cleanliness = "very_clean"
	CleanlinessModerate  Cleanliness = "moderate"
	CleanlinessRelaxed   Cleanliness = "relaxed"
)

var validCleanlinesses = []Cleanliness{
	CleanlinessVeryClean,
	CleanlinessModerate,
	CleanlinessRelaxed,
}

// String implements fmt.Stringer.
func (c Cleanliness) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Cleanliness.
func (c Cleanliness) IsValid() bool {
	for _, candidate := range validCleanlinesses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCleanliness converts raw input into a Cleanliness.
func ParseCleanliness(value string) (Cleanliness, error) {
	for _, candidate := range validCleanlinesses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cleanliness %q", value)
}
