package enums

import "fmt"

// PreferredGender is the roommate gender a profile is open to.
type PreferredGender string

const (
	PreferredGenderMale   PreferredGender = "male"
	PreferredGenderFemale PreferredGender = "female"
	PreferredGenderAny    PreferredGender = "any"
)

var validPreferredGenders = []PreferredGender{
	PreferredGenderMale,
	PreferredGenderFemale,
	PreferredGenderAny,
}

// String implements fmt.Stringer.
func (p PreferredGender) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PreferredGender.
func (p PreferredGender) IsValid() bool {
	for _, candidate := range validPreferredGenders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePreferredGender converts raw input into a PreferredGender.
func ParsePreferredGender(value string) (PreferredGender, error) {
	for _, candidate := range validPreferredGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid preferred gender %q", value)
}
