package enums

import "fmt"

// SplitType selects how a pool's total cost is divided.
type SplitType string

const (
	SplitTypeEqual    SplitType = "equal"
	SplitTypeCustom   SplitType = "custom"
	SplitTypeByNights SplitType = "by_nights"
	SplitTypeByBeds   SplitType = "by_beds"
)

var validSplitTypes = []SplitType{
	SplitTypeEqual,
	SplitTypeCustom,
	SplitTypeByNights,
	SplitTypeByBeds,
}

// String implements fmt.Stringer.
func (s SplitType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SplitType.
func (s SplitType) IsValid() bool {
	for _, candidate := range validSplitTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSplitType converts raw input into a SplitType.
func ParseSplitType(value string) (SplitType, error) {
	for _, candidate := range validSplitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid split type %q", value)
}
