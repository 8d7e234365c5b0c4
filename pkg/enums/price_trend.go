package enums

import "fmt"

// PriceTrend summarizes recent price movement for a market.
type PriceTrend string

const (
	PriceTrendRising  PriceTrend = "rising"
	PriceTrendFalling PriceTrend = "falling"
	PriceTrendStable  PriceTrend = "stable"
)

var validPriceTrends = []PriceTrend{
	PriceTrendRising,
	PriceTrendFalling,
	PriceTrendStable,
}

// String implements fmt.Stringer.
func (p PriceTrend) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceTrend.
func (p PriceTrend) IsValid() bool {
	for _, candidate := range validPriceTrends {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceTrend converts raw input into a PriceTrend.
func ParsePriceTrend(value string) (PriceTrend, error) {
	for _, candidate := range validPriceTrends {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price trend %q", value)
}
