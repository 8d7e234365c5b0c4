package enums

import "fmt"

// RecommendationStrategy names the heuristic that produced a suggestion.
type RecommendationStrategy string

const (
	RecommendationStrategyContentBased  RecommendationStrategy = "content_based"
	RecommendationStrategyCollaborative RecommendationStrategy = "collaborative"
	RecommendationStrategyHistoryBased  RecommendationStrategy = "history_based"
	RecommendationStrategyTrending      RecommendationStrategy = "trending"
)

var validRecommendationStrategies = []RecommendationStrategy{
	RecommendationStrategyContentBased,
	RecommendationStrategyCollaborative,
	RecommendationStrategyHistoryBased,
	RecommendationStrategyTrending,
}

// String implements fmt.Stringer.
func (r RecommendationStrategy) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecommendationStrategy.
func (r RecommendationStrategy) IsValid() bool {
	for _, candidate := range validRecommendationStrategies {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecommendationStrategy converts raw input into a RecommendationStrategy.
func ParseRecommendationStrategy(value string) (RecommendationStrategy, error) {
	for _, candidate := range validRecommendationStrategies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recommendation strategy %q", value)
}
