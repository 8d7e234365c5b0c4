package recommendations

import "sort"

// Scorer ranks a deduplicated suggestion list. Implementations set the
// Score on every entry and return the list sorted best-first.
type Scorer interface {
	Rank(items []RecommendationDTO) []RecommendationDTO
}

// heuristicScorer scores by first-seen position with a rating boost. A
// suggestion surfaced earlier by any strategy outranks a later one unless
// the later listing's reviews pull it up.
type heuristicScorer struct{}

// NewScorer returns the default position-and-rating scorer.
func NewScorer() Scorer {
	return heuristicScorer{}
}

func (heuristicScorer) Rank(items []RecommendationDTO) []RecommendationDTO {
	for i := range items {
		score := 100 - float64(i)*5 + items[i].Property.AverageRating*10
		if score > 100 {
			score = 100
		}
		items[i].Score = score
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}
