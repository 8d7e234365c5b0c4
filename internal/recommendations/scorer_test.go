package recommendations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(rating float64) RecommendationDTO {
	return RecommendationDTO{
		Property: PropertySummaryDTO{ID: uuid.New(), AverageRating: rating},
	}
}

func TestRankScoresByPosition(t *testing.T) {
	items := []RecommendationDTO{rec(0), rec(0), rec(0)}
	first := items[0].Property.ID

	ranked := NewScorer().Rank(items)
	require.Len(t, ranked, 3)

	assert.Equal(t, first, ranked[0].Property.ID)
	assert.InDelta(t, 100, ranked[0].Score, 0.01)
	assert.InDelta(t, 95, ranked[1].Score, 0.01)
	assert.InDelta(t, 90, ranked[2].Score, 0.01)
}

func TestRankRatingBoostReorders(t *testing.T) {
	items := []RecommendationDTO{rec(0), rec(0), rec(0.8)}
	boosted := items[2].Property.ID

	// Position alone gives 90; the 0.8 rating lifts it past second place.
	ranked := NewScorer().Rank(items)
	assert.Equal(t, boosted, ranked[1].Property.ID)
	assert.InDelta(t, 98, ranked[1].Score, 0.01)
}

func TestRankCapsAtHundred(t *testing.T) {
	ranked := NewScorer().Rank([]RecommendationDTO{rec(5)})
	require.Len(t, ranked, 1)
	assert.InDelta(t, 100, ranked[0].Score, 0.01)
}
