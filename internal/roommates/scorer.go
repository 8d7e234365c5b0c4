package roommates

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// Dimension maxima for the compatibility score.
const (
	genderMax      = 15
	sleepMax       = 20
	cleanlinessMax = 20
	noiseMax       = 15
	smokingMax     = 15
	interestsMax   = 15

	interestPoints     = 5
	sharedInterestsCap = 3
	neutralInterests   = 5
)

// DimensionScore is one row of the per-dimension breakdown.
type DimensionScore struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// CompatibilityResult is the outcome of scoring one candidate against a
// reference profile. Score is normalized to 0-100.
type CompatibilityResult struct {
	Score           int                       `json:"score"`
	Reasons         []string                  `json:"reasons"`
	Breakdown       map[string]DimensionScore `json:"breakdown"`
	SharedInterests []string                  `json:"shared_interests,omitempty"`
}

// Scorer computes pairwise compatibility between roommate profiles.
// The gender dimension is directional, so Score(a, b) is not guaranteed
// to equal Score(b, a).
type Scorer interface {
	Score(a, b models.RoommateProfile) CompatibilityResult
}

type lifestyleScorer struct{}

// NewScorer returns the default lifestyle-based compatibility scorer.
func NewScorer() Scorer {
	return lifestyleScorer{}
}

func (lifestyleScorer) Score(a, b models.RoommateProfile) CompatibilityResult {
	achieved := 0
	possible := 0
	reasons := make([]string, 0, 4)
	breakdown := make(map[string]DimensionScore, 6)

	add := func(name string, score, max int) {
		achieved += score
		possible += max
		breakdown[name] = DimensionScore{Score: score, Max: max}
	}

	add("gender", genderScore(a, b), genderMax)

	sleep := sleepScore(a, b)
	if sleep == sleepMax {
		reasons = append(reasons, fmt.Sprintf("Same sleep schedule (%s)", a.SleepSchedule))
	}
	add("sleep", sleep, sleepMax)

	clean := cleanlinessScore(a, b)
	if clean == cleanlinessMax {
		reasons = append(reasons, "Similar cleanliness standards")
	}
	add("cleanliness", clean, cleanlinessMax)

	noise := noiseScore(a, b)
	if noise == noiseMax {
		reasons = append(reasons, fmt.Sprintf("Both prefer %s noise levels", a.NoisePreference))
	}
	add("noise", noise, noiseMax)

	add("smoking", smokingScore(a, b), smokingMax)

	interests, shared := interestsScore(a, b)
	if len(shared) >= sharedInterestsCap {
		preview := shared
		if len(preview) > sharedInterestsCap {
			preview = preview[:sharedInterestsCap]
		}
		reasons = append(reasons, fmt.Sprintf("Share %d interests: %s", len(shared), strings.Join(preview, ", ")))
	}
	add("interests", interests, interestsMax)

	final := 0
	if possible > 0 {
		final = int(math.Round(100 * float64(achieved) / float64(possible)))
	}

	return CompatibilityResult{
		Score:           final,
		Reasons:         reasons,
		Breakdown:       breakdown,
		SharedInterests: shared,
	}
}

// genderScore is the directional dimension. Full credit only when both
// sides' stated preferences are satisfied, half when only a's is.
func genderScore(a, b models.RoommateProfile) int {
	if !preferenceSatisfied(a.PreferredGender, b.Gender) {
		return 0
	}
	if preferenceSatisfied(b.PreferredGender, a.Gender) {
		return genderMax
	}
	return 7
}

func preferenceSatisfied(preferred enums.PreferredGender, actual enums.Gender) bool {
	return preferred == enums.PreferredGenderAny || string(preferred) == string(actual)
}

func sleepScore(a, b models.RoommateProfile) int {
	switch {
	case a.SleepSchedule == b.SleepSchedule:
		return sleepMax
	case a.SleepSchedule == enums.SleepScheduleFlexible || b.SleepSchedule == enums.SleepScheduleFlexible:
		return 15
	default:
		return 0
	}
}

var cleanlinessRank = map[enums.Cleanliness]int{
	enums.CleanlinessVeryClean: 0,
	enums.CleanlinessModerate:  1,
	enums.CleanlinessRelaxed:   2,
}

func cleanlinessScore(a, b models.RoommateProfile) int {
	if a.Cleanliness == b.Cleanliness {
		return cleanlinessMax
	}
	distance := cleanlinessRank[a.Cleanliness] - cleanlinessRank[b.Cleanliness]
	if distance == 1 || distance == -1 {
		return 10
	}
	return 0
}

func noiseScore(a, b models.RoommateProfile) int {
	switch {
	case a.NoisePreference == b.NoisePreference:
		return noiseMax
	case a.NoisePreference == enums.NoisePreferenceModerate || b.NoisePreference == enums.NoisePreferenceModerate:
		return 8
	default:
		return 0
	}
}

func smokingScore(a, b models.RoommateProfile) int {
	switch {
	case a.SmokingPreference == b.SmokingPreference:
		return smokingMax
	case a.SmokingPreference == enums.SmokingPreferenceNoPreference || b.SmokingPreference == enums.SmokingPreferenceNoPreference:
		return 12
	case isHardSmokingConflict(a.SmokingPreference, b.SmokingPreference):
		return 0
	default:
		return 7
	}
}

func isHardSmokingConflict(x, y enums.SmokingPreference) bool {
	return (x == enums.SmokingPreferenceNonSmoker && y == enums.SmokingPreferenceSmoker) ||
		(x == enums.SmokingPreferenceSmoker && y == enums.SmokingPreferenceNonSmoker)
}

// interestsScore returns the dimension score and the sorted shared set.
// Missing data on either side yields a neutral score instead of zero.
func interestsScore(a, b models.RoommateProfile) (int, []string) {
	if len(a.Interests) == 0 || len(b.Interests) == 0 {
		return neutralInterests, nil
	}

	seen := make(map[string]struct{}, len(a.Interests))
	for _, interest := range a.Interests {
		seen[interest] = struct{}{}
	}

	shared := make([]string, 0, sharedInterestsCap)
	for _, interest := range b.Interests {
		if _, ok := seen[interest]; ok {
			shared = append(shared, interest)
			delete(seen, interest)
		}
	}
	sort.Strings(shared)

	score := len(shared) * interestPoints
	if score > interestsMax {
		score = interestsMax
	}
	return score, shared
}
