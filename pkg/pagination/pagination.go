package pagination

const (
	// DefaultLimit is the page size when a caller does not provide one.
	// Matches the discovery feed default.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// NormalizeLimit clamps a requested page size into [1, MaxLimit],
// substituting DefaultLimit for missing or non-positive values.
func NormalizeLimit(limit int) int {
	return Clamp(limit, DefaultLimit, MaxLimit)
}

// Clamp applies a default for non-positive limits and a hard ceiling.
// Surfaces with their own page sizes (chat history, discovery) pass
// their own bounds.
func Clamp(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
