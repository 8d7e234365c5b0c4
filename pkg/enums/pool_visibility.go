package enums

import "fmt"

// PoolVisibility controls who can discover and join a pool.
type PoolVisibility string

const (
	PoolVisibilityPublic  PoolVisibility = "public"
	PoolVisibilityPrivate PoolVisibility = "private"
	PoolVisibilityFriends PoolVisibility = "friends"
)

var validPoolVisibilities = []PoolVisibility{
	PoolVisibilityPublic,
	PoolVisibilityPrivate,
	PoolVisibilityFriends,
}

// String implements fmt.Stringer.
func (v PoolVisibility) String() string {
	return string(v)
}

// IsValid reports whether the value is a known PoolVisibility.
func (v PoolVisibility) IsValid() bool {
	for _, candidate := range validPoolVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParsePoolVisibility converts raw input into a PoolVisibility.
func ParsePoolVisibility(value string) (PoolVisibility, error) {
	for _, candidate := range validPoolVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pool visibility %q", value)
}
