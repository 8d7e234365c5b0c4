package enums

import "fmt"

// PoolStatus tracks a room pool through its lifecycle.
type PoolStatus string

const (
	PoolStatusOpen      PoolStatus = "open"
	PoolStatusFull      PoolStatus = "full"
	PoolStatusClosed    PoolStatus = "closed"
	PoolStatusBooked    PoolStatus = "booked"
	PoolStatusCompleted PoolStatus = "completed"
	PoolStatusCancelled PoolStatus = "cancelled"
)

var validPoolStatuses = []PoolStatus{
	PoolStatusOpen,
	PoolStatusFull,
	PoolStatusClosed,
	PoolStatusBooked,
	PoolStatusCompleted,
	PoolStatusCancelled,
}

// String implements fmt.Stringer.
func (p PoolStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PoolStatus.
func (p PoolStatus) IsValid() bool {
	for _, candidate := range validPoolStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePoolStatus converts raw input into a PoolStatus.
func ParsePoolStatus(value string) (PoolStatus, error) {
	for _, candidate := range validPoolStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pool status %q", value)
}
