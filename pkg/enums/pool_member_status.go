package enums

import "fmt"

// PoolMemberStatus captures a member's standing within a pool.
type PoolMemberStatus string

const (
	PoolMemberStatusPending  PoolMemberStatus = "pending"
	PoolMemberStatusApproved PoolMemberStatus = "approved"
	PoolMemberStatusRejected PoolMemberStatus = "rejected"
	PoolMemberStatusLeft     PoolMemberStatus = "left"
	PoolMemberStatusRemoved  PoolMemberStatus = "removed"
)

var validPoolMemberStatuses = []PoolMemberStatus{
	PoolMemberStatusPending,
	PoolMemberStatusApproved,
	PoolMemberStatusRejected,
	PoolMemberStatusLeft,
	PoolMemberStatusRemoved,
}

// String implements fmt.Stringer.
func (m PoolMemberStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PoolMemberStatus.
func (m PoolMemberStatus) IsValid() bool {
	for _, candidate := range validPoolMemberStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePoolMemberStatus converts raw input into a PoolMemberStatus.
func ParsePoolMemberStatus(value string) (PoolMemberStatus, error) {
	for _, candidate := range validPoolMemberStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pool member status %q", value)
}
