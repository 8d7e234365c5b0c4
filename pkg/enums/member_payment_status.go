package enums

import "fmt"

// MemberPaymentStatus reflects how much of a member's share is paid.
type MemberPaymentStatus string

const (
	MemberPaymentStatusPending  MemberPaymentStatus = "pending"
	MemberPaymentStatusPartial  MemberPaymentStatus = "partial"
	MemberPaymentStatusPaid     MemberPaymentStatus = "paid"
	MemberPaymentStatusRefunded MemberPaymentStatus = "refunded"
)

var validMemberPaymentStatuses = []MemberPaymentStatus{
	MemberPaymentStatusPending,
	MemberPaymentStatusPartial,
	MemberPaymentStatusPaid,
	MemberPaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (m MemberPaymentStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberPaymentStatus.
func (m MemberPaymentStatus) IsValid() bool {
	for _, candidate := range validMemberPaymentStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberPaymentStatus converts raw input into a MemberPaymentStatus.
func ParseMemberPaymentStatus(value string) (MemberPaymentStatus, error) {
	for _, candidate := range validMemberPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member payment status %q", value)
}
