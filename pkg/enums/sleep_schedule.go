package enums

import "fmt"

// SleepSchedule describes when a roommate tends to sleep.
type SleepSchedule string

const (
	SleepScheduleEarlyBird SleepSchedule = "early_bird"
	SleepScheduleNightOwl  SleepSchedule = "night_owl"
	SleepScheduleFlexible  SleepSchedule = "flexible"
)

var validSleepSchedules = []SleepSchedule{
	SleepScheduleEarlyBird,
	SleepScheduleNightOwl,
	SleepScheduleFlexible,
}

// String implements fmt.Stringer.
func (s SleepSchedule) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SleepSchedule.
func (s SleepSchedule) IsValid() bool {
	for _, candidate := range validSleepSchedules {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSleepSchedule converts raw input into a SleepSchedule.
func ParseSleepSchedule(value string) (SleepSchedule, error) {
	for _, candidate := range validSleepSchedules {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sleep schedule %q", value)
}
