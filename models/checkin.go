package models

import (
	"sort"
	"time"

	"github.com/pontualapp/pontual/utils"
)

// CheckinRecord is one check-in, remote or locally synthesized.
// Records are never mutated after creation.
type CheckinRecord struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Points    int       `json:"points"`
	Offline   bool      `json:"offline,omitempty"`
}

// CheckinStatus is the derived answer to "can this user check in right now".
// It is recomputed on every query and never persisted.
type CheckinStatus struct {
	CanCheckin       bool   `json:"can_checkin"`
	AlreadyCheckedIn bool   `json:"already_checked_in"`
	IsWeekend        bool   `json:"is_weekend"`
	Today            string `json:"today"`
	Reason           string `json:"reason"`
	Message          string `json:"message"`
}

// ComputeStreaks derives the current and longest streak from a check-in history.
// The current streak counts backward from today only when the most recent record
// is from today or yesterday; the longest streak is the best run of
// calendar-consecutive dates anywhere in the history.
func ComputeStreaks(records []CheckinRecord, today time.Time) (current, longest int) {
	if len(records) == 0 {
		return 0, 0
	}

	sorted := make([]CheckinRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	last := sorted[0].Timestamp
	if utils.IsSameDay(today, last) || utils.IsYesterday(today, last) {
		current = 1
		for i := 1; i < len(sorted); i++ {
			if utils.IsConsecutiveDay(sorted[i-1].Timestamp, sorted[i].Timestamp) {
				current++
			} else {
				break
			}
		}
	}

	longest = 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if utils.IsConsecutiveDay(sorted[i-1].Timestamp, sorted[i].Timestamp) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}
