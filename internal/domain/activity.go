package domain

import "time"

// ActivityType represents the kind of reading activity recorded for a day.
type ActivityType string

const (
	// ActivityProgressUpdated is recorded when a user updates pages read.
	ActivityProgressUpdated ActivityType = "progress_updated"

	// ActivityStartedBook is recorded when a book enters CurrentlyReading.
	ActivityStartedBook ActivityType = "started_book"

	// ActivityFinishedBook is recorded when a book enters Read.
	ActivityFinishedBook ActivityType = "finished_book"

	// ActivityShelvedBook is recorded when a book is added to WantToRead.
	// It does not count toward the reading streak.
	ActivityShelvedBook ActivityType = "shelved_book"
)

// QualifiesForStreak returns true if the activity counts toward the
// consecutive-day reading streak.
func (t ActivityType) QualifiesForStreak() bool {
	switch t {
	case ActivityProgressUpdated, ActivityStartedBook, ActivityFinishedBook:
		return true
	default:
		return false
	}
}

// ActivityDay is an append-only record of a user's activity on one
// calendar day. Date is normalized to midnight UTC; Kinds holds the
// distinct activity types seen that day.
type ActivityDay struct {
	Date   time.Time      `json:"date"`
	UserID string         `json:"user_id"`
	Kinds  []ActivityType `json:"kinds"`
}

// HasQualifying returns true if any recorded kind counts toward the streak.
func (d *ActivityDay) HasQualifying() bool {
	for _, k := range d.Kinds {
		if k.QualifiesForStreak() {
			return true
		}
	}
	return false
}

// AddKind records an activity type, keeping Kinds distinct.
// Returns true if the kind was not already present.
func (d *ActivityDay) AddKind(t ActivityType) bool {
	for _, k := range d.Kinds {
		if k == t {
			return false
		}
	}
	d.Kinds = append(d.Kinds, t)
	return true
}

// DayOf normalizes a time to midnight UTC, the granularity at which
// activity is recorded.
func DayOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
