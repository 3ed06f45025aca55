package domain

import "time"

// DefaultGoalTarget is the annual target assumed when a user has not set
// a goal for the year.
const DefaultGoalTarget = 12

// ReadingGoal is a per-user, per-calendar-year target count of books to
// finish. Looked up by (UserID, Year).
type ReadingGoal struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Year        int       `json:"year"`
	TargetBooks int       `json:"target_books"`
}

// GoalProgress reports progress toward an annual reading goal.
// Percent is kept as floating point; presentation layers round for display.
type GoalProgress struct {
	Target    int     `json:"target"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"percent"`
	Achieved  bool    `json:"achieved"`
}

// NewGoalProgress computes clamped progress toward a target.
// The caller must reject non-positive targets before calling.
func NewGoalProgress(target, completed int) GoalProgress {
	percent := float64(completed) / float64(target) * 100
	if percent > 100 {
		percent = 100
	}
	return GoalProgress{
		Target:    target,
		Completed: completed,
		Percent:   percent,
		Achieved:  percent >= 100,
	}
}
