package domain

import (
	"fmt"
	"time"
)

// Rating is a user's own submitted rating for a book. Review text and
// moderation live with the review collaborator; only the numeric value
// feeds reading statistics.
type Rating struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Value     int       `json:"value"` // 1-5 stars
}

// ReadingStats is the derived analytics snapshot for a user's library.
// It is computed on demand and never persisted.
type ReadingStats struct {
	BooksReadThisYear int            `json:"books_read_this_year"`
	TotalBooksRead    int            `json:"total_books_read"`
	TotalPages        int            `json:"total_pages"`
	CurrentlyReading  int            `json:"currently_reading"`
	WantToRead        int            `json:"want_to_read"`
	ReadingStreak     int            `json:"reading_streak"`
	AverageRating     string         `json:"average_rating"` // One decimal, or "N/A"
	FavoriteGenre     string         `json:"favorite_genre,omitempty"`
	GenreBreakdown    map[string]int `json:"genre_breakdown"`
	MonthlyReading    [12]int        `json:"monthly_reading"` // Index 0 = January
	Goal              *GoalProgress  `json:"goal,omitempty"`
}

// FormatAverageRating formats the mean of the user's ratings to one
// decimal place, or "N/A" when the user has rated nothing.
func FormatAverageRating(ratings []Rating) string {
	if len(ratings) == 0 {
		return "N/A"
	}
	var sum int
	for _, r := range ratings {
		sum += r.Value
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(ratings)))
}

// CalculateStreak counts consecutive calendar days with qualifying
// activity, walking backward from now. A day with no activity breaks the
// streak, except the current day: a streak reaching through yesterday
// still counts while today is in progress.
func CalculateStreak(activeDays map[time.Time]bool, now time.Time) int {
	day := DayOf(now)

	// Today has no activity yet; the streak is measured through yesterday.
	if !activeDays[day] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for activeDays[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
