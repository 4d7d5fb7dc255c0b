package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength = 3
	MaxNameLength = 50

	// DateFormat is the calendar day layout used for daily reset bookkeeping.
	DateFormat = "2006-01-02"
)

var (
	ErrNameTooShort = errors.New("habit name must be at least 3 characters")
	ErrNameTooLong  = errors.New("habit name is too long")
)

// Habit represents a single habit tracked once per calendar day.
type Habit struct {
	ID                string
	Name              string
	CreatedAt         time.Time
	CompletedToday    bool
	LastCompletedDate *time.Time
}

// Stats summarises today's completion across all habits.
type Stats struct {
	Total          int
	Completed      int
	Remaining      int
	CompletionRate int
}

// AllDone reports whether every habit is completed and there is at least one.
func (s Stats) AllDone() bool {
	return s.Total > 0 && s.Completed == s.Total
}

// NewStats computes completion statistics for habits.
func NewStats(habits []Habit) Stats {
	total := len(habits)
	completed := 0
	for _, h := range habits {
		if h.CompletedToday {
			completed++
		}
	}
	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return Stats{
		Total:          total,
		Completed:      completed,
		Remaining:      total - completed,
		CompletionRate: rate,
	}
}

// Day returns the local calendar day of t.
func Day(t time.Time) string {
	return t.Local().Format(DateFormat)
}

// ValidateName trims raw and checks it is between MinNameLength and
// MaxNameLength characters. The trimmed name is returned on success.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return "", fmt.Errorf("%q: %w", name, ErrNameTooShort)
	}
	if n > MaxNameLength {
		return "", fmt.Errorf("%d characters: %w", n, ErrNameTooLong)
	}
	return name, nil
}
