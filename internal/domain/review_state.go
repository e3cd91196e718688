package domain

import (
	"errors"
	"time"
)

// Scheduling defaults for a card that has never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Day is the scheduling unit for success intervals.
const Day = 24 * time.Hour

// Validation errors for ReviewState
var (
	ErrInvalidInterval        = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor      = errors.New("ease factor must be at least 1.3")
	ErrInvalidRepetitionCount = errors.New("repetition count must be greater than or equal to 0")
)

// ReviewState is the scheduling state of a single card.
// Interval holds interval_days as a duration so that the short retry window
// after a failed recall and whole-day intervals share one unit.
type ReviewState struct {
	RepetitionCount int           `json:"repetition_count"`
	Interval        time.Duration `json:"interval"`
	EaseFactor      float64       `json:"ease_factor"`
	DueAt           *time.Time    `json:"due_at,omitempty"`           // nil until first review
	LastReviewedAt  *time.Time    `json:"last_reviewed_at,omitempty"` // nil until first review
}

// NewReviewState returns the initial state of a never-reviewed card.
func NewReviewState() ReviewState {
	return ReviewState{
		RepetitionCount: 0,
		Interval:        0,
		EaseFactor:      DefaultEaseFactor,
	}
}

// IntervalDays reports the interval as a (possibly fractional) number of days.
func (s ReviewState) IntervalDays() float64 {
	return float64(s.Interval) / float64(Day)
}

// IsNew reports whether the card has never been scheduled.
func (s ReviewState) IsNew() bool {
	return s.DueAt == nil
}

// IsDue reports whether the card has been scheduled and its due time is not
// after now.
func (s ReviewState) IsDue(now time.Time) bool {
	return s.DueAt != nil && !s.DueAt.After(now)
}

// Validate checks if the ReviewState has valid data.
func (s ReviewState) Validate() error {
	if s.RepetitionCount < 0 {
		return ErrInvalidRepetitionCount
	}
	if s.Interval < 0 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	return nil
}

// ScheduleResult is the complete next scheduling state produced by a
// scheduler call. It is applied to a card as a whole or not at all.
type ScheduleResult struct {
	RepetitionCount int           `json:"repetition_count"`
	Interval        time.Duration `json:"interval"`
	EaseFactor      float64       `json:"ease_factor"`
	DueAt           time.Time     `json:"due_at"`
	ReviewedAt      time.Time     `json:"reviewed_at"`
	MasteryTier     MasteryTier   `json:"mastery_tier"`
}

// IntervalDays reports the result interval as a number of days.
func (r ScheduleResult) IntervalDays() float64 {
	return float64(r.Interval) / float64(Day)
}

// State converts the result into the ReviewState it describes.
func (r ScheduleResult) State() ReviewState {
	dueAt := r.DueAt
	reviewedAt := r.ReviewedAt
	return ReviewState{
		RepetitionCount: r.RepetitionCount,
		Interval:        r.Interval,
		EaseFactor:      r.EaseFactor,
		DueAt:           &dueAt,
		LastReviewedAt:  &reviewedAt,
	}
}
