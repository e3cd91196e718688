package srs

import (
	"math"
	"testing"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewedAt = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func scheduled(rep int, interval time.Duration, ef float64) domain.ReviewState {
	due := reviewedAt.Add(-time.Hour)
	last := due.Add(-interval)
	return domain.ReviewState{
		RepetitionCount: rep,
		Interval:        interval,
		EaseFactor:      ef,
		DueAt:           &due,
		LastReviewedAt:  &last,
	}
}

func TestComputeNextScheduleFirstGood(t *testing.T) {
	t.Parallel()

	result, err := ComputeNextSchedule(domain.NewReviewState(), domain.RatingGood, reviewedAt)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RepetitionCount)
	assert.Equal(t, domain.Day, result.Interval)
	assert.InDelta(t, 2.5, result.EaseFactor, 1e-9)
	assert.Equal(t, reviewedAt.Add(domain.Day), result.DueAt)
	assert.Equal(t, reviewedAt, result.ReviewedAt)
}

func TestComputeNextScheduleAgainAfterLongInterval(t *testing.T) {
	t.Parallel()

	state := scheduled(3, 200000*time.Second, 2.3)
	result, err := ComputeNextSchedule(state, domain.RatingAgain, reviewedAt)
	require.NoError(t, err)

	assert.Equal(t, 0, result.RepetitionCount)
	assert.Equal(t, 300*time.Second, result.Interval)
	assert.InDelta(t, 2.1, result.EaseFactor, 1e-9)
	assert.Equal(t, reviewedAt.Add(300*time.Second), result.DueAt)
}

func TestComputeNextScheduleRejectsInvalidRating(t *testing.T) {
	t.Parallel()

	for _, rating := range []domain.Rating{0, 5, -3} {
		_, err := ComputeNextSchedule(domain.NewReviewState(), rating, reviewedAt)
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		rating   domain.Rating
		expected float64
	}{
		{name: "Again subtracts penalty", current: 2.5, rating: domain.RatingAgain, expected: 2.3},
		{name: "Hard lowers ease", current: 2.5, rating: domain.RatingHard, expected: 2.36},
		{name: "Good keeps ease", current: 2.5, rating: domain.RatingGood, expected: 2.5},
		{name: "Easy raises ease", current: 2.5, rating: domain.RatingEasy, expected: 2.6},
		{name: "Again clamps at floor", current: 1.35, rating: domain.RatingAgain, expected: 1.3},
		{name: "Hard clamps at floor", current: 1.3, rating: domain.RatingHard, expected: 1.3},
		{name: "No upper bound", current: 4.0, rating: domain.RatingEasy, expected: 4.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewEaseFactor(tc.current, tc.rating, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		previous   float64
		repetition int
		ef         float64
		rating     domain.Rating
		expected   int
	}{
		{name: "first repetition", previous: 0, repetition: 1, ef: 2.5, rating: domain.RatingGood, expected: 1},
		{name: "second repetition", previous: 1, repetition: 2, ef: 2.5, rating: domain.RatingGood, expected: 6},
		{name: "third repetition multiplies", previous: 6, repetition: 3, ef: 2.5, rating: domain.RatingGood, expected: 15},
		{name: "rounds to nearest day", previous: 6, repetition: 3, ef: 2.36, rating: domain.RatingGood, expected: 14},
		{name: "hard scales down", previous: 6, repetition: 3, ef: 2.5, rating: domain.RatingHard, expected: 12},
		{name: "hard floors at one day", previous: 0, repetition: 1, ef: 1.3, rating: domain.RatingHard, expected: 1},
		{name: "easy scales up", previous: 6, repetition: 3, ef: 2.5, rating: domain.RatingEasy, expected: 20},
		{name: "easy on second repetition", previous: 1, repetition: 2, ef: 2.6, rating: domain.RatingEasy, expected: 8},
		{name: "zero previous interval floors at one day", previous: 0, repetition: 5, ef: 2.5, rating: domain.RatingGood, expected: 1},
		{name: "capped at maximum", previous: 30000, repetition: 9, ef: 2.5, rating: domain.RatingGood, expected: 36500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewInterval(tc.previous, tc.repetition, tc.ef, tc.rating, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestConsecutiveGoodRatings(t *testing.T) {
	t.Parallel()

	state := domain.NewReviewState()
	now := reviewedAt
	var days []float64

	for i := 0; i < 6; i++ {
		result, err := ComputeNextSchedule(state, domain.RatingGood, now)
		require.NoError(t, err)
		days = append(days, result.IntervalDays())
		state = result.State()
		now = result.DueAt
	}

	require.Len(t, days, 6)
	assert.Equal(t, 1.0, days[0])
	assert.Equal(t, 6.0, days[1])
	assert.Equal(t, math.Round(6*2.5), days[2])
	for i := 1; i < len(days); i++ {
		assert.GreaterOrEqual(t, days[i], days[i-1], "intervals must not shrink on Good")
	}
}

func TestEasyAdvancesRepetitionExtraStep(t *testing.T) {
	t.Parallel()

	result, err := ComputeNextSchedule(domain.NewReviewState(), domain.RatingEasy, reviewedAt)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RepetitionCount)
	assert.Equal(t, domain.Day, result.Interval)
	assert.InDelta(t, 2.6, result.EaseFactor, 1e-9)

	// The next Good uses the multiplied interval instead of the fixed second step.
	next, err := ComputeNextSchedule(result.State(), domain.RatingGood, result.DueAt)
	require.NoError(t, err)
	assert.Equal(t, 3, next.RepetitionCount)
	assert.Equal(t, 3*domain.Day, next.Interval)
}

func TestScheduleInvariants(t *testing.T) {
	t.Parallel()

	states := []domain.ReviewState{
		domain.NewReviewState(),
		scheduled(1, domain.Day, 1.3),
		scheduled(2, 6*domain.Day, 1.31),
		scheduled(7, 90*domain.Day, 2.9),
		scheduled(0, 5*time.Minute, 1.5),
	}

	for _, state := range states {
		for _, rating := range domain.AllRatings() {
			result, err := ComputeNextSchedule(state, rating, reviewedAt)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, result.EaseFactor, domain.MinEaseFactor)
			assert.Equal(t, reviewedAt.Add(result.Interval), result.DueAt)

			if rating == domain.RatingAgain {
				assert.Equal(t, 0, result.RepetitionCount)
				assert.Equal(t, 5*time.Minute, result.Interval)
				continue
			}
			assert.GreaterOrEqual(t, result.Interval, domain.Day)
			assert.Equal(t, time.Duration(0), result.Interval%domain.Day, "success intervals are whole days")
		}
	}
}

func TestComputeNextScheduleIsDeterministic(t *testing.T) {
	t.Parallel()

	state := scheduled(4, 20*domain.Day, 2.2)
	for _, rating := range domain.AllRatings() {
		first, err := ComputeNextSchedule(state, rating, reviewedAt)
		require.NoError(t, err)
		second, err := ComputeNextSchedule(state, rating, reviewedAt)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestCalculateBinarySchedule(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	state := domain.NewReviewState()
	var days []int
	for i := 0; i < 7; i++ {
		result := calculateBinarySchedule(state, domain.RatingHard, reviewedAt, params)
		days = append(days, int(result.IntervalDays()))
		assert.InDelta(t, 2.5, result.EaseFactor, 1e-9)
		state = result.State()
	}
	assert.Equal(t, []int{1, 3, 7, 15, 30, 30, 30}, days)

	forgotten := calculateBinarySchedule(state, domain.RatingAgain, reviewedAt, params)
	assert.Equal(t, 0, forgotten.RepetitionCount)
	assert.Equal(t, params.AgainRetry, forgotten.Interval)
	assert.InDelta(t, 2.5, forgotten.EaseFactor, 1e-9)
}

func TestCalculateTieredSchedule(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		tier         domain.MasteryTier
		rating       domain.Rating
		expectedTier domain.MasteryTier
		expectedDays float64
	}{
		{name: "again drops to needs reinforcement", tier: domain.TierWellKnown, rating: domain.RatingAgain, expectedTier: domain.TierNeedsReinforcement},
		{name: "hard keeps tier", tier: domain.TierNeedsReinforcement, rating: domain.RatingHard, expectedTier: domain.TierNeedsReinforcement, expectedDays: 1},
		{name: "good moves up", tier: domain.TierNeedsReinforcement, rating: domain.RatingGood, expectedTier: domain.TierSomewhatFamiliar, expectedDays: 3},
		{name: "good from somewhat familiar", tier: domain.TierSomewhatFamiliar, rating: domain.RatingGood, expectedTier: domain.TierWellKnown, expectedDays: 7},
		{name: "easy jumps to well known", tier: domain.TierNeedsReinforcement, rating: domain.RatingEasy, expectedTier: domain.TierWellKnown, expectedDays: 7},
		{name: "well known held", tier: domain.TierWellKnown, rating: domain.RatingGood, expectedTier: domain.TierWellKnown, expectedDays: 14},
		{name: "untracked treated as somewhat familiar", tier: domain.TierUntracked, rating: domain.RatingHard, expectedTier: domain.TierSomewhatFamiliar, expectedDays: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateTieredSchedule(scheduled(2, 3*domain.Day, 2.0), tc.tier, tc.rating, reviewedAt, params)

			assert.Equal(t, tc.expectedTier, result.MasteryTier)
			if tc.rating == domain.RatingAgain {
				assert.Equal(t, 0, result.RepetitionCount)
				assert.Equal(t, params.AgainRetry, result.Interval)
				return
			}
			assert.Equal(t, 3, result.RepetitionCount)
			assert.Equal(t, tc.expectedDays, result.IntervalDays())
			assert.Equal(t, reviewedAt.Add(result.Interval), result.DueAt)
		})
	}
}
