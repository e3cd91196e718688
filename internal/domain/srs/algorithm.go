package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
)

// ComputeNextSchedule applies the default SM-2 policy to a scheduling state.
//
// The result is a complete next state: repetition count, interval, ease
// factor and due time are always produced together. The caller supplies
// reviewedAt; nothing here reads a clock, so identical inputs always yield
// identical results and a retried rating event cannot drift.
//
// The returned result leaves MasteryTier untracked because SM-2 does not
// classify cards. Use Service.CalculateNextReview to schedule a whole card.
func ComputeNextSchedule(
	state domain.ReviewState,
	rating domain.Rating,
	reviewedAt time.Time,
) (domain.ScheduleResult, error) {
	if !rating.IsValid() {
		return domain.ScheduleResult{}, fmt.Errorf("%w: %s", ErrInvalidRating, rating)
	}
	return calculateSM2Schedule(state, rating, reviewedAt, defaultParams), nil
}

// defaultParams backs ComputeNextSchedule. It is never mutated.
var defaultParams = NewDefaultParams()

// calculateNewEaseFactor determines the new ease factor for a rating.
//
// Again subtracts params.AgainEasePenalty. Successful ratings use the SM-2
// formula EF + (0.1 - (5-q)(0.08 + (5-q)0.02)), where q is the rating's
// quality on the 0-5 scale: Hard lowers the ease factor, Good leaves it
// unchanged and Easy raises it.
//
// The result is clamped to params.MinEaseFactor. There is no upper bound.
func calculateNewEaseFactor(currentEF float64, rating domain.Rating, params *Params) float64 {
	if rating == domain.RatingAgain {
		return clampEaseFactor(currentEF-params.AgainEasePenalty, params)
	}

	miss := 5 - params.Quality[rating]
	return clampEaseFactor(currentEF+(0.1-miss*(0.08+miss*0.02)), params)
}

func clampEaseFactor(ef float64, params *Params) float64 {
	if math.IsNaN(ef) || ef < params.MinEaseFactor {
		return params.MinEaseFactor
	}
	return ef
}

// calculateNewInterval determines the interval, in whole days, after a
// successful recall.
//
// Parameters:
//   - previousDays: The interval before this review, in days
//   - repetition: The repetition count including this review
//   - easeFactor: The ease factor already updated for this review
//   - rating: Hard, Good or Easy
//   - params: Configuration parameters for the scheduler
//
// The base interval is params.FirstIntervalDays for the first repetition,
// params.SecondIntervalDays for the second and round(previousDays * easeFactor)
// afterwards. Hard and Easy then scale the base by their multipliers. The
// result is never below one day and never above params.MaximumIntervalDays.
func calculateNewInterval(
	previousDays float64,
	repetition int,
	easeFactor float64,
	rating domain.Rating,
	params *Params,
) int {
	var days float64
	switch repetition {
	case 1:
		days = float64(params.FirstIntervalDays)
	case 2:
		days = float64(params.SecondIntervalDays)
	default:
		days = math.Round(previousDays * easeFactor)
	}

	switch rating {
	case domain.RatingHard:
		days = math.Round(days * params.HardIntervalMultiplier)
	case domain.RatingEasy:
		days = math.Round(days * params.EasyIntervalMultiplier)
	}

	return clampDays(days, params)
}

func clampDays(days float64, params *Params) int {
	if days < 1 {
		return 1
	}
	if maxDays := float64(params.MaximumIntervalDays); params.MaximumIntervalDays > 0 && days > maxDays {
		return params.MaximumIntervalDays
	}
	return int(days)
}

// retrySchedule is the result shared by every policy for a failed recall:
// the repetition count resets and the card comes back after the short
// retry window.
func retrySchedule(easeFactor float64, reviewedAt time.Time, params *Params) domain.ScheduleResult {
	return domain.ScheduleResult{
		RepetitionCount: 0,
		Interval:        params.AgainRetry,
		EaseFactor:      easeFactor,
		DueAt:           reviewedAt.Add(params.AgainRetry),
		ReviewedAt:      reviewedAt,
	}
}

// daySchedule builds a success result whose interval is a whole number of days.
func daySchedule(
	repetition int,
	days int,
	easeFactor float64,
	reviewedAt time.Time,
) domain.ScheduleResult {
	interval := time.Duration(days) * domain.Day
	return domain.ScheduleResult{
		RepetitionCount: repetition,
		Interval:        interval,
		EaseFactor:      easeFactor,
		DueAt:           reviewedAt.Add(interval),
		ReviewedAt:      reviewedAt,
	}
}

// calculateSM2Schedule computes the next SM-2 state. An Easy rating
// advances the stored repetition count one extra step.
func calculateSM2Schedule(
	state domain.ReviewState,
	rating domain.Rating,
	reviewedAt time.Time,
	params *Params,
) domain.ScheduleResult {
	newEF := calculateNewEaseFactor(state.EaseFactor, rating, params)
	if rating == domain.RatingAgain {
		return retrySchedule(newEF, reviewedAt, params)
	}

	repetition := max(state.RepetitionCount, 0) + 1
	days := calculateNewInterval(state.IntervalDays(), repetition, newEF, rating, params)
	if rating == domain.RatingEasy {
		repetition++
	}

	return daySchedule(repetition, days, newEF, reviewedAt)
}

// calculateBinarySchedule treats Again as forgotten and every other rating
// as remembered. Remembered cards climb params.BinaryLadderDays one rung per
// repetition and stay on the last rung. The ease factor is carried unchanged.
func calculateBinarySchedule(
	state domain.ReviewState,
	rating domain.Rating,
	reviewedAt time.Time,
	params *Params,
) domain.ScheduleResult {
	ef := clampEaseFactor(state.EaseFactor, params)
	if rating == domain.RatingAgain {
		return retrySchedule(ef, reviewedAt, params)
	}

	repetition := max(state.RepetitionCount, 0) + 1
	days := params.FirstIntervalDays
	if ladder := params.BinaryLadderDays; len(ladder) > 0 {
		days = ladder[min(repetition, len(ladder))-1]
	}

	return daySchedule(repetition, clampDays(float64(days), params), ef, reviewedAt)
}

// calculateTieredSchedule moves the card between mastery tiers and derives
// the interval from the tier it lands in. Again drops to NeedsReinforcement,
// Hard keeps the tier, Good moves up one tier and Easy jumps to WellKnown.
// A card that was already WellKnown and stays there gets
// params.HeldWellKnownDays.
func calculateTieredSchedule(
	state domain.ReviewState,
	tier domain.MasteryTier,
	rating domain.Rating,
	reviewedAt time.Time,
	params *Params,
) domain.ScheduleResult {
	ef := clampEaseFactor(state.EaseFactor, params)
	current := tier.Normalize()

	if rating == domain.RatingAgain {
		result := retrySchedule(ef, reviewedAt, params)
		result.MasteryTier = domain.TierNeedsReinforcement
		return result
	}

	next := current
	switch rating {
	case domain.RatingGood:
		if current < domain.TierWellKnown {
			next = current + 1
		}
	case domain.RatingEasy:
		next = domain.TierWellKnown
	}

	days := params.TierIntervalDays[next]
	if current == domain.TierWellKnown && next == domain.TierWellKnown {
		days = params.HeldWellKnownDays
	}

	result := daySchedule(max(state.RepetitionCount, 0)+1, clampDays(float64(days), params), ef, reviewedAt)
	result.MasteryTier = next
	return result
}
