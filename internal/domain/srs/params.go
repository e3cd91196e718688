package srs

import (
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
)

// Params defines all configurable parameters for the scheduling policies
type Params struct {
	// Core limits
	MinEaseFactor       float64
	MaximumIntervalDays int

	// SM-2 ease adjustment
	AgainEasePenalty float64
	Quality          map[domain.Rating]float64

	// SM-2 interval growth
	FirstIntervalDays      int
	SecondIntervalDays     int
	HardIntervalMultiplier float64
	EasyIntervalMultiplier float64

	// Retry window after a failed recall, shared by every policy
	AgainRetry time.Duration

	// Binary familiarity ladder, indexed by repetition count - 1
	BinaryLadderDays []int

	// Tiered mastery intervals
	TierIntervalDays  map[domain.MasteryTier]int
	HeldWellKnownDays int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	// Core limits
	MinEaseFactor       float64
	MaximumIntervalDays int

	// Ease adjustment
	AgainEasePenalty float64
	HardQuality      float64
	GoodQuality      float64
	EasyQuality      float64

	// Interval growth
	FirstIntervalDays      int
	SecondIntervalDays     int
	HardIntervalMultiplier float64
	EasyIntervalMultiplier float64

	// Special timing
	AgainRetry time.Duration

	// Alternative policies
	BinaryLadderDays       []int
	NeedsReinforcementDays int
	SomewhatFamiliarDays   int
	WellKnownDays          int
	HeldWellKnownDays      int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       domain.MinEaseFactor,
		MaximumIntervalDays: 36500,

		AgainEasePenalty: 0.2,

		// Quality on the 0-5 scale used by the ease formula
		Quality: map[domain.Rating]float64{
			domain.RatingHard: 3,
			domain.RatingGood: 4,
			domain.RatingEasy: 5,
		},

		FirstIntervalDays:      1,
		SecondIntervalDays:     6,
		HardIntervalMultiplier: 0.8,
		EasyIntervalMultiplier: 1.3,

		AgainRetry: 5 * time.Minute,

		BinaryLadderDays: []int{1, 3, 7, 15, 30},

		TierIntervalDays: map[domain.MasteryTier]int{
			domain.TierNeedsReinforcement: 1,
			domain.TierSomewhatFamiliar:   3,
			domain.TierWellKnown:          7,
		},
		HeldWellKnownDays: 14,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Override core limits if provided
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaximumIntervalDays > 0 {
		params.MaximumIntervalDays = config.MaximumIntervalDays
	}

	// Override ease adjustment if provided
	if config.AgainEasePenalty > 0 {
		params.AgainEasePenalty = config.AgainEasePenalty
	}
	if config.HardQuality > 0 {
		params.Quality[domain.RatingHard] = config.HardQuality
	}
	if config.GoodQuality > 0 {
		params.Quality[domain.RatingGood] = config.GoodQuality
	}
	if config.EasyQuality > 0 {
		params.Quality[domain.RatingEasy] = config.EasyQuality
	}

	// Override interval growth if provided
	if config.FirstIntervalDays > 0 {
		params.FirstIntervalDays = config.FirstIntervalDays
	}
	if config.SecondIntervalDays > 0 {
		params.SecondIntervalDays = config.SecondIntervalDays
	}
	if config.HardIntervalMultiplier > 0 {
		params.HardIntervalMultiplier = config.HardIntervalMultiplier
	}
	if config.EasyIntervalMultiplier > 0 {
		params.EasyIntervalMultiplier = config.EasyIntervalMultiplier
	}

	// Override special timing if provided
	if config.AgainRetry > 0 {
		params.AgainRetry = config.AgainRetry
	}

	// Override alternative policies if provided
	if len(config.BinaryLadderDays) > 0 {
		params.BinaryLadderDays = append([]int(nil), config.BinaryLadderDays...)
	}
	if config.NeedsReinforcementDays > 0 {
		params.TierIntervalDays[domain.TierNeedsReinforcement] = config.NeedsReinforcementDays
	}
	if config.SomewhatFamiliarDays > 0 {
		params.TierIntervalDays[domain.TierSomewhatFamiliar] = config.SomewhatFamiliarDays
	}
	if config.WellKnownDays > 0 {
		params.TierIntervalDays[domain.TierWellKnown] = config.WellKnownDays
	}
	if config.HeldWellKnownDays > 0 {
		params.HeldWellKnownDays = config.HeldWellKnownDays
	}

	return params
}
