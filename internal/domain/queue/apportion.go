package queue

import (
	"fmt"
	"math"
	"sort"

	"github.com/phrazzld/scry-review/internal/domain"
)

// TierRatio holds the relative weight of each mastery tier in a round.
// Missing tiers have weight zero.
type TierRatio map[domain.MasteryTier]float64

// DefaultTierRatio favors cards that need reinforcement: 5:3:2.
func DefaultTierRatio() TierRatio {
	return TierRatio{
		domain.TierNeedsReinforcement: 5,
		domain.TierSomewhatFamiliar:   3,
		domain.TierWellKnown:          2,
	}
}

// Validate checks that every weight belongs to a tracked tier, is a finite
// non-negative number and that at least one weight is positive.
func (r TierRatio) Validate() error {
	var total float64
	for tier, weight := range r {
		if !tier.IsValid() {
			return fmt.Errorf("%w: unknown tier %s", ErrInvalidRatio, tier)
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("%w: weight %v for %s", ErrInvalidRatio, weight, tier)
		}
		total += weight
	}
	if total <= 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidRatio)
	}
	return nil
}

// Apportion splits target seats between tiers in proportion to their weights
// using the largest-remainder (Hamilton) method.
//
// Every tier first receives the floor of its exact share. The remaining seats
// go one at a time to the tiers with the largest fractional remainder, ties
// broken by tier declaration order. Zero-weight tiers take no part. The
// returned quotas always sum to target.
func Apportion(ratio TierRatio, target int) (map[domain.MasteryTier]int, error) {
	if target < 0 {
		return nil, ErrInvalidTargetSize
	}
	if err := ratio.Validate(); err != nil {
		return nil, err
	}

	type share struct {
		tier      domain.MasteryTier
		remainder float64
	}

	var total float64
	for _, weight := range ratio {
		total += weight
	}

	quotas := make(map[domain.MasteryTier]int, len(ratio))
	shares := make([]share, 0, len(ratio))
	assigned := 0
	for _, tier := range domain.MasteryTiers() {
		weight := ratio[tier]
		if weight == 0 {
			continue
		}
		exact := weight / total * float64(target)
		floor := math.Floor(exact)
		quotas[tier] = int(floor)
		assigned += int(floor)
		shares = append(shares, share{tier: tier, remainder: exact - floor})
	}

	// Stable sort keeps declaration order among equal remainders.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; assigned < target && len(shares) > 0; i++ {
		quotas[shares[i%len(shares)].tier]++
		assigned++
	}

	return quotas, nil
}
