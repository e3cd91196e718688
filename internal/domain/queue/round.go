package queue

import (
	"slices"

	"github.com/phrazzld/scry-review/internal/domain"
)

// BuildRound selects a batch of at most targetSize cards whose tier mix
// follows ratio.
//
// A pool no larger than targetSize is returned whole, shuffled. Otherwise each
// tier is apportioned its share of targetSize (see Apportion), its members are
// shuffled and the share taken. Seats a tier cannot fill are taken from the
// shuffled leftovers of every tier. The batch is shuffled again so it is not
// grouped by tier. Untracked cards count as SomewhatFamiliar.
//
// The pool slice is never reordered.
func BuildRound(
	pool []*domain.ReviewableCard,
	targetSize int,
	ratio TierRatio,
	rng RandomSource,
) ([]*domain.ReviewableCard, error) {
	if rng == nil {
		return nil, ErrNilRandomSource
	}
	if targetSize < 0 {
		return nil, ErrInvalidTargetSize
	}

	if len(pool) <= targetSize {
		batch := slices.Clone(pool)
		Shuffle(batch, rng)
		return batch, nil
	}

	quotas, err := Apportion(ratio, targetSize)
	if err != nil {
		return nil, err
	}

	byTier := make(map[domain.MasteryTier][]*domain.ReviewableCard, len(domain.MasteryTiers()))
	for _, card := range pool {
		tier := card.Tier()
		byTier[tier] = append(byTier[tier], card)
	}

	batch := make([]*domain.ReviewableCard, 0, targetSize)
	var leftovers []*domain.ReviewableCard
	deficit := 0
	for _, tier := range domain.MasteryTiers() {
		members := byTier[tier]
		Shuffle(members, rng)

		take := min(quotas[tier], len(members))
		batch = append(batch, members[:take]...)
		leftovers = append(leftovers, members[take:]...)
		deficit += quotas[tier] - take
	}

	if deficit > 0 && len(leftovers) > 0 {
		Shuffle(leftovers, rng)
		batch = append(batch, leftovers[:min(deficit, len(leftovers))]...)
	}

	Shuffle(batch, rng)
	if len(batch) > targetSize {
		batch = batch[:targetSize]
	}

	return batch, nil
}
