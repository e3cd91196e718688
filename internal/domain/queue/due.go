package queue

import (
	"bytes"
	"slices"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
)

// BuildDueQueue selects up to limit cards for review at now.
//
// Cards whose due time is not after now come first, earliest due first, ties
// broken by card ID. Remaining seats are filled with never-reviewed cards in
// an order drawn from rng. Cards due in the future are never included.
// rng is only consulted, and only required, when padding is needed.
func BuildDueQueue(
	pool []*domain.ReviewableCard,
	now time.Time,
	limit int,
	rng RandomSource,
) ([]*domain.ReviewableCard, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	var due, unscheduled []*domain.ReviewableCard
	for _, card := range pool {
		switch {
		case card.State.DueAt == nil:
			unscheduled = append(unscheduled, card)
		case !card.State.DueAt.After(now):
			due = append(due, card)
		}
	}

	slices.SortFunc(due, compareDue)
	if len(due) >= limit {
		return due[:limit], nil
	}

	batch := due
	if seats := limit - len(due); len(unscheduled) > 0 {
		if rng == nil {
			return nil, ErrNilRandomSource
		}
		Shuffle(unscheduled, rng)
		batch = append(batch, unscheduled[:min(seats, len(unscheduled))]...)
	}

	return batch, nil
}

func compareDue(a, b *domain.ReviewableCard) int {
	if c := a.State.DueAt.Compare(*b.State.DueAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}
