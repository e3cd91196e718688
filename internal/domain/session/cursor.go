// Package session walks a study batch one card at a time.
package session

import (
	"errors"
	"sync"

	"github.com/phrazzld/scry-review/internal/domain"
)

// ErrExhausted is returned when a card is requested from a cursor with
// nothing left to hand out.
var ErrExhausted = errors.New("no cards remaining in session")

// State is the lifecycle state of a Cursor.
type State int

// Cursor states
const (
	StateEmpty State = iota
	StateInProgress
	StateCompleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Cursor hands out the cards of a batch in order, exposing at most one active
// card at a time. A card popped in the current pass is not handed out again
// until Reset. Cursor is safe for concurrent use.
type Cursor struct {
	mu        sync.Mutex
	original  []*domain.ReviewableCard
	remaining []*domain.ReviewableCard
	active    *domain.ReviewableCard
	state     State
}

// NewCursor returns an empty cursor.
func NewCursor() *Cursor {
	return &Cursor{state: StateEmpty}
}

// Load replaces the cursor's batch. An empty batch leaves the cursor Empty.
func (c *Cursor) Load(batch []*domain.ReviewableCard) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.original = append([]*domain.ReviewableCard(nil), batch...)
	c.rewind()
}

// PopActive removes the next card from the batch and makes it the active
// card. Popping the last card moves the cursor to Completed.
func (c *Cursor) PopActive() (*domain.ReviewableCard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pop()
}

// ActiveOrPop returns the active card, or pops the next one when none is
// active. popped reports whether a card was taken from the batch.
func (c *Cursor) ActiveOrPop() (card *domain.ReviewableCard, popped bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return c.active, false, nil
	}
	card, err = c.pop()
	return card, err == nil, err
}

func (c *Cursor) pop() (*domain.ReviewableCard, error) {
	if len(c.remaining) == 0 {
		return nil, ErrExhausted
	}

	c.active = c.remaining[0]
	c.remaining = c.remaining[1:]
	if len(c.remaining) == 0 {
		c.state = StateCompleted
	}

	return c.active, nil
}

// Reset restores the full original batch and clears the active card.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rewind()
}

func (c *Cursor) rewind() {
	c.remaining = append([]*domain.ReviewableCard(nil), c.original...)
	c.active = nil
	if len(c.original) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateInProgress
	}
}

// Active returns the active card, or nil when none is active.
func (c *Cursor) Active() *domain.ReviewableCard {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

// ClearActive marks the active card as handled.
func (c *Cursor) ClearActive() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = nil
}

// State returns the cursor's lifecycle state.
func (c *Cursor) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Remaining returns how many cards have not been popped yet.
func (c *Cursor) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.remaining)
}

// Total returns the size of the loaded batch.
func (c *Cursor) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.original)
}

// Progress reports how many cards have been popped and the batch size.
func (c *Cursor) Progress() (done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.original) - len(c.remaining), len(c.original)
}
