// Package domain holds the review card model: ratings, mastery tiers, the
// per-card scheduling state and the clock abstraction. The scheduler, the
// batch builders and the session cursor live in sub-packages and depend only
// on these types.
package domain
