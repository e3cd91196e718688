package srs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
)

// Common errors
var (
	ErrNilCard       = errors.New("card cannot be nil")
	ErrInvalidRating = fmt.Errorf("scheduler: %w", domain.ErrInvalidRating)
	ErrInvalidState  = errors.New("invalid scheduling state")
	ErrInvalidDays   = errors.New("postpone days must be at least 1")
	ErrUnknownPolicy = errors.New("unknown scheduling policy")
)

// PolicyKind names one of the interchangeable scheduling policies.
type PolicyKind string

// Supported policies. PolicySM2 is the default.
const (
	PolicySM2    PolicyKind = "sm2"
	PolicyBinary PolicyKind = "binary"
	PolicyTiered PolicyKind = "tiered"
)

// ParsePolicyKind converts a policy name (case-insensitive) into a PolicyKind.
func ParsePolicyKind(s string) (PolicyKind, error) {
	kind := PolicyKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := policies[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return kind, nil
}

// Service defines the interface for scheduling operations
type Service interface {
	// Kind reports which policy the service applies
	Kind() PolicyKind

	// CalculateNextReview computes the complete next schedule for a card.
	// The card itself is not modified.
	CalculateNextReview(
		card *domain.ReviewableCard,
		rating domain.Rating,
		reviewedAt time.Time,
	) (domain.ScheduleResult, error)

	// PostponeReview pushes the next review time forward by a specified number of days
	PostponeReview(
		card *domain.ReviewableCard,
		days int,
		now time.Time,
	) (*domain.ReviewableCard, error)
}

// scheduleFunc computes the next schedule for an already validated card and rating.
type scheduleFunc func(
	card *domain.ReviewableCard,
	rating domain.Rating,
	reviewedAt time.Time,
	params *Params,
) domain.ScheduleResult

var policies = map[PolicyKind]scheduleFunc{
	PolicySM2: func(card *domain.ReviewableCard, rating domain.Rating, reviewedAt time.Time, params *Params) domain.ScheduleResult {
		result := calculateSM2Schedule(card.State, rating, reviewedAt, params)
		result.MasteryTier = card.MasteryTier
		return result
	},
	PolicyBinary: func(card *domain.ReviewableCard, rating domain.Rating, reviewedAt time.Time, params *Params) domain.ScheduleResult {
		result := calculateBinarySchedule(card.State, rating, reviewedAt, params)
		result.MasteryTier = card.MasteryTier
		return result
	},
	PolicyTiered: func(card *domain.ReviewableCard, rating domain.Rating, reviewedAt time.Time, params *Params) domain.ScheduleResult {
		return calculateTieredSchedule(card.State, card.MasteryTier, rating, reviewedAt, params)
	},
}

// policyService is the Service implementation shared by every policy
type policyService struct {
	kind     PolicyKind
	params   *Params
	schedule scheduleFunc
}

var _ Service = (*policyService)(nil)

// NewDefaultService creates an SM-2 service with default parameters
func NewDefaultService() Service {
	return &policyService{
		kind:     PolicySM2,
		params:   NewDefaultParams(),
		schedule: policies[PolicySM2],
	}
}

// NewService creates a service for the given policy. Nil params select the defaults.
func NewService(kind PolicyKind, params *Params) (Service, error) {
	schedule, ok := policies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, kind)
	}
	if params == nil {
		params = NewDefaultParams()
	}
	return &policyService{
		kind:     kind,
		params:   params,
		schedule: schedule,
	}, nil
}

// Kind implements Service
func (s *policyService) Kind() PolicyKind {
	return s.kind
}

// CalculateNextReview implements the Service interface for computing the next schedule
func (s *policyService) CalculateNextReview(
	card *domain.ReviewableCard,
	rating domain.Rating,
	reviewedAt time.Time,
) (domain.ScheduleResult, error) {
	// Validate inputs
	if card == nil {
		return domain.ScheduleResult{}, ErrNilCard
	}

	if !rating.IsValid() {
		return domain.ScheduleResult{}, fmt.Errorf("%w: %s", ErrInvalidRating, rating)
	}

	if err := card.State.Validate(); err != nil {
		return domain.ScheduleResult{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	return s.schedule(card, rating, reviewedAt, s.params), nil
}

// PostponeReview implements the Service interface for postponing reviews.
// A card that was never scheduled is postponed from now.
func (s *policyService) PostponeReview(
	card *domain.ReviewableCard,
	days int,
	now time.Time,
) (*domain.ReviewableCard, error) {
	// Validate inputs
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	from := now
	if card.State.DueAt != nil {
		from = *card.State.DueAt
	}
	dueAt := from.Add(time.Duration(days) * domain.Day)

	postponed := card.Clone()
	postponed.State.DueAt = &dueAt
	postponed.UpdatedAt = now

	return postponed, nil
}
