package card_review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/queue"
	"github.com/phrazzld/scry-review/internal/domain/session"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/events"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/store"
)

// Config holds the batch sizes used when building sessions and the limits
// on how many sessions stay open.
type Config struct {
	// RoundSize is the target size of a weighted round
	RoundSize int
	// TierRatio weights the mastery tiers of a weighted round
	TierRatio queue.TierRatio
	// DueLimit caps the size of a due-priority queue
	DueLimit int
	// SessionTTL closes sessions left unused for this long; zero keeps them
	SessionTTL time.Duration
	// MaxSessions caps open sessions, evicting the least recently used; zero
	// means no cap
	MaxSessions int
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		RoundSize:   30,
		TierRatio:   queue.DefaultTierRatio(),
		DueLimit:    50,
		SessionTTL:  2 * time.Hour,
		MaxSessions: 1000,
	}
}

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// reviewSession is an open session and the mode its batch was built with.
type reviewSession struct {
	// answerMu serializes answers so an active card is rated at most once
	answerMu sync.Mutex
	mode     SessionMode
	cursor   *session.Cursor
	// lastUsed is guarded by cardReviewServiceImpl.mu
	lastUsed time.Time
}

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardStore store.CardStore
	scheduler srs.Service
	emitter   events.EventEmitter
	clock     domain.Clock
	config    Config
	logger    *slog.Logger

	// mu guards sessions and rng
	mu       sync.Mutex
	sessions map[uuid.UUID]*reviewSession
	rng      queue.RandomSource
}

// NewCardReviewService creates a new CardReviewService implementation.
// The clock and the random source are the only sources of time and
// randomness the service uses.
func NewCardReviewService(
	cardStore store.CardStore,
	scheduler srs.Service,
	emitter events.EventEmitter,
	clock domain.Clock,
	rng queue.RandomSource,
	config Config,
	logger *slog.Logger,
) CardReviewService {
	// Validate inputs
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if clock == nil {
		panic("clock cannot be nil")
	}
	if rng == nil {
		panic("rng cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &cardReviewServiceImpl{
		cardStore: cardStore,
		scheduler: scheduler,
		emitter:   emitter,
		clock:     clock,
		config:    config,
		logger:    logger.With(slog.String("component", "card_review_service")),
		sessions:  make(map[uuid.UUID]*reviewSession),
		rng:       rng,
	}
}

// StartSession implements CardReviewService.StartSession.
func (s *cardReviewServiceImpl) StartSession(
	ctx context.Context,
	mode SessionMode,
) (*SessionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	mode, err := ParseSessionMode(string(mode))
	if err != nil {
		return nil, err
	}

	pool, err := s.cardStore.GetAll(ctx)
	if err != nil {
		log.Error("failed to load card pool", slog.String("error", err.Error()))
		return nil, NewServiceError("start_session", "failed to load cards", err)
	}

	if mode == ModeAuto {
		mode = resolveAutoMode(pool)
	}
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var batch []*domain.ReviewableCard
	switch mode {
	case ModeDue:
		batch, err = queue.BuildDueQueue(pool, now, s.config.DueLimit, s.rng)
	default:
		batch, err = queue.BuildRound(pool, s.config.RoundSize, s.config.TierRatio, s.rng)
	}
	if err != nil {
		log.Error("failed to build session batch",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		return nil, NewServiceError("start_session", "failed to build batch", err)
	}

	s.evictLocked(log, now)

	cursor := session.NewCursor()
	cursor.Load(batch)
	id := uuid.New()
	s.sessions[id] = &reviewSession{mode: mode, cursor: cursor, lastUsed: now}

	log.Info("session started",
		slog.String("session_id", id.String()),
		slog.String("mode", string(mode)),
		slog.Int("pool_size", len(pool)),
		slog.Int("batch_size", len(batch)))

	return summarize(id, s.sessions[id]), nil
}

// resolveAutoMode picks the due queue once any card has been scheduled.
func resolveAutoMode(pool []*domain.ReviewableCard) SessionMode {
	for _, card := range pool {
		if card.State.DueAt != nil {
			return ModeDue
		}
	}
	return ModeRound
}

func summarize(id uuid.UUID, rs *reviewSession) *SessionSummary {
	return &SessionSummary{
		ID:        id,
		Mode:      rs.mode,
		Size:      rs.cursor.Total(),
		Remaining: rs.cursor.Remaining(),
		State:     rs.cursor.State(),
	}
}

// evictLocked drops expired sessions, then the least recently used ones
// until a new session fits under the cap. s.mu must be held.
func (s *cardReviewServiceImpl) evictLocked(log *slog.Logger, now time.Time) {
	for id, rs := range s.sessions {
		if s.expired(rs, now) {
			delete(s.sessions, id)
			log.Debug("session expired", slog.String("session_id", id.String()))
		}
	}

	if s.config.MaxSessions <= 0 {
		return
	}
	for len(s.sessions) >= s.config.MaxSessions {
		var (
			oldestID uuid.UUID
			oldest   *reviewSession
		)
		for id, rs := range s.sessions {
			if oldest == nil || rs.lastUsed.Before(oldest.lastUsed) {
				oldestID, oldest = id, rs
			}
		}
		delete(s.sessions, oldestID)
		log.Info("session evicted", slog.String("session_id", oldestID.String()))
	}
}

func (s *cardReviewServiceImpl) expired(rs *reviewSession, now time.Time) bool {
	return s.config.SessionTTL > 0 && now.Sub(rs.lastUsed) >= s.config.SessionTTL
}

func (s *cardReviewServiceImpl) lookup(sessionID uuid.UUID) (*reviewSession, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rs, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(rs, now) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	rs.lastUsed = now
	return rs, nil
}

// Session implements CardReviewService.Session.
func (s *cardReviewServiceImpl) Session(_ context.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return summarize(sessionID, rs), nil
}

// NextCard implements CardReviewService.NextCard.
func (s *cardReviewServiceImpl) NextCard(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.ReviewableCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	card, popped, err := rs.cursor.ActiveOrPop()
	if errors.Is(err, session.ErrExhausted) {
		log.Debug("session exhausted", slog.String("session_id", sessionID.String()))
		return nil, ErrNoCardsDue
	}
	if err != nil {
		return nil, NewServiceError("next_card", "failed to advance session", err)
	}

	if popped {
		done, total := rs.cursor.Progress()
		log.Debug("next card selected",
			slog.String("session_id", sessionID.String()),
			slog.String("card_id", card.ID.String()),
			slog.Int("done", done),
			slog.Int("total", total))
	}

	return card.Clone(), nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	cardID uuid.UUID,
	answer ReviewAnswer,
) (*domain.ReviewableCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", cardID.String()))

	// Validate the answer before touching any state
	if !answer.Rating.IsValid() {
		log.Warn("invalid review rating", slog.Int("rating", int(answer.Rating)))
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnswer, domain.ErrInvalidRating)
	}
	if answer.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidAnswer)
	}

	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	rs.answerMu.Lock()
	defer rs.answerMu.Unlock()

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("card not found for review")
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card", slog.String("error", err.Error()))
		return nil, NewServiceError("submit_answer", "failed to get card", err)
	}

	active := rs.cursor.Active()
	if active == nil || active.ID != cardID {
		log.Warn("answer submitted for a card that is not active")
		return nil, ErrCardNotActive
	}

	reviewedAt := s.clock.Now()
	result, err := s.scheduler.CalculateNextReview(card, answer.Rating, reviewedAt)
	if err != nil {
		log.Error("failed to calculate next review", slog.String("error", err.Error()))
		return nil, NewServiceError("submit_answer", "failed to calculate next review", err)
	}

	stored, err := s.cardStore.Persist(ctx, card.ApplySchedule(result))
	if err != nil {
		log.Error("failed to persist review", slog.String("error", err.Error()))
		return nil, NewServiceError("submit_answer", "failed to persist review", err)
	}

	rs.cursor.ClearActive()
	s.emitReview(ctx, log, cardID, answer, reviewedAt)

	log.Debug("successfully processed review answer",
		slog.String("rating", answer.Rating.String()),
		slog.Float64("ease_factor", stored.State.EaseFactor),
		slog.Float64("interval_days", stored.State.IntervalDays()),
		slog.String("mastery_tier", stored.MasteryTier.String()))

	return stored, nil
}

// emitReview hands the review to the analytics boundary. Failures are
// logged; the rating has already been persisted.
func (s *cardReviewServiceImpl) emitReview(
	ctx context.Context,
	log *slog.Logger,
	cardID uuid.UUID,
	answer ReviewAnswer,
	reviewedAt time.Time,
) {
	event, err := events.NewReviewEvent(cardID, answer.Rating, reviewedAt, answer.Duration)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit review event", slog.String("error", err.Error()))
	}
}

// ResetSession implements CardReviewService.ResetSession.
func (s *cardReviewServiceImpl) ResetSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*SessionSummary, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	rs.cursor.Reset()
	logger.FromContextOrDefault(ctx, s.logger).Debug("session reset",
		slog.String("session_id", sessionID.String()))

	return summarize(sessionID, rs), nil
}

// EndSession implements CardReviewService.EndSession.
func (s *cardReviewServiceImpl) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	rs, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	done, total := rs.cursor.Progress()
	logger.FromContextOrDefault(ctx, s.logger).Info("session ended",
		slog.String("session_id", sessionID.String()),
		slog.Int("done", done),
		slog.Int("total", total))
	return nil
}

// PostponeCard implements CardReviewService.PostponeCard.
func (s *cardReviewServiceImpl) PostponeCard(
	ctx context.Context,
	cardID uuid.UUID,
	days int,
) (*domain.ReviewableCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("card_id", cardID.String()))

	if days < 1 {
		return nil, fmt.Errorf("%w: got %d", srs.ErrInvalidDays, days)
	}

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card", slog.String("error", err.Error()))
		return nil, NewServiceError("postpone_card", "failed to get card", err)
	}

	postponed, err := s.scheduler.PostponeReview(card, days, s.clock.Now())
	if err != nil {
		return nil, NewServiceError("postpone_card", "failed to postpone review", err)
	}

	stored, err := s.cardStore.Persist(ctx, postponed)
	if err != nil {
		log.Error("failed to persist postponed card", slog.String("error", err.Error()))
		return nil, NewServiceError("postpone_card", "failed to persist card", err)
	}

	log.Debug("card postponed", slog.Int("days", days))
	return stored, nil
}

// AddCards implements CardReviewService.AddCards.
func (s *cardReviewServiceImpl) AddCards(
	ctx context.Context,
	contents []json.RawMessage,
) ([]*domain.ReviewableCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(contents) == 0 {
		return nil, fmt.Errorf("%w: no cards given", ErrInvalidCards)
	}

	now := s.clock.Now()
	cards := make([]*domain.ReviewableCard, 0, len(contents))
	for i, content := range contents {
		card, err := domain.NewReviewableCard(content, now)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidCards, i, err)
		}
		cards = append(cards, card)
	}

	if err := s.cardStore.CreateMultiple(ctx, cards); err != nil {
		log.Error("failed to create cards",
			slog.Int("count", len(cards)),
			slog.String("error", err.Error()))
		return nil, NewServiceError("add_cards", "failed to create cards", err)
	}

	log.Info("cards created", slog.Int("count", len(cards)))
	return cards, nil
}
