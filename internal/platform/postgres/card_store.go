package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/store"
)

const cardColumns = `id, content, repetition_count, interval_ns, ease_factor,
	due_at, last_reviewed_at, mastery_tier, created_at, updated_at`

const (
	selectAllCardsQuery = `SELECT ` + cardColumns + ` FROM review_cards ORDER BY created_at, id`

	selectCardByIDQuery = `SELECT ` + cardColumns + ` FROM review_cards WHERE id = $1`

	insertCardQuery = `INSERT INTO review_cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	// The WHERE clause makes an older snapshot lose against the stored row;
	// RETURNING then yields no row.
	upsertCardQuery = `INSERT INTO review_cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			repetition_count = EXCLUDED.repetition_count,
			interval_ns = EXCLUDED.interval_ns,
			ease_factor = EXCLUDED.ease_factor,
			due_at = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			mastery_tier = EXCLUDED.mastery_tier,
			updated_at = EXCLUDED.updated_at
		WHERE review_cards.updated_at <= EXCLUDED.updated_at
		RETURNING ` + cardColumns
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx returns a store that runs every statement on tx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) *PostgresCardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// inTransaction runs fn on a transactional store. A store that already wraps
// a transaction runs fn directly.
func (s *PostgresCardStore) inTransaction(ctx context.Context, fn func(txStore *PostgresCardStore) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fn(s)
	}
	ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, s.logger))
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(s.WithTx(tx))
	})
}

// GetAll implements store.CardStore.GetAll
func (s *PostgresCardStore) GetAll(ctx context.Context) ([]*domain.ReviewableCard, error) {
	rows, err := s.db.QueryContext(ctx, selectAllCardsQuery)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query cards", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityCard, "get_all", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.ReviewableCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError(store.EntityCard, "get_all", "scan failed", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(store.EntityCard, "get_all", "row iteration failed", MapError(err))
	}

	return cards, nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewableCard, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, selectCardByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityCard, "get", "query failed", MapError(err))
	}
	return card, nil
}

// Persist implements store.CardStore.Persist
func (s *PostgresCardStore) Persist(ctx context.Context, card *domain.ReviewableCard) (*domain.ReviewableCard, error) {
	if card == nil {
		return nil, fmt.Errorf("%w: card cannot be nil", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var stored *domain.ReviewableCard
	err := s.inTransaction(ctx, func(txStore *PostgresCardStore) error {
		result, err := scanCard(txStore.db.QueryRowContext(ctx, upsertCardQuery, cardArgs(card)...))
		if errors.Is(err, sql.ErrNoRows) {
			txStore.logger.DebugContext(ctx, "ignoring stale card write",
				slog.String("card_id", card.ID.String()),
				slog.Time("incoming_updated_at", card.UpdatedAt))
			result, err = txStore.GetByID(ctx, card.ID)
			if err != nil {
				return err
			}
		} else if err != nil {
			return store.NewStoreError(store.EntityCard, "persist", "upsert failed", MapError(err))
		}
		stored = result
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return stored, nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.ReviewableCard) error {
	for _, card := range cards {
		if card == nil {
			return fmt.Errorf("%w: card cannot be nil", store.ErrInvalidEntity)
		}
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	return s.inTransaction(ctx, func(txStore *PostgresCardStore) error {
		for _, card := range cards {
			if _, err := txStore.db.ExecContext(ctx, insertCardQuery, cardArgs(card)...); err != nil {
				if IsUniqueViolation(err) {
					return fmt.Errorf("%w: %s", store.ErrCardExists, card.ID)
				}
				return store.NewStoreError(store.EntityCard, "create", "insert failed", MapError(err))
			}
		}
		txStore.logger.DebugContext(ctx, "cards created", slog.Int("count", len(cards)))
		return nil
	})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.ReviewableCard, error) {
	var (
		card                  domain.ReviewableCard
		content               []byte
		intervalNs            int64
		dueAt, lastReviewedAt sql.NullTime
		tier                  string
	)

	err := row.Scan(
		&card.ID,
		&content,
		&card.State.RepetitionCount,
		&intervalNs,
		&card.State.EaseFactor,
		&dueAt,
		&lastReviewedAt,
		&tier,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Content = json.RawMessage(content)
	card.State.Interval = time.Duration(intervalNs)
	card.State.DueAt = timePtr(dueAt)
	card.State.LastReviewedAt = timePtr(lastReviewedAt)
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()

	if card.MasteryTier, err = domain.ParseMasteryTier(tier); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	return &card, nil
}

func cardArgs(card *domain.ReviewableCard) []any {
	tier, _ := card.MasteryTier.MarshalText()
	return []any{
		card.ID,
		string(card.Content),
		card.State.RepetitionCount,
		int64(card.State.Interval),
		card.State.EaseFactor,
		nullTime(card.State.DueAt),
		nullTime(card.State.LastReviewedAt),
		string(tier),
		card.CreatedAt,
		card.UpdatedAt,
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
