//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/phrazzld/scry-review/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 10 * time.Second

// openTestDB connects to the test database and applies migrations.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := testdb.DatabaseURL(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	db, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return db
}

func TestPostgresCardStore_Integration(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		s := NewPostgresCardStore(tx, nil)

		card, err := domain.NewReviewableCard(json.RawMessage(`{"front":"el gato","back":"the cat"}`), now)
		require.NoError(t, err)
		require.NoError(t, s.CreateMultiple(ctx, []*domain.ReviewableCard{card}))

		err = s.CreateMultiple(ctx, []*domain.ReviewableCard{card})
		require.ErrorIs(t, err, store.ErrCardExists)
	})

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		s := NewPostgresCardStore(tx, nil)

		card, err := domain.NewReviewableCard(json.RawMessage(`{"front":"el perro","back":"the dog"}`), now)
		require.NoError(t, err)
		require.NoError(t, s.CreateMultiple(ctx, []*domain.ReviewableCard{card}))

		reviewedAt := now.Add(time.Minute)
		result, err := srs.NewDefaultService().CalculateNextReview(card, domain.RatingGood, reviewedAt)
		require.NoError(t, err)
		reviewed, err := s.Persist(ctx, card.ApplySchedule(result))
		require.NoError(t, err)
		assert.Equal(t, 1, reviewed.State.RepetitionCount)
		assert.Equal(t, domain.Day, reviewed.State.Interval)

		// The original snapshot is older than the stored review.
		stale, err := s.Persist(ctx, card)
		require.NoError(t, err)
		assert.Equal(t, 1, stale.State.RepetitionCount)

		got, err := s.GetByID(ctx, card.ID)
		require.NoError(t, err)
		require.NotNil(t, got.State.DueAt)
		assert.True(t, result.DueAt.Equal(*got.State.DueAt))
		assert.JSONEq(t, string(card.Content), string(got.Content))
	})
}
