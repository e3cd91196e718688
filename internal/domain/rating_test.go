package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingOrdering(t *testing.T) {
	t.Parallel()
	assert.Less(t, RatingAgain, RatingHard)
	assert.Less(t, RatingHard, RatingGood)
	assert.Less(t, RatingGood, RatingEasy)
}

func TestRatingIsValid(t *testing.T) {
	t.Parallel()
	for _, r := range AllRatings() {
		assert.True(t, r.IsValid(), r.String())
	}
	assert.False(t, Rating(0).IsValid())
	assert.False(t, Rating(5).IsValid())
	assert.False(t, Rating(-1).IsValid())
}

func TestRatingIsSuccess(t *testing.T) {
	t.Parallel()
	assert.False(t, RatingAgain.IsSuccess())
	assert.True(t, RatingHard.IsSuccess())
	assert.True(t, RatingGood.IsSuccess())
	assert.True(t, RatingEasy.IsSuccess())
	assert.False(t, Rating(7).IsSuccess())
}

func TestParseRating(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{in: "again", want: RatingAgain},
		{in: "Hard", want: RatingHard},
		{in: " GOOD ", want: RatingGood},
		{in: "easy", want: RatingEasy},
		{in: "perfect", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRating(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRating)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRatingJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(struct {
		Rating Rating `json:"rating"`
	}{Rating: RatingGood})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":"good"}`, string(data))

	_, err = json.Marshal(Rating(9))
	assert.ErrorIs(t, err, ErrInvalidRating)

	var r Rating
	assert.ErrorIs(t, json.Unmarshal([]byte(`3`), &r), ErrInvalidRating)
	require.NoError(t, json.Unmarshal([]byte(`"easy"`), &r))
	assert.Equal(t, RatingEasy, r)
}

func TestRatingString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "again", RatingAgain.String())
	assert.Equal(t, "Rating(0)", Rating(0).String())
}
