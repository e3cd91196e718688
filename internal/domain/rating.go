package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Rating is the learner's assessment of a single recall attempt.
// Ratings are ordered by strength: Again < Hard < Good < Easy.
type Rating int

// Possible rating values
const (
	RatingAgain Rating = iota + 1 // failed to recall
	RatingHard                    // recalled with significant difficulty
	RatingGood                    // recalled with some effort
	RatingEasy                    // recalled effortlessly
)

var (
	ratingNames  = [...]string{RatingAgain: "again", RatingHard: "hard", RatingGood: "good", RatingEasy: "easy"}
	ratingByName = map[string]Rating{
		"again": RatingAgain,
		"hard":  RatingHard,
		"good":  RatingGood,
		"easy":  RatingEasy,
	}
)

var (
	_ fmt.Stringer             = Rating(0)
	_ json.Marshaler           = Rating(0)
	_ json.Unmarshaler         = (*Rating)(nil)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// AllRatings lists every valid rating in ascending strength.
func AllRatings() []Rating {
	return []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}
}

// ParseRating converts a rating name (case-insensitive) into a Rating.
func ParseRating(s string) (Rating, error) {
	r, ok := ratingByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// IsSuccess reports whether r counts as a successful recall.
func (r Rating) IsSuccess() bool {
	return r.IsValid() && r != RatingAgain
}

// String returns the lowercase rating name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. A Rating serializes as a JSON string.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	return r.UnmarshalText([]byte(s))
}
