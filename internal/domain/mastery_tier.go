package domain

import (
	"encoding/json"
	"fmt"
)

// MasteryTier is a coarse classification of how well a card is known.
// It is used only for batch composition and is independent of the
// numeric scheduling state.
type MasteryTier int

// Tiers in declaration order. The zero value means the tier is untracked.
const (
	TierUntracked MasteryTier = iota
	TierNeedsReinforcement
	TierSomewhatFamiliar
	TierWellKnown
)

var (
	tierNames  = [...]string{TierNeedsReinforcement: "needs_reinforcement", TierSomewhatFamiliar: "somewhat_familiar", TierWellKnown: "well_known"}
	tierByName = map[string]MasteryTier{
		"needs_reinforcement": TierNeedsReinforcement,
		"somewhat_familiar":   TierSomewhatFamiliar,
		"well_known":          TierWellKnown,
	}
)

// MasteryTiers lists the tracked tiers in declaration order. Apportionment
// ties are broken by this order.
func MasteryTiers() []MasteryTier {
	return []MasteryTier{TierNeedsReinforcement, TierSomewhatFamiliar, TierWellKnown}
}

// ParseMasteryTier converts a tier name into a MasteryTier.
func ParseMasteryTier(s string) (MasteryTier, error) {
	t, ok := tierByName[s]
	if !ok {
		return TierUntracked, fmt.Errorf("%w: %q", ErrInvalidMasteryTier, s)
	}
	return t, nil
}

// IsValid reports whether t is one of the tracked tiers.
func (t MasteryTier) IsValid() bool {
	return t >= TierNeedsReinforcement && t <= TierWellKnown
}

// Normalize maps an untracked (or unknown) tier to SomewhatFamiliar.
func (t MasteryTier) Normalize() MasteryTier {
	if !t.IsValid() {
		return TierSomewhatFamiliar
	}
	return t
}

// String returns the tier name.
func (t MasteryTier) String() string {
	if t.IsValid() {
		return tierNames[t]
	}
	if t == TierUntracked {
		return "untracked"
	}
	return fmt.Sprintf("MasteryTier(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler. Untracked tiers are
// written as SomewhatFamiliar.
func (t MasteryTier) MarshalText() ([]byte, error) {
	return []byte(tierNames[t.Normalize()]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *MasteryTier) UnmarshalText(text []byte) error {
	v, err := ParseMasteryTier(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t MasteryTier) MarshalJSON() ([]byte, error) {
	text, _ := t.MarshalText()
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *MasteryTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMasteryTier, data)
	}
	return t.UnmarshalText([]byte(s))
}
