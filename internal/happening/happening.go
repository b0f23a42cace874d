// Package happening provides the random daily flavor events rolled when a
// new day opens: small windfalls and setbacks applied on top of the regular
// overnight bookkeeping.
package happening

import (
	"crypto/rand"
	"encoding/binary"
)

// Happening is one entry in the daily event table. Deltas are applied to the
// bakery by the aggregate, clamped so nothing goes negative.
type Happening struct {
	ID             string
	Message        string
	Emoji          string
	FlourDelta     int
	CoinsDelta     int
	CustomersDelta int
	Blockable      bool // negated by storm insurance
}

// Table is the fixed pool of daily happenings.
var Table = []Happening{
	{ID: "raccoon", Message: "A raccoon raided the pantry overnight!", Emoji: "🦝", FlourDelta: -6},
	{ID: "rush", Message: "Morning rush! Extra customers arrived!", Emoji: "🌟", CoinsDelta: 10},
	{ID: "rain", Message: "Rainy day! Customers stayed home.", Emoji: "🌧️", CustomersDelta: -2},
	{ID: "sunny", Message: "Gorgeous day! Foot traffic is up.", Emoji: "☀️", CustomersDelta: 2},
	{ID: "delivery", Message: "Flour delivery! +10 flour bonus.", Emoji: "🚚", FlourDelta: 10},
	{ID: "review", Message: "Viral review! New customers coming.", Emoji: "⭐", CustomersDelta: 3},
	{ID: "storm", Message: "Storm! All customers stayed home.", Emoji: "⛈️", CustomersDelta: -4, Blockable: true},
	{ID: "mouse", Message: "Mouse infestation! Flour contaminated.", Emoji: "🐭", FlourDelta: -10},
	{ID: "sale", Message: "Competitor sale! Customers sniped.", Emoji: "💸", CoinsDelta: -3},
}

// Source yields floats in [0, 1) used to pick a happening.
type Source func() float64

// Roll picks one happening from the table using the given source.
func Roll(src Source) Happening {
	idx := int(src() * float64(len(Table)))
	if idx >= len(Table) {
		idx = len(Table) - 1
	}
	return Table[idx]
}

// CryptoFloat returns a random float64 in [0, 1) backed by crypto/rand.
func CryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 keeps the roll in range.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
