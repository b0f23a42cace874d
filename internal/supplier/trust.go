// Package supplier implements the supplier trust relationship: a bounded
// credit-score state machine whose score brackets into named tiers. Higher
// tiers confer a purchase discount and can unlock wholesale ingredients.
package supplier

import (
	"fmt"
	"math"

	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
)

// Score bounds. The score starts at the floor, like a thin credit file.
const (
	MinScore = 300
	MaxScore = 850
)

// Tier is one bracket of the trust ladder.
type Tier struct {
	MinScore int
	Name     string
	Discount float64
	Unlocks  *goods.Ingredient // wholesale deal granted at this tier, if any
}

// Tiers is the trust ladder, ascending by MinScore. The first entry is the
// floor and matches any score. Lookup takes the greatest entry whose
// MinScore does not exceed the current score.
var Tiers = []Tier{
	{0, "Unknown", 0.0, nil},
	{400, "Acquainted", 0.05, nil},
	{550, "Trusted", 0.10, ingredient(goods.Chocolate)},
	{700, "Preferred", 0.15, ingredient(goods.Strawberries)},
	{800, "Partner", 0.20, ingredient(goods.Butter)},
}

func ingredient(i goods.Ingredient) *goods.Ingredient { return &i }

// Trust tracks the standing with the (single) ingredient supplier.
type Trust struct {
	Score          int     `json:"score"`
	PendingPayment float64 `json:"pending_payment"`
	PaymentsMade   int     `json:"payments_made"`
	PaymentsMissed int     `json:"payments_missed"`
}

// New creates a trust record at the score floor with no pending bill.
func New() *Trust {
	return &Trust{Score: MinScore}
}

// Tier returns the bracket for the current score: the last ladder entry
// whose threshold is at or below it. Scores below every threshold fall back
// to the floor entry.
func (t *Trust) Tier() Tier {
	current := Tiers[0]
	for _, tier := range Tiers {
		if t.Score >= tier.MinScore {
			current = tier
		}
	}
	return current
}

// TierName returns the current tier's display name.
func (t *Trust) TierName() string { return t.Tier().Name }

// Discount returns the current tier's purchase discount fraction.
func (t *Trust) Discount() float64 { return t.Tier().Discount }

// UnlockedIngredient returns the wholesale ingredient granted by the current
// tier, or nil below the first unlocking tier.
func (t *Trust) UnlockedIngredient() *goods.Ingredient { return t.Tier().Unlocks }

// AddBill accumulates amount onto the pending supplier bill. Zero and
// negative amounts are accepted as-is; callers own validation.
func (t *Trust) AddBill(amount float64) {
	t.PendingPayment += amount
}

// PayBill settles the pending bill, raising the score by 20 up to the cap.
// With nothing pending it returns an informational event and changes nothing.
func (t *Trust) PayBill() event.Event {
	if t.PendingPayment <= 0 {
		return event.New(event.TypePaySupplier, "No pending supplier bill.", "ℹ️")
	}
	oldTier := t.TierName()
	t.Score = min(MaxScore, t.Score+20)
	t.PaymentsMade++
	t.PendingPayment = 0
	newTier := t.TierName()
	tierChanged := newTier != oldTier
	msg := fmt.Sprintf("Supplier paid on time! Trust score: %d", t.Score)
	if tierChanged {
		msg += fmt.Sprintf(" → Tier up: %s! Better deals unlocked.", newTier)
	}
	return event.WithData(event.TypePaySupplier, msg, "🤝",
		map[string]any{"score": t.Score, "tier": newTier, "tier_changed": tierChanged},
	)
}

// MissBill records a missed payment, dropping the score by 50 down to the
// floor. The pending bill is left untouched.
func (t *Trust) MissBill() event.Event {
	t.Score = max(MinScore, t.Score-50)
	t.PaymentsMissed++
	return event.WithData(event.TypeMissPayment,
		fmt.Sprintf("Missed supplier payment! Trust score dropped to %d. Prices rising.", t.Score),
		"📉",
		map[string]any{"score": t.Score, "tier": t.TierName()},
	)
}

// Snapshot is the read-only supplier view exposed to the frontend.
type Snapshot struct {
	Score          int     `json:"score"`
	Tier           string  `json:"tier"`
	Discount       float64 `json:"discount"`
	PendingPayment float64 `json:"pending_payment"`
	PaymentsMade   int     `json:"payments_made"`
	PaymentsMissed int     `json:"payments_missed"`
}

// Snapshot returns the display view with the bill rounded to cents.
func (t *Trust) Snapshot() Snapshot {
	return Snapshot{
		Score:          t.Score,
		Tier:           t.TierName(),
		Discount:       t.Discount(),
		PendingPayment: math.Round(t.PendingPayment*100) / 100,
		PaymentsMade:   t.PaymentsMade,
		PaymentsMissed: t.PaymentsMissed,
	}
}
