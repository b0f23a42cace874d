// Package starter implements the sourdough starter, the game's compounding
// investment ledger: coins fed in grow by a fixed rate overnight.
package starter

import (
	"fmt"
	"math"

	"github.com/talgya/mini-bakery/internal/event"
)

// DefaultGrowthRate is the overnight compounding rate for a fresh starter.
const DefaultGrowthRate = 0.02

// Starter holds the investment balance. GrowthRate is fixed per instance;
// TotalEarned only ever increases and equals the sum of all overnight
// growth increments applied.
type Starter struct {
	Balance     float64 `json:"balance"`
	GrowthRate  float64 `json:"growth_rate"`
	TotalEarned float64 `json:"total_earned"`
}

// New creates an empty starter with the default growth rate.
func New() *Starter {
	return &Starter{GrowthRate: DefaultGrowthRate}
}

// Feed adds amount to the balance. Non-positive amounts are rejected with a
// failure event and no mutation.
func (s *Starter) Feed(amount float64) event.Event {
	if amount <= 0 {
		return event.New(event.TypeInvest, "Feed amount must be positive.", "❌")
	}
	s.Balance += amount
	return event.WithData(event.TypeInvest,
		fmt.Sprintf("You fed the starter $%.2f. It's growing! Total: $%.2f", amount, s.Balance),
		"🌱",
		map[string]any{"balance": s.Balance, "amount": amount},
	)
}

// OvernightGrowth applies one night of compounding and returns the increment
// along with the event describing it. The increment is rounded to cents
// before it is applied so repeated growth never accumulates sub-cent drift.
func (s *Starter) OvernightGrowth() (float64, event.Event) {
	earned := round2(s.Balance * s.GrowthRate)
	s.Balance += earned
	s.TotalEarned += earned
	return earned, event.WithData(event.TypeNewDay,
		fmt.Sprintf("Starter grew overnight: +$%.2f (compounding at %.0f%%/day)", earned, s.GrowthRate*100),
		"📈",
		map[string]any{"earned": earned, "balance": s.Balance},
	)
}

// Snapshot is the read-only starter view exposed to the frontend.
type Snapshot struct {
	Balance     float64 `json:"balance"`
	GrowthRate  float64 `json:"growth_rate"`
	TotalEarned float64 `json:"total_earned"`
}

// Snapshot returns the display view with balances rounded to cents.
func (s *Starter) Snapshot() Snapshot {
	return Snapshot{
		Balance:     round2(s.Balance),
		GrowthRate:  s.GrowthRate,
		TotalEarned: round2(s.TotalEarned),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
