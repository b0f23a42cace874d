package bakery

import (
	"encoding/json"

	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/mission"
	"github.com/talgya/mini-bakery/internal/starter"
	"github.com/talgya/mini-bakery/internal/supplier"
)

// recentEventCount bounds the event-log tail exposed externally.
const recentEventCount = 10

// Snapshot is the read-only view handed to whatever renders the game. It is
// derived state, not authoritative: money fields are rounded to cents and
// only the log tail is included.
type Snapshot struct {
	Name            string                   `json:"name"`
	Day             int                      `json:"day"`
	Coins           int                      `json:"coins"`
	Savings         float64                  `json:"savings"`
	StressMode      bool                     `json:"stress_mode"`
	CustomersToday  int                      `json:"customers_today"`
	Upgrades        []string                 `json:"upgrades"`
	UnlockedRecipes []goods.Pastry           `json:"unlocked_recipes"`
	Ingredients     map[goods.Ingredient]int `json:"ingredients"`
	Starter         starter.Snapshot         `json:"starter"`
	Supplier        supplier.Snapshot        `json:"supplier"`
	Missions        []mission.Snapshot       `json:"missions"`
	RecentEvents    []event.Event            `json:"recent_events"`
}

// Snapshot builds the current display view.
func (b *Bakery) Snapshot() Snapshot {
	pantry := make(map[goods.Ingredient]int, len(goods.Ingredients))
	for _, ing := range goods.Ingredients {
		pantry[ing] = b.Ingredients[ing]
	}

	missions := make([]mission.Snapshot, 0, len(b.Missions))
	for _, m := range b.Missions {
		missions = append(missions, m.Snapshot())
	}

	recipes := make([]goods.Pastry, len(b.UnlockedRecipes))
	copy(recipes, b.UnlockedRecipes)

	upgrades := make([]string, len(b.Upgrades))
	copy(upgrades, b.Upgrades)

	return Snapshot{
		Name:            b.Name,
		Day:             b.Day,
		Coins:           b.Coins,
		Savings:         round2(b.Savings),
		StressMode:      b.StressMode,
		CustomersToday:  b.CustomersToday,
		Upgrades:        upgrades,
		UnlockedRecipes: recipes,
		Ingredients:     pantry,
		Starter:         b.Starter.Snapshot(),
		Supplier:        b.Supplier.Snapshot(),
		Missions:        missions,
		RecentEvents:    b.Log.Recent(recentEventCount),
	}
}

// JSON renders the snapshot as indented JSON for frontends and the demo.
func (b *Bakery) JSON() ([]byte, error) {
	return json.MarshalIndent(b.Snapshot(), "", "  ")
}
