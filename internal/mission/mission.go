// Package mission provides one-shot completable reward units.
package mission

import (
	"fmt"
	"strings"

	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
)

// Mission is a player objective with an optional ingredient reward and an
// optional coin reward. Completed is a one-way false→true transition.
type Mission struct {
	ID               string            `json:"id"`
	Description      string            `json:"description"`
	RewardIngredient *goods.Ingredient `json:"reward_ingredient"`
	RewardAmount     int               `json:"reward_amount"`
	RewardCoins      int               `json:"reward_coins"`
	Completed        bool              `json:"completed"`
}

// Complete marks the mission done and returns an event listing the reward
// components it actually carries. Completing twice is a no-op reported with
// an informational event.
func (m *Mission) Complete() event.Event {
	if m.Completed {
		return event.New(event.TypeMissionDone, "Already completed.", "ℹ️")
	}
	m.Completed = true
	var parts []string
	if m.RewardIngredient != nil {
		parts = append(parts, fmt.Sprintf("+%d %s", m.RewardAmount, m.RewardIngredient))
	}
	if m.RewardCoins != 0 {
		parts = append(parts, fmt.Sprintf("+%d coins", m.RewardCoins))
	}
	return event.WithData(event.TypeMissionDone,
		fmt.Sprintf("'%s' complete! %s", m.Description, strings.Join(parts, ", ")),
		"✅",
		map[string]any{"id": m.ID, "rewards": parts},
	)
}

// Snapshot is the read-only mission view exposed to the frontend.
type Snapshot struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Reward      RewardSnapshot `json:"reward"`
	Completed   bool           `json:"completed"`
}

// RewardSnapshot describes the reward components of a mission.
type RewardSnapshot struct {
	Ingredient *goods.Ingredient `json:"ingredient"`
	Amount     int               `json:"amount"`
	Coins      int               `json:"coins"`
}

// Snapshot returns the display view of the mission.
func (m *Mission) Snapshot() Snapshot {
	return Snapshot{
		ID:          m.ID,
		Description: m.Description,
		Reward: RewardSnapshot{
			Ingredient: m.RewardIngredient,
			Amount:     m.RewardAmount,
			Coins:      m.RewardCoins,
		},
		Completed: m.Completed,
	}
}

// Defaults returns the starting mission list for a fresh game session.
func Defaults() []*Mission {
	return []*Mission{
		{ID: "m1", Description: "No takeout today", RewardIngredient: ingredient(goods.Strawberries), RewardAmount: 2},
		{ID: "m2", Description: "Transfer $5 to savings", RewardIngredient: ingredient(goods.Butter), RewardAmount: 1, RewardCoins: 5},
		{ID: "m3", Description: "Check your balance", RewardCoins: 3},
		{ID: "m4", Description: "Resist one impulse buy", RewardIngredient: ingredient(goods.Chocolate), RewardAmount: 1},
		{ID: "m5", Description: "Pay your supplier on time", RewardCoins: 10},
	}
}

func ingredient(i goods.Ingredient) *goods.Ingredient { return &i }
