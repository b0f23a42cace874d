// Package bakery holds the aggregate root for one game session. Every player
// action is a method on Bakery: it validates, mutates, runs the cross-cutting
// checks, appends an event to the log, and returns that event. A failed
// validation returns a failure event and mutates nothing.
//
// Bakery is not safe for concurrent use. Callers that expose it to more than
// one goroutine must serialize every method call (the HTTP layer wraps it in
// a single mutex).
package bakery

import (
	"fmt"
	"math"
	"strings"

	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/happening"
	"github.com/talgya/mini-bakery/internal/mission"
	"github.com/talgya/mini-bakery/internal/starter"
	"github.com/talgya/mini-bakery/internal/supplier"
)

// Milestone is a cumulative-savings threshold that permanently unlocks a
// named upgrade.
type Milestone struct {
	Threshold int
	Name      string
}

// Milestones lists the upgrade ladder, ascending by threshold. Unlocking is
// idempotent and irreversible.
var Milestones = []Milestone{
	{10, "display_shelf"},
	{50, "coffee_machine"},
	{100, "storm_insurance"},
	{300, "second_oven"},
}

// recipeUnlockRules maps a trigger ingredient to the recipe it unlocks once
// the pantry holds at least two of it.
var recipeUnlockRules = []struct {
	Ingredient goods.Ingredient
	Recipe     goods.Pastry
}{
	{goods.Butter, goods.Croissant},
	{goods.Strawberries, goods.StrawberryTart},
	{goods.Chocolate, goods.ChocolateCake},
}

// Bakery is the root aggregate: balances, pantry, unlocks, missions, and the
// event log. All fields mutate in place through its methods.
type Bakery struct {
	Name            string                   `json:"name"`
	Coins           int                      `json:"coins"`
	Savings         float64                  `json:"savings"`
	Day             int                      `json:"day"`
	Ingredients     map[goods.Ingredient]int `json:"ingredients"`
	UnlockedRecipes []goods.Pastry           `json:"unlocked_recipes"`
	Upgrades        []string                 `json:"upgrades"`
	Starter         *starter.Starter         `json:"starter"`
	Supplier        *supplier.Trust          `json:"supplier"`
	CustomersToday  int                      `json:"customers_today"`
	StressMode      bool                     `json:"stress_mode"`
	Missions        []*mission.Mission       `json:"missions"`
	Log             *event.Log               `json:"event_log"`
}

// New creates a fresh bakery: day 1, empty pantry with every ingredient key
// present, only the bread recipe unlocked.
func New(name string) *Bakery {
	if name == "" {
		name = "My Bakery"
	}
	pantry := make(map[goods.Ingredient]int, len(goods.Ingredients))
	for _, ing := range goods.Ingredients {
		pantry[ing] = 0
	}
	return &Bakery{
		Name:            name,
		Day:             1,
		Ingredients:     pantry,
		UnlockedRecipes: []goods.Pastry{goods.Bread},
		Upgrades:        []string{},
		Starter:         starter.New(),
		Supplier:        supplier.New(),
		Log:             &event.Log{},
	}
}

func (b *Bakery) log(e event.Event) {
	b.Log.Append(e)
}

// ── Finance actions ─────────────────────────────────────────────────────

// SaveMoney moves amount into savings, earns floor(amount) flour, and adds
// 10% of the amount to the pending supplier bill.
func (b *Bakery) SaveMoney(amount float64) event.Event {
	if amount <= 0 {
		return event.New(event.TypeSave, "Amount must be positive.", "❌")
	}
	b.Savings += amount
	flourEarned := int(amount)
	b.Ingredients[goods.Flour] += flourEarned
	b.Supplier.AddBill(round2(amount * 0.1))
	b.checkUpgrades()
	b.checkStress()
	e := event.WithData(event.TypeSave,
		fmt.Sprintf("Saved $%.2f! +%d flour. Total savings: $%.2f", amount, flourEarned, b.Savings),
		"💰",
		map[string]any{"amount": amount, "flour_earned": flourEarned, "savings": b.Savings},
	)
	b.log(e)
	return e
}

// LogPurchase records a real-world purchase. An impulse buy costs flour
// (clamped to the pantry, never negative); a mindful one earns 10% back in
// coins.
func (b *Bakery) LogPurchase(description string, amount float64, isImpulse bool) event.Event {
	if amount <= 0 {
		return event.New(event.TypeMindfulBuy, "Amount must be positive.", "❌")
	}
	var e event.Event
	if isImpulse {
		lost := min(int(amount/5), b.Ingredients[goods.Flour])
		b.Ingredients[goods.Flour] -= lost
		b.checkStress()
		e = event.WithData(event.TypeImpulseBuy,
			fmt.Sprintf("A raccoon stole your flour! ($%.2f impulse: %s) -%d flour.", amount, description, lost),
			"🦝",
			map[string]any{"amount": amount, "description": description, "flour_lost": lost},
		)
	} else {
		coinsEarned := int(amount * 0.1)
		b.Coins += coinsEarned
		e = event.WithData(event.TypeMindfulBuy,
			fmt.Sprintf("Mindful purchase: %s ($%.2f). +%d coins.", description, amount, coinsEarned),
			"✔️",
			map[string]any{"amount": amount, "description": description, "coins_earned": coinsEarned},
		)
	}
	b.log(e)
	return e
}

// ResistPurchase rewards skipping a temptation with two strawberries.
func (b *Bakery) ResistPurchase(description string) event.Event {
	b.Ingredients[goods.Strawberries] += 2
	b.checkRecipeUnlocks()
	e := event.WithData(event.TypeResist,
		fmt.Sprintf("You resisted '%s'! Dough stockpile protected. +2 strawberries.", description),
		"🛡️",
		map[string]any{"description": description, "ingredient": "strawberries", "amount": 2},
	)
	b.log(e)
	return e
}

// ── Supplier ────────────────────────────────────────────────────────────

// PaySupplier settles the pending bill. When the payment lifts the trust
// tier into one that grants a wholesale ingredient the player does not hold
// yet, three units arrive as a bonus.
func (b *Bakery) PaySupplier() event.Event {
	oldIngredient := b.Supplier.UnlockedIngredient()
	e := b.Supplier.PayBill()
	newIngredient := b.Supplier.UnlockedIngredient()
	if newIngredient != nil &&
		(oldIngredient == nil || *oldIngredient != *newIngredient) &&
		b.Ingredients[*newIngredient] == 0 {
		b.Ingredients[*newIngredient] += 3
		b.log(event.WithData(event.TypePaySupplier,
			fmt.Sprintf("Supplier tier reached! Wholesale %s deal unlocked. +3 %s.", newIngredient, newIngredient),
			"🎁",
			map[string]any{"ingredient": newIngredient.String(), "amount": 3},
		))
	}
	b.log(e)
	return e
}

// MissSupplierPayment records a missed bill against the trust score.
func (b *Bakery) MissSupplierPayment() event.Event {
	e := b.Supplier.MissBill()
	b.log(e)
	return e
}

// ── Baking ──────────────────────────────────────────────────────────────

// Bake produces one pastry. The recipe must be unlocked and every ingredient
// present in full before anything is deducted; a shortfall leaves the pantry
// untouched. Payout scales with upgrades and the supplier discount.
func (b *Bakery) Bake(pastry goods.Pastry) event.Event {
	if !b.RecipeUnlocked(pastry) {
		return event.New(event.TypeBake, fmt.Sprintf("%s recipe is locked.", pastry), "🔒")
	}
	recipe := goods.Recipes[pastry]
	for _, ing := range goods.Ingredients {
		if qty := recipe[ing]; b.Ingredients[ing] < qty {
			return event.New(event.TypeBake,
				fmt.Sprintf("Not enough %s to bake %s.", ing, pastry), "❌")
		}
	}
	for _, ing := range goods.Ingredients {
		b.Ingredients[ing] -= recipe[ing]
	}
	base := 5 + len(b.Upgrades)*2
	bonus := int(float64(base) * b.Supplier.Discount())
	earned := base + bonus
	b.Coins += earned
	b.CustomersToday++
	e := event.WithData(event.TypeBake,
		fmt.Sprintf("Baked %s! +%d coins (supplier discount: +%d). Customers: %d",
			pastry, earned, bonus, b.CustomersToday),
		"🥐",
		map[string]any{"pastry": pastry.String(), "coins_earned": earned, "discount_bonus": bonus, "customers": b.CustomersToday},
	)
	b.log(e)
	return e
}

// ── Missions ────────────────────────────────────────────────────────────

// AddMission appends a mission to the session's list.
func (b *Bakery) AddMission(m *mission.Mission) {
	b.Missions = append(b.Missions, m)
}

// CompleteMission completes the mission with the given id and credits its
// rewards. Rewards are granted only on the first completion.
func (b *Bakery) CompleteMission(id string) event.Event {
	var m *mission.Mission
	for _, cand := range b.Missions {
		if cand.ID == id {
			m = cand
			break
		}
	}
	if m == nil {
		return event.New(event.TypeMissionDone, fmt.Sprintf("Mission '%s' not found.", id), "❌")
	}
	wasCompleted := m.Completed
	e := m.Complete()
	if !wasCompleted && m.Completed {
		if m.RewardIngredient != nil {
			b.Ingredients[*m.RewardIngredient] += m.RewardAmount
			b.checkRecipeUnlocks()
		}
		b.Coins += m.RewardCoins
	}
	b.log(e)
	return e
}

// ── Investing ───────────────────────────────────────────────────────────

// Invest debits floor(amount) coins and feeds the sourdough starter. A
// non-positive amount fails at the starter and debits nothing.
func (b *Bakery) Invest(amount float64) event.Event {
	if amount <= 0 {
		e := b.Starter.Feed(amount)
		b.log(e)
		return e
	}
	cost := int(amount)
	if b.Coins < cost {
		return event.New(event.TypeInvest, "Not enough coins to invest.", "❌")
	}
	b.Coins -= cost
	e := b.Starter.Feed(amount)
	b.log(e)
	return e
}

// ── New day ─────────────────────────────────────────────────────────────

// NewDay advances the calendar: customers reset, the starter grows overnight
// (whole coins land in the till), and upgrades pay passive income. Returns
// the events generated, starter growth first.
func (b *Bakery) NewDay() []event.Event {
	b.Day++
	b.CustomersToday = 0
	var events []event.Event

	earned, starterEvent := b.Starter.OvernightGrowth()
	b.Coins += int(earned)
	b.log(starterEvent)
	events = append(events, starterEvent)

	passive := len(b.Upgrades) * 2
	if passive > 0 {
		b.Coins += passive
		e := event.WithData(event.TypeNewDay,
			fmt.Sprintf("Passive income from upgrades: +%d coins.", passive),
			"🏪",
			map[string]any{"passive_income": passive},
		)
		b.log(e)
		events = append(events, e)
	}

	b.checkStress()
	return events
}

// ApplyHappening applies a random daily happening's deltas. Pantry and till
// never go negative; a storm is waved off entirely when storm insurance is
// owned. Returns the logged event.
func (b *Bakery) ApplyHappening(h happening.Happening) event.Event {
	if h.Blockable && b.HasUpgrade("storm_insurance") {
		e := event.WithData(event.TypeNewDay,
			fmt.Sprintf("%s Storm insurance covered it.", h.Message),
			"🌂",
			map[string]any{"happening": h.ID, "blocked": true},
		)
		b.log(e)
		return e
	}
	b.Ingredients[goods.Flour] = max(0, b.Ingredients[goods.Flour]+h.FlourDelta)
	b.Coins = max(0, b.Coins+h.CoinsDelta)
	b.CustomersToday = max(0, b.CustomersToday+h.CustomersDelta)
	b.checkStress()
	e := event.WithData(event.TypeNewDay, h.Message, h.Emoji,
		map[string]any{"happening": h.ID, "flour": h.FlourDelta, "coins": h.CoinsDelta, "customers": h.CustomersDelta},
	)
	b.log(e)
	return e
}

// ── Cross-cutting checks ────────────────────────────────────────────────

func (b *Bakery) checkUpgrades() {
	for _, m := range Milestones {
		if !b.HasUpgrade(m.Name) && b.Savings >= float64(m.Threshold) {
			b.Upgrades = append(b.Upgrades, m.Name)
			b.log(event.WithData(event.TypeUpgrade,
				fmt.Sprintf("Upgrade unlocked: %s! ($%d saved)", titleCase(m.Name), m.Threshold),
				"🏪",
				map[string]any{"upgrade": m.Name, "cost": m.Threshold},
			))
		}
	}
}

func (b *Bakery) checkRecipeUnlocks() {
	for _, rule := range recipeUnlockRules {
		if b.Ingredients[rule.Ingredient] >= 2 && !b.RecipeUnlocked(rule.Recipe) {
			b.UnlockedRecipes = append(b.UnlockedRecipes, rule.Recipe)
			b.log(event.WithData(event.TypeMissionDone,
				fmt.Sprintf("New recipe unlocked: %s!", titleCase(rule.Recipe.String())),
				"📖",
				map[string]any{"recipe": rule.Recipe.String()},
			))
		}
	}
}

// checkStress recomputes the low-resource flag. The warning event fires only
// on the false→true edge, never continuously and never on exit.
func (b *Bakery) checkStress() {
	wasStressed := b.StressMode
	b.StressMode = b.Ingredients[goods.Flour] < 3 && b.Coins < 10
	if b.StressMode && !wasStressed {
		b.log(event.WithData(event.TypeStress,
			"Customers have stopped coming. Stabilize plan: "+
				"(1) Save $5 today  (2) Skip one takeout  (3) Pay your supplier",
			"⚠️",
			map[string]any{"stress": true},
		))
	}
}

// HasUpgrade reports whether the named upgrade has been unlocked.
func (b *Bakery) HasUpgrade(name string) bool {
	for _, u := range b.Upgrades {
		if u == name {
			return true
		}
	}
	return false
}

// RecipeUnlocked reports whether the pastry's recipe is available.
func (b *Bakery) RecipeUnlocked(p goods.Pastry) bool {
	for _, r := range b.UnlockedRecipes {
		if r == p {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// titleCase renders a snake_case identifier as display text
// ("display_shelf" → "Display Shelf").
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
