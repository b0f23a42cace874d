package bakery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/happening"
	"github.com/talgya/mini-bakery/internal/mission"
)

func stressEventCount(b *Bakery) int {
	count := 0
	for _, e := range b.Log.Recent(b.Log.Len()) {
		if e.Type == event.TypeStress {
			count++
		}
	}
	return count
}

func TestNewStartsWithFullPantryKeysAndBread(t *testing.T) {
	b := New("X")
	if b.Day != 1 {
		t.Fatalf("expected day 1, got %d", b.Day)
	}
	for _, ing := range goods.Ingredients {
		qty, ok := b.Ingredients[ing]
		if !ok {
			t.Fatalf("pantry missing key %s", ing)
		}
		if qty != 0 {
			t.Fatalf("pantry %s starts at %d, want 0", ing, qty)
		}
	}
	if !b.RecipeUnlocked(goods.Bread) {
		t.Fatalf("bread must start unlocked")
	}
	if b.RecipeUnlocked(goods.Croissant) {
		t.Fatalf("croissant must start locked")
	}
}

func TestSaveMoneyRoundTrip(t *testing.T) {
	b := New("X")
	b.SaveMoney(10)
	b.SaveMoney(50)

	assert.InDelta(t, 60.0, b.Savings, 1e-9)
	assert.Equal(t, 60, b.Ingredients[goods.Flour])
	assert.InDelta(t, 6.0, b.Supplier.PendingPayment, 1e-9)
	// Savings crossed the first two milestones on the way.
	assert.Equal(t, []string{"display_shelf", "coffee_machine"}, b.Upgrades)
}

func TestSaveMoneyRejectsNonPositive(t *testing.T) {
	b := New("X")
	e := b.SaveMoney(0)
	if e.Message != "Amount must be positive." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Savings != 0 || b.Ingredients[goods.Flour] != 0 || b.Log.Len() != 0 {
		t.Fatalf("failed save mutated state")
	}
}

func TestUpgradeEventPrecedesSaveEvent(t *testing.T) {
	b := New("X")
	b.SaveMoney(10)

	entries := b.Log.Recent(10)
	require.Len(t, entries, 2)
	assert.Equal(t, event.TypeUpgrade, entries[0].Type)
	assert.Contains(t, entries[0].Message, "Display Shelf")
	assert.Equal(t, event.TypeSave, entries[1].Type)
}

func TestCheckUpgradesUnlocksMultipleMilestonesAtOnce(t *testing.T) {
	b := New("X")
	b.SaveMoney(500)
	assert.Equal(t, []string{"display_shelf", "coffee_machine", "storm_insurance", "second_oven"}, b.Upgrades)

	// Idempotent: saving again re-unlocks nothing.
	before := b.Log.Len()
	b.SaveMoney(5)
	for _, e := range b.Log.Recent(b.Log.Len())[before:] {
		if e.Type == event.TypeUpgrade {
			t.Fatalf("milestone unlocked twice: %q", e.Message)
		}
	}
}

func TestImpulsePurchaseClampsFlourLoss(t *testing.T) {
	b := New("X")
	b.Ingredients[goods.Flour] = 2

	e := b.LogPurchase("late night gadget", 100, true)
	if b.Ingredients[goods.Flour] != 0 {
		t.Fatalf("expected flour clamped at 0, got %d", b.Ingredients[goods.Flour])
	}
	if got := e.Data["flour_lost"]; got != 2 {
		t.Fatalf("expected 2 flour lost, got %v", got)
	}
}

func TestMindfulPurchaseEarnsCoins(t *testing.T) {
	b := New("X")
	e := b.LogPurchase("groceries", 30, false)
	if b.Coins != 3 {
		t.Fatalf("expected 3 coins, got %d", b.Coins)
	}
	if e.Type != event.TypeMindfulBuy {
		t.Fatalf("unexpected event type %q", e.Type)
	}
}

func TestLogPurchaseRejectsNonPositive(t *testing.T) {
	b := New("X")
	b.LogPurchase("nothing", -5, true)
	if b.Log.Len() != 0 || b.Coins != 0 {
		t.Fatalf("failed purchase mutated state")
	}
}

func TestResistGrantsStrawberriesAndUnlocksTart(t *testing.T) {
	b := New("X")
	b.ResistPurchase("coffee shop latte")

	assert.Equal(t, 2, b.Ingredients[goods.Strawberries])
	assert.True(t, b.RecipeUnlocked(goods.StrawberryTart), "two strawberries unlock the tart")

	// The unlock is logged once and never repeats.
	b.ResistPurchase("another latte")
	unlocks := 0
	for _, e := range b.Log.Recent(b.Log.Len()) {
		if strings.Contains(e.Message, "New recipe unlocked") {
			unlocks++
		}
	}
	assert.Equal(t, 1, unlocks)
}

func TestBakeFailsOnEmptyPantry(t *testing.T) {
	b := New("X")
	e := b.Bake(goods.Bread)
	if e.Message != "Not enough flour to bake bread." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Coins != 0 || b.CustomersToday != 0 || b.Log.Len() != 0 {
		t.Fatalf("failed bake mutated state")
	}
}

func TestBakeRequiresEveryIngredient(t *testing.T) {
	b := New("X")
	b.SaveMoney(10) // 10 flour, no sugar

	flourBefore := b.Ingredients[goods.Flour]
	coinsBefore := b.Coins
	e := b.Bake(goods.Bread)

	if e.Message != "Not enough sugar to bake bread." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Ingredients[goods.Flour] != flourBefore || b.Coins != coinsBefore {
		t.Fatalf("partial deduction on failed bake")
	}
}

func TestBakeLockedRecipe(t *testing.T) {
	b := New("X")
	b.Ingredients[goods.Flour] = 10
	b.Ingredients[goods.Butter] = 10 // enough stock, but recipe never unlocked

	e := b.Bake(goods.Croissant)
	if e.Message != "croissant recipe is locked." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Ingredients[goods.Butter] != 10 {
		t.Fatalf("locked bake deducted ingredients")
	}
}

func TestBakeDeductsRecipeAndPays(t *testing.T) {
	b := New("X")
	b.Ingredients[goods.Flour] = 3
	b.Ingredients[goods.Sugar] = 1

	e := b.Bake(goods.Bread)
	assert.Equal(t, 0, b.Ingredients[goods.Flour])
	assert.Equal(t, 0, b.Ingredients[goods.Sugar])
	assert.Equal(t, 5, b.Coins, "base payout with no upgrades and no discount")
	assert.Equal(t, 1, b.CustomersToday)
	assert.Equal(t, event.TypeBake, e.Type)
}

func TestBakePayoutScalesWithUpgradesAndDiscount(t *testing.T) {
	b := New("X")
	b.Upgrades = []string{"display_shelf", "coffee_machine"}
	b.Supplier.Score = 800 // Partner, 20% discount
	b.Ingredients[goods.Flour] = 3
	b.Ingredients[goods.Sugar] = 1

	b.Bake(goods.Bread)
	// base 5 + 2*2 = 9, bonus floor(9 * 0.20) = 1
	assert.Equal(t, 10, b.Coins)
}

func TestPaySupplierGrantsTierUpIngredientBonus(t *testing.T) {
	b := New("X")
	b.Supplier.Score = 530 // one payment below the chocolate tier
	b.Supplier.AddBill(5)

	e := b.PaySupplier()

	assert.Equal(t, 550, b.Supplier.Score)
	assert.Equal(t, "Trusted", b.Supplier.TierName())
	assert.Equal(t, 3, b.Ingredients[goods.Chocolate], "wholesale bonus on first unlock")

	// Bonus event is logged before the payment event.
	entries := b.Log.Recent(2)
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "Wholesale chocolate deal unlocked")
	assert.Equal(t, e.Message, entries[1].Message)
}

func TestPaySupplierSkipsBonusWhenIngredientHeld(t *testing.T) {
	b := New("X")
	b.Supplier.Score = 530
	b.Ingredients[goods.Chocolate] = 1
	b.Supplier.AddBill(5)

	b.PaySupplier()
	assert.Equal(t, 1, b.Ingredients[goods.Chocolate], "bonus only when holding zero")
}

func TestMissSupplierPayment(t *testing.T) {
	b := New("X")
	b.Supplier.Score = 500
	e := b.MissSupplierPayment()
	assert.Equal(t, 450, b.Supplier.Score)
	assert.Equal(t, event.TypeMissPayment, e.Type)
}

func TestCompleteMissionCreditsRewardsOnce(t *testing.T) {
	b := New("X")
	for _, m := range mission.Defaults() {
		b.AddMission(m)
	}

	b.CompleteMission("m2") // +1 butter, +5 coins
	assert.Equal(t, 1, b.Ingredients[goods.Butter])
	assert.Equal(t, 5, b.Coins)

	e := b.CompleteMission("m2")
	assert.Equal(t, "Already completed.", e.Message)
	assert.Equal(t, 1, b.Ingredients[goods.Butter], "no double ingredient grant")
	assert.Equal(t, 5, b.Coins, "no double coin grant")
}

func TestCompleteMissionUnknownID(t *testing.T) {
	b := New("X")
	e := b.CompleteMission("nope")
	if e.Message != "Mission 'nope' not found." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Log.Len() != 0 {
		t.Fatalf("unknown mission logged an event")
	}
}

func TestMissionIngredientRewardCanUnlockRecipe(t *testing.T) {
	b := New("X")
	straw := goods.Strawberries
	b.AddMission(&mission.Mission{ID: "big", Description: "Big win", RewardIngredient: &straw, RewardAmount: 2})

	b.CompleteMission("big")
	assert.True(t, b.RecipeUnlocked(goods.StrawberryTart))
}

func TestInvestDebitsFlooredCoins(t *testing.T) {
	b := New("X")
	b.Coins = 100
	b.Invest(20.7)
	assert.Equal(t, 80, b.Coins)
	assert.InDelta(t, 20.7, b.Starter.Balance, 1e-9)
}

func TestInvestInsufficientCoins(t *testing.T) {
	b := New("X")
	b.Coins = 5
	e := b.Invest(10)
	if e.Message != "Not enough coins to invest." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Coins != 5 || b.Starter.Balance != 0 || b.Log.Len() != 0 {
		t.Fatalf("failed invest mutated state")
	}
}

func TestInvestNonPositiveDebitsNothing(t *testing.T) {
	b := New("X")
	b.Coins = 10
	e := b.Invest(0)
	if e.Message != "Feed amount must be positive." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if b.Coins != 10 || b.Starter.Balance != 0 {
		t.Fatalf("rejected invest mutated state")
	}
}

func TestNewDayAppliesGrowthAndResetsCustomers(t *testing.T) {
	b := New("X")
	b.Coins = 100
	b.Invest(50)
	b.CustomersToday = 4

	events := b.NewDay()

	assert.Equal(t, 2, b.Day)
	assert.Equal(t, 0, b.CustomersToday)
	assert.Equal(t, 51, b.Coins, "whole-coin share of $1.00 growth")
	require.Len(t, events, 1, "no passive income without upgrades")
	assert.Equal(t, event.TypeNewDay, events[0].Type)
	assert.Contains(t, events[0].Message, "Starter grew overnight")
}

func TestNewDayPassiveIncomeWithUpgrades(t *testing.T) {
	b := New("X")
	b.Upgrades = []string{"display_shelf", "coffee_machine"}

	events := b.NewDay()

	require.Len(t, events, 2, "growth event first, then passive income")
	assert.Contains(t, events[1].Message, "Passive income")
	assert.Equal(t, 4, b.Coins)
}

func TestStressFiresOnlyOnEntryEdge(t *testing.T) {
	b := New("X")

	b.LogPurchase("impulse one", 10, true)
	assert.True(t, b.StressMode)
	assert.Equal(t, 1, stressEventCount(b))

	// Still qualifying, so no second warning.
	b.LogPurchase("impulse two", 10, true)
	assert.True(t, b.StressMode)
	assert.Equal(t, 1, stressEventCount(b))

	// Recover, then re-enter: the edge fires again.
	b.SaveMoney(20)
	assert.False(t, b.StressMode)
	b.LogPurchase("impulse three", 200, true)
	assert.True(t, b.StressMode)
	assert.Equal(t, 2, stressEventCount(b))
}

func TestApplyHappeningClampsPantryAndTill(t *testing.T) {
	b := New("X")
	b.Ingredients[goods.Flour] = 2

	raccoon := happening.Table[0]
	require.Equal(t, "raccoon", raccoon.ID)
	b.ApplyHappening(raccoon)
	assert.Equal(t, 0, b.Ingredients[goods.Flour])
}

func TestStormBlockedByInsurance(t *testing.T) {
	var storm happening.Happening
	for _, h := range happening.Table {
		if h.ID == "storm" {
			storm = h
		}
	}
	require.True(t, storm.Blockable)

	b := New("X")
	b.Upgrades = []string{"storm_insurance"}
	b.CustomersToday = 3

	e := b.ApplyHappening(storm)
	assert.Equal(t, 3, b.CustomersToday, "insurance negates the storm")
	assert.Contains(t, e.Message, "Storm insurance covered it")
}

func TestSnapshotShape(t *testing.T) {
	b := New("Penny's Patisserie")
	for _, m := range mission.Defaults() {
		b.AddMission(m)
	}
	b.Savings = 10.456
	for i := 0; i < 15; i++ {
		b.ResistPurchase("temptation")
	}

	snap := b.Snapshot()
	assert.Equal(t, "Penny's Patisserie", snap.Name)
	assert.InDelta(t, 10.46, snap.Savings, 1e-9, "savings rounded to cents")
	assert.Len(t, snap.Ingredients, len(goods.Ingredients))
	assert.Len(t, snap.RecentEvents, 10, "only the log tail is exposed")
	assert.Len(t, snap.Missions, 5)
	assert.NotNil(t, snap.Upgrades)
}
