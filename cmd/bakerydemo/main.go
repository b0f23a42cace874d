// Command bakerydemo plays through one scripted day and prints every event,
// the status board, and the JSON snapshot a frontend would consume.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-bakery/internal/bakery"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/mission"
)

func main() {
	b := bakery.New("Penny's Patisserie")
	for _, m := range mission.Defaults() {
		b.AddMission(m)
	}

	fmt.Println("=== Day 1: Morning ===")
	fmt.Println(b.SaveMoney(10))
	fmt.Println(b.SaveMoney(50))
	fmt.Println(b.ResistPurchase("coffee shop latte"))
	fmt.Println(b.LogPurchase("groceries", 30, false))
	fmt.Println(b.LogPurchase("impulse Amazon order", 22, true))

	fmt.Println("\n=== Baking ===")
	fmt.Println(b.Bake(goods.Bread))
	fmt.Println(b.Bake(goods.Croissant))

	fmt.Println("\n=== Missions ===")
	fmt.Println(b.CompleteMission("m1"))
	fmt.Println(b.CompleteMission("m2"))

	fmt.Println("\n=== Supplier Payment ===")
	fmt.Println(b.PaySupplier())

	fmt.Println("\n=== Investing ===")
	fmt.Println(b.Invest(20))

	fmt.Println("\n=== End of Day ===")
	for _, e := range b.NewDay() {
		fmt.Println(e)
	}

	printStatus(b)

	fmt.Println("\n=== JSON State (for frontend) ===")
	out, err := b.JSON()
	if err != nil {
		fmt.Fprintln(os.Stderr, "snapshot:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func printStatus(b *bakery.Bakery) {
	snap := b.Snapshot()

	stress := "No ✅"
	if snap.StressMode {
		stress = "YES ⚠️"
	}
	upgrades := "none"
	if len(snap.Upgrades) > 0 {
		upgrades = fmt.Sprint(snap.Upgrades)
	}

	fmt.Printf("\n🧁 %s — Day %d\n", snap.Name, snap.Day)
	fmt.Printf("   Coins:    %s\n", humanize.Comma(int64(snap.Coins)))
	fmt.Printf("   Savings:  $%s\n", humanize.CommafWithDigits(snap.Savings, 2))
	fmt.Printf("   Stress:   %s\n", stress)
	fmt.Printf("   Upgrades: %s\n", upgrades)
	fmt.Printf("   Recipes:  %v\n", snap.UnlockedRecipes)
	fmt.Printf("   Pantry:   %v\n", snap.Ingredients)
	fmt.Printf("   Starter:  $%s (total earned: $%s)\n",
		humanize.CommafWithDigits(snap.Starter.Balance, 2),
		humanize.CommafWithDigits(snap.Starter.TotalEarned, 2))
	fmt.Printf("   Supplier: %s (score: %d, discount: %.0f%%)\n",
		snap.Supplier.Tier, snap.Supplier.Score, snap.Supplier.Discount*100)
}
