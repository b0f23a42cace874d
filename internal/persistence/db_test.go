package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bakery/internal/bakery"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/mission"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)
	id := uuid.New()

	b := bakery.New("Penny's Patisserie")
	for _, m := range mission.Defaults() {
		b.AddMission(m)
	}
	b.SaveMoney(25)
	b.ResistPurchase("vending machine snack")
	b.Bake(goods.Bread)
	b.CompleteMission("m3")

	require.NoError(t, db.SaveGame(id, b))

	restored, err := db.LoadSession(id)
	require.NoError(t, err)

	assert.Equal(t, b.Name, restored.Name)
	assert.Equal(t, b.Day, restored.Day)
	assert.Equal(t, b.Coins, restored.Coins)
	assert.InDelta(t, b.Savings, restored.Savings, 1e-9)
	assert.Equal(t, b.Ingredients, restored.Ingredients)
	assert.Equal(t, b.UnlockedRecipes, restored.UnlockedRecipes)
	assert.Equal(t, b.Upgrades, restored.Upgrades)
	assert.Equal(t, b.Supplier.Score, restored.Supplier.Score)
	assert.InDelta(t, b.Supplier.PendingPayment, restored.Supplier.PendingPayment, 1e-9)
	assert.Equal(t, b.Log.Len(), restored.Log.Len())
	assert.Len(t, restored.Missions, 5)

	// The full snapshot survives the round trip. Compare serialized forms:
	// event data values come back as generic JSON numbers.
	want, err := b.JSON()
	require.NoError(t, err)
	got, err := restored.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestSaveGameFlushesUnsavedEventsOnce(t *testing.T) {
	db := openTestDB(t)
	id := uuid.New()

	b := bakery.New("X")
	b.SaveMoney(10) // upgrade event + save event
	require.NoError(t, db.SaveGame(id, b))

	// A second save with no new activity must not duplicate history.
	require.NoError(t, db.SaveGame(id, b))

	events, err := db.RecentEvents(id, 50)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	b.ResistPurchase("impulse snack")
	require.NoError(t, db.SaveGame(id, b))

	events, err = db.RecentEvents(id, 50)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Contains(t, events[2].Message, "You resisted")
}

func TestRecentEventsOldestFirstWithLimit(t *testing.T) {
	db := openTestDB(t)
	id := uuid.New()

	b := bakery.New("X")
	b.Ingredients[goods.Flour] = 100
	b.Ingredients[goods.Sugar] = 100
	for i := 0; i < 5; i++ {
		b.Bake(goods.Bread)
	}
	require.NoError(t, db.SaveGame(id, b))

	events, err := db.RecentEvents(id, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Contains(t, events[0].Message, "Customers: 3")
	assert.Contains(t, events[2].Message, "Customers: 5")
}

func TestLatestSessionID(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LatestSessionID()
	assert.Error(t, err, "empty database has no sessions")

	first := uuid.New()
	require.NoError(t, db.SaveSession(first, bakery.New("First")))

	got, err := db.LatestSessionID()
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetMeta("missing")
	assert.Error(t, err)

	require.NoError(t, db.SaveMeta("schema_version", "1"))
	require.NoError(t, db.SaveMeta("schema_version", "2"))

	v, err := db.GetMeta("schema_version")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
