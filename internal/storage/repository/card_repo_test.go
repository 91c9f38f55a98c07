package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

const testSchema = `
CREATE TABLE cards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	set_code TEXT NOT NULL DEFAULT '',
	collector_number TEXT NOT NULL DEFAULT '',
	type_line TEXT NOT NULL DEFAULT '',
	mana_cost TEXT NOT NULL DEFAULT '',
	mana_value REAL NOT NULL DEFAULT 0,
	colors TEXT NOT NULL DEFAULT '[]',
	color_identity TEXT NOT NULL DEFAULT '[]',
	power TEXT,
	toughness TEXT,
	rarity TEXT NOT NULL DEFAULT '',
	oracle_text TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '[]',
	legalities TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(name, set_code, collector_number)
);

CREATE TABLE collection (
	card_id INTEGER PRIMARY KEY REFERENCES cards(id) ON DELETE CASCADE,
	quantity INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func setupTestRepo(t *testing.T) CardRepository {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewCardRepository(db)
}

func intPtr(v int) *int { return &v }

func sampleCard() *cards.Card {
	return &cards.Card{
		Name:            "Lightning Bolt",
		SetCode:         "m21",
		CollectorNumber: "199",
		TypeLine:        "Instant",
		ManaCost:        "{R}",
		ManaValue:       1,
		Colors:          []string{"R"},
		ColorIdentity:   []string{"R"},
		Rarity:          "uncommon",
		OracleText:      "Lightning Bolt deals 3 damage to any target.",
		Keywords:        []string{},
		Legalities:      map[string]string{"commander": "legal", "modern": "legal"},
	}
}

func TestSaveAndFindCardByName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, sampleCard()))

	found, err := repo.FindCardByName(ctx, "Lightning Bolt")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Bolt", found.Name)
	assert.Equal(t, "m21", found.SetCode)
	assert.Equal(t, float64(1), found.ManaValue)
	assert.Equal(t, []string{"R"}, found.ColorIdentity)
	assert.Equal(t, "legal", found.Legalities["commander"])
}

func TestFindCardByNameCaseInsensitive(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, sampleCard()))

	found, err := repo.FindCardByName(ctx, "lightning bolt")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Bolt", found.Name)
}

func TestFindCardByNameNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindCardByName(context.Background(), "Nonexistent")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSaveCardUpsert(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	card := sampleCard()
	require.NoError(t, repo.SaveCard(ctx, card))

	card.OracleText = "Updated text."
	require.NoError(t, repo.SaveCard(ctx, card))

	count, err := repo.CountCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := repo.FindCardByName(ctx, "Lightning Bolt")
	require.NoError(t, err)
	assert.Equal(t, "Updated text.", found.OracleText)
}

func TestSaveCardsTransaction(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	list := []cards.Card{
		*sampleCard(),
		{Name: "Shock", SetCode: "m21", CollectorNumber: "159", TypeLine: "Instant", ManaValue: 1},
		{Name: "Grizzly Bears", SetCode: "lea", CollectorNumber: "94", TypeLine: "Creature — Bear",
			ManaValue: 2, Power: intPtr(2), Toughness: intPtr(2)},
	}
	require.NoError(t, repo.SaveCards(ctx, list))

	count, err := repo.CountCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	bears, err := repo.FindCardByName(ctx, "Grizzly Bears")
	require.NoError(t, err)
	require.NotNil(t, bears.Power)
	assert.Equal(t, 2, *bears.Power)
}

func TestSaveCardsEmptyList(t *testing.T) {
	repo := setupTestRepo(t)
	assert.NoError(t, repo.SaveCards(context.Background(), nil))
}

func TestVariableStatsStayNil(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// A card with no power/toughness stores NULL and reads back nil.
	require.NoError(t, repo.SaveCard(ctx, &cards.Card{
		Name: "Tarmogoyf", SetCode: "fut", CollectorNumber: "153", TypeLine: "Creature — Lhurgoyf",
		ManaValue: 2,
	}))

	found, err := repo.FindCardByName(ctx, "Tarmogoyf")
	require.NoError(t, err)
	assert.Nil(t, found.Power)
	assert.Nil(t, found.Toughness)
}

func TestFindCardByDetails(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := sampleCard()
	second := sampleCard()
	second.SetCode = "sta"
	second.CollectorNumber = "42"
	second.Rarity = "mythic"
	require.NoError(t, repo.SaveCards(ctx, []cards.Card{*first, *second}))

	found, err := repo.FindCardByDetails(ctx, "Lightning Bolt", "sta", "42")
	require.NoError(t, err)
	assert.Equal(t, "mythic", found.Rarity)

	// Empty set and collector number fall back to a name-only lookup.
	found, err = repo.FindCardByDetails(ctx, "Lightning Bolt", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Bolt", found.Name)

	_, err = repo.FindCardByDetails(ctx, "Lightning Bolt", "xxx", "1")
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSearchCardsByName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCards(ctx, []cards.Card{
		{Name: "Goblin Guide", SetCode: "zen", CollectorNumber: "126"},
		{Name: "Goblin Matron", SetCode: "usg", CollectorNumber: "190"},
		{Name: "Shock", SetCode: "m21", CollectorNumber: "159"},
	}))

	results, err := repo.SearchCardsByName(ctx, "goblin", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Goblin Guide", results[0].Name)
	assert.Equal(t, "Goblin Matron", results[1].Name)

	limited, err := repo.SearchCardsByName(ctx, "goblin", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSetQuantityAndGetCollectedCards(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCards(ctx, []cards.Card{
		{Name: "Sol Ring", SetCode: "c21", CollectorNumber: "263"},
		{Name: "Shock", SetCode: "m21", CollectorNumber: "159"},
	}))

	require.NoError(t, repo.SetQuantity(ctx, "Sol Ring", "", "", 4))
	require.NoError(t, repo.SetQuantity(ctx, "Shock", "m21", "159", 2))

	collected, err := repo.GetCollectedCards(ctx)
	require.NoError(t, err)
	require.Len(t, collected, 2)
	assert.Equal(t, "Shock", collected[0].Name)
	assert.Equal(t, 2, collected[0].Quantity)
	assert.Equal(t, "Sol Ring", collected[1].Name)
	assert.Equal(t, 4, collected[1].Quantity)
}

func TestSetQuantityZeroRemovesEntry(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, sampleCard()))
	require.NoError(t, repo.SetQuantity(ctx, "Lightning Bolt", "", "", 3))
	require.NoError(t, repo.SetQuantity(ctx, "Lightning Bolt", "", "", 0))

	collected, err := repo.GetCollectedCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, collected)
}

func TestSetQuantityUnknownCard(t *testing.T) {
	repo := setupTestRepo(t)
	err := repo.SetQuantity(context.Background(), "Nonexistent", "", "", 1)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSetQuantityOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveCard(ctx, sampleCard()))
	require.NoError(t, repo.SetQuantity(ctx, "Lightning Bolt", "", "", 1))
	require.NoError(t, repo.SetQuantity(ctx, "Lightning Bolt", "", "", 7))

	collected, err := repo.GetCollectedCards(ctx)
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, 7, collected[0].Quantity)
}

func TestCountCardsEmpty(t *testing.T) {
	repo := setupTestRepo(t)
	count, err := repo.CountCards(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
