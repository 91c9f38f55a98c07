// Package repository provides data access for the card corpus and collection.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// ErrCardNotFound is returned when a lookup matches no corpus row.
var ErrCardNotFound = errors.New("card not found")

// CardRepository provides methods for managing the local card corpus and
// the user's collection.
type CardRepository interface {
	// SaveCard upserts a single card into the corpus.
	SaveCard(ctx context.Context, card *cards.Card) error

	// SaveCards upserts multiple cards in a single transaction.
	SaveCards(ctx context.Context, list []cards.Card) error

	// FindCardByName retrieves the first card matching name, case-insensitively.
	FindCardByName(ctx context.Context, name string) (*cards.Card, error)

	// FindCardByDetails retrieves a specific printing by name, set code and
	// collector number. Empty setCode and collectorNumber fall back to a
	// name-only lookup.
	FindCardByDetails(ctx context.Context, name, setCode, collectorNumber string) (*cards.Card, error)

	// SearchCardsByName searches the corpus by name substring.
	SearchCardsByName(ctx context.Context, query string, limit int) ([]cards.Card, error)

	// GetCollectedCards returns all cards the user owns at least one copy of,
	// with Quantity populated.
	GetCollectedCards(ctx context.Context) ([]cards.Card, error)

	// SetQuantity records the owned quantity for a card already in the corpus.
	// A quantity of zero removes the collection entry.
	SetQuantity(ctx context.Context, name, setCode, collectorNumber string, quantity int) error

	// CountCards returns the number of corpus rows.
	CountCards(ctx context.Context) (int, error)
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new card repository backed by db.
func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `name, set_code, collector_number, type_line, mana_cost, mana_value,
	colors, color_identity, power, toughness, rarity, oracle_text, keywords, legalities`

const upsertCardQuery = `
	INSERT INTO cards (
		name, set_code, collector_number, type_line, mana_cost, mana_value,
		colors, color_identity, power, toughness, rarity, oracle_text, keywords, legalities,
		updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name, set_code, collector_number) DO UPDATE SET
		type_line = excluded.type_line,
		mana_cost = excluded.mana_cost,
		mana_value = excluded.mana_value,
		colors = excluded.colors,
		color_identity = excluded.color_identity,
		power = excluded.power,
		toughness = excluded.toughness,
		rarity = excluded.rarity,
		oracle_text = excluded.oracle_text,
		keywords = excluded.keywords,
		legalities = excluded.legalities,
		updated_at = CURRENT_TIMESTAMP
`

// SaveCard upserts a single card into the corpus.
func (r *cardRepository) SaveCard(ctx context.Context, card *cards.Card) error {
	args, err := upsertArgs(card)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertCardQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to save card %q: %w", card.Name, err)
	}
	return nil
}

// SaveCards upserts multiple cards in a single transaction.
func (r *cardRepository) SaveCards(ctx context.Context, list []cards.Card) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, upsertCardQuery)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range list {
		args, err := upsertArgs(&list[i])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to save card %q: %w", list[i].Name, err)
		}
	}

	return tx.Commit()
}

// FindCardByName retrieves the first card matching name, case-insensitively.
func (r *cardRepository) FindCardByName(ctx context.Context, name string) (*cards.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE name = ? COLLATE NOCASE
		ORDER BY set_code, collector_number
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, name)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// FindCardByDetails retrieves a specific printing by name, set code and
// collector number.
func (r *cardRepository) FindCardByDetails(ctx context.Context, name, setCode, collectorNumber string) (*cards.Card, error) {
	if setCode == "" && collectorNumber == "" {
		return r.FindCardByName(ctx, name)
	}

	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE name = ? COLLATE NOCASE AND set_code = ? AND collector_number = ?
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, name, setCode, collectorNumber)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// SearchCardsByName searches the corpus by name substring.
func (r *cardRepository) SearchCardsByName(ctx context.Context, query string, limit int) ([]cards.Card, error) {
	if limit <= 0 {
		limit = 50
	}

	sqlQuery := `SELECT ` + cardColumns + `
		FROM cards
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name, set_code
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, sqlQuery, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectCards(rows)
}

// GetCollectedCards returns all cards the user owns at least one copy of.
func (r *cardRepository) GetCollectedCards(ctx context.Context) ([]cards.Card, error) {
	query := `SELECT c.name, c.set_code, c.collector_number, c.type_line, c.mana_cost, c.mana_value,
			c.colors, c.color_identity, c.power, c.toughness, c.rarity, c.oracle_text, c.keywords, c.legalities,
			col.quantity
		FROM cards c
		JOIN collection col ON col.card_id = c.id
		WHERE col.quantity > 0
		ORDER BY c.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []cards.Card
	for rows.Next() {
		card, quantity, err := scanCollectedCard(rows)
		if err != nil {
			return nil, err
		}
		card.Quantity = quantity
		result = append(result, *card)
	}
	return result, rows.Err()
}

// SetQuantity records the owned quantity for a card already in the corpus.
func (r *cardRepository) SetQuantity(ctx context.Context, name, setCode, collectorNumber string, quantity int) error {
	var id int64
	query := `SELECT id FROM cards
		WHERE name = ? COLLATE NOCASE
		AND (set_code = ? OR ? = '')
		AND (collector_number = ? OR ? = '')
		ORDER BY set_code, collector_number
		LIMIT 1`
	err := r.db.QueryRowContext(ctx, query,
		name, setCode, setCode, collectorNumber, collectorNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCardNotFound
		}
		return err
	}

	if quantity <= 0 {
		_, err = r.db.ExecContext(ctx, `DELETE FROM collection WHERE card_id = ?`, id)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO collection (card_id, quantity, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(card_id) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = CURRENT_TIMESTAMP`,
		id, quantity)
	return err
}

// CountCards returns the number of corpus rows.
func (r *cardRepository) CountCards(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count)
	return count, err
}

func upsertArgs(card *cards.Card) ([]any, error) {
	colorsJSON, err := json.Marshal(orEmpty(card.Colors))
	if err != nil {
		return nil, err
	}
	identityJSON, err := json.Marshal(orEmpty(card.ColorIdentity))
	if err != nil {
		return nil, err
	}
	keywordsJSON, err := json.Marshal(orEmpty(card.Keywords))
	if err != nil {
		return nil, err
	}
	legalities := card.Legalities
	if legalities == nil {
		legalities = map[string]string{}
	}
	legalitiesJSON, err := json.Marshal(legalities)
	if err != nil {
		return nil, err
	}

	return []any{
		card.Name,
		card.SetCode,
		card.CollectorNumber,
		card.TypeLine,
		card.ManaCost,
		card.ManaValue,
		string(colorsJSON),
		string(identityJSON),
		statToString(card.Power),
		statToString(card.Toughness),
		card.Rarity,
		card.OracleText,
		string(keywordsJSON),
		string(legalitiesJSON),
	}, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func statToString(stat *int) any {
	if stat == nil {
		return nil
	}
	return strconv.Itoa(*stat)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*cards.Card, error) {
	var (
		card           cards.Card
		colors         string
		identity       string
		power          sql.NullString
		toughness      sql.NullString
		keywordsJSON   string
		legalitiesJSON string
	)
	err := row.Scan(
		&card.Name,
		&card.SetCode,
		&card.CollectorNumber,
		&card.TypeLine,
		&card.ManaCost,
		&card.ManaValue,
		&colors,
		&identity,
		&power,
		&toughness,
		&card.Rarity,
		&card.OracleText,
		&keywordsJSON,
		&legalitiesJSON,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeCardJSON(&card, colors, identity, keywordsJSON, legalitiesJSON); err != nil {
		return nil, err
	}
	card.Power = parseStoredStat(power)
	card.Toughness = parseStoredStat(toughness)
	return &card, nil
}

func scanCollectedCard(rows *sql.Rows) (*cards.Card, int, error) {
	var (
		card           cards.Card
		colors         string
		identity       string
		power          sql.NullString
		toughness      sql.NullString
		keywordsJSON   string
		legalitiesJSON string
		quantity       int
	)
	err := rows.Scan(
		&card.Name,
		&card.SetCode,
		&card.CollectorNumber,
		&card.TypeLine,
		&card.ManaCost,
		&card.ManaValue,
		&colors,
		&identity,
		&power,
		&toughness,
		&card.Rarity,
		&card.OracleText,
		&keywordsJSON,
		&legalitiesJSON,
		&quantity,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := decodeCardJSON(&card, colors, identity, keywordsJSON, legalitiesJSON); err != nil {
		return nil, 0, err
	}
	card.Power = parseStoredStat(power)
	card.Toughness = parseStoredStat(toughness)
	return &card, quantity, nil
}

func decodeCardJSON(card *cards.Card, colors, identity, keywords, legalities string) error {
	if err := json.Unmarshal([]byte(colors), &card.Colors); err != nil {
		return fmt.Errorf("failed to decode colors for %q: %w", card.Name, err)
	}
	if err := json.Unmarshal([]byte(identity), &card.ColorIdentity); err != nil {
		return fmt.Errorf("failed to decode color identity for %q: %w", card.Name, err)
	}
	if err := json.Unmarshal([]byte(keywords), &card.Keywords); err != nil {
		return fmt.Errorf("failed to decode keywords for %q: %w", card.Name, err)
	}
	if err := json.Unmarshal([]byte(legalities), &card.Legalities); err != nil {
		return fmt.Errorf("failed to decode legalities for %q: %w", card.Name, err)
	}
	return nil
}

// parseStoredStat converts a stored power/toughness text value back into an
// int pointer. Variable stats like "*" stay nil.
func parseStoredStat(v sql.NullString) *int {
	if !v.Valid {
		return nil
	}
	n, err := strconv.Atoi(v.String)
	if err != nil {
		return nil
	}
	return &n
}

func collectCards(rows *sql.Rows) ([]cards.Card, error) {
	var result []cards.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *card)
	}
	return result, rows.Err()
}
