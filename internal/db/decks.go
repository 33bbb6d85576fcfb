package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/srsdeck/internal/logger"
	"github.com/vytor/srsdeck/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const dateFormat = "2006-01-02"

// reviewSeparator matches the artifact encoding so stored schedules and
// exported CSVs carry identical reviews_on values.
const reviewSeparator = "|"

// InsertDeck stores a new deck row and returns its ID.
func (db *DB) InsertDeck(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s, daily_new=%d", d.Name, d.DailyNew)

	res, err := db.ExecContext(ctx, `
INSERT INTO decks (name, status, start_date, daily_new, intervals, min_len, max_len)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, d.Name, d.Status, d.StartDate.Format(dateFormat), d.DailyNew, joinIntervals(d.Intervals), d.MinLen, d.MaxLen)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

// GetDeck returns the deck with the given ID, or nil when it does not exist.
func (db *DB) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	var d models.Deck
	var startDate, intervals string
	err := db.QueryRowContext(ctx, `
SELECT id, name, status, start_date, daily_new, intervals, min_len, max_len, card_count, export_path, error, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.Name, &d.Status, &startDate, &d.DailyNew, &intervals, &d.MinLen, &d.MaxLen, &d.CardCount, &d.ExportPath, &d.Error, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	if d.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return nil, err
	}
	if d.Intervals, err = splitIntervals(intervals); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDecks returns decks matching the filter, newest first.
func (db *DB) ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: status=%s, name=%s", filter.Status, filter.Name)

	query := sqlBuilder.Select(
		"id", "name", "status", "start_date", "daily_new", "intervals",
		"min_len", "max_len", "card_count", "export_path", "error", "created_at",
	).From("decks")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.Like{"name": "%" + filter.Name + "%"})
	}
	query = query.OrderBy("created_at DESC, id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		var startDate, intervals string
		if err := rows.Scan(&d.ID, &d.Name, &d.Status, &startDate, &d.DailyNew, &intervals, &d.MinLen, &d.MaxLen, &d.CardCount, &d.ExportPath, &d.Error, &d.CreatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		if d.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
			return nil, err
		}
		if d.Intervals, err = splitIntervals(intervals); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

// MarkDeckFailed records a terminal failure on a deck.
func (db *DB) MarkDeckFailed(ctx context.Context, id int64, reason string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("marking deck failed: id=%d", id)

	_, err := db.ExecContext(ctx, `
UPDATE decks SET status = ?, error = ? WHERE id = ?
`, models.DeckStatusFailed, reason, id)
	if err != nil {
		log.Error("failed to mark deck failed: %v", err)
	}
	return err
}

// CompleteDeck records a successful import outcome on a deck.
func (db *DB) CompleteDeck(ctx context.Context, id int64, cardCount int, exportPath string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("completing deck: id=%d, card_count=%d", id, cardCount)

	_, err := db.ExecContext(ctx, `
UPDATE decks SET status = ?, card_count = ?, export_path = ?, error = '' WHERE id = ?
`, models.DeckStatusCompleted, cardCount, exportPath, id)
	if err != nil {
		log.Error("failed to complete deck: %v", err)
	}
	return err
}

// ReplaceDeckCards replaces all scheduled cards of a deck in one transaction,
// preserving input order through the position column.
func (db *DB) ReplaceDeckCards(ctx context.Context, deckID int64, schedule models.Schedule) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("replacing deck cards: deck_id=%d, count=%d", deckID, len(schedule))

	return tx(ctx, db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, deckID); err != nil {
			return err
		}
		for i, sc := range schedule {
			reviews := make([]string, len(sc.ReviewsOn))
			for k, r := range sc.ReviewsOn {
				reviews[k] = r.Format(dateFormat)
			}
			_, err := t.ExecContext(ctx, `
INSERT INTO cards (deck_id, position, question, answer, learn_on, reviews_on)
VALUES (?, ?, ?, ?, ?, ?)
`, deckID, i, sc.Question, sc.Answer, sc.LearnOn.Format(dateFormat), strings.Join(reviews, reviewSeparator))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeckSchedule loads the stored schedule of a deck in input order.
func (db *DB) DeckSchedule(ctx context.Context, deckID int64) (models.Schedule, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("loading schedule: deck_id=%d", deckID)

	rows, err := db.QueryContext(ctx, `
SELECT question, answer, learn_on, reviews_on
FROM cards
WHERE deck_id = ?
ORDER BY position
`, deckID)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var schedule models.Schedule
	for rows.Next() {
		var sc models.ScheduledCard
		var learnOn, reviewsOn string
		if err := rows.Scan(&sc.Question, &sc.Answer, &learnOn, &reviewsOn); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		if sc.LearnOn, err = time.Parse(dateFormat, learnOn); err != nil {
			return nil, err
		}
		if reviewsOn != "" {
			for _, part := range strings.Split(reviewsOn, reviewSeparator) {
				review, err := time.Parse(dateFormat, part)
				if err != nil {
					return nil, err
				}
				sc.ReviewsOn = append(sc.ReviewsOn, review)
			}
		}
		schedule = append(schedule, sc)
	}
	log.Debug("loaded %d scheduled cards", len(schedule))
	return schedule, rows.Err()
}

// DeleteDeck removes a deck; its cards cascade.
func (db *DB) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

func joinIntervals(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, d := range intervals {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func splitIntervals(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
