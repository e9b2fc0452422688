package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plainpine/myquest/internal/domain/entities"
)

// ResultRepository provides access to the append-only result log.
type ResultRepository struct {
	db *sql.DB
}

// Append inserts all entries in one transaction and sets their IDs.
func (r *ResultRepository) Append(ctx context.Context, entries []*entities.ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO test_results (user_id, question_id, is_correct, answered_at)
		VALUES (?, ?, ?, ?)
	`

	return withinTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, e := range entries {
			res, err := tx.ExecContext(ctx, query, e.UserID, e.QuestionID, e.Correct, toUnix(e.AnsweredAt))
			if err != nil {
				return fmt.Errorf("append result: %w", err)
			}
			if e.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("append result: %w", err)
			}
		}
		return nil
	})
}

// ListByUser returns the user's whole result log ordered by question ID,
// most recent answer first within a question.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.ResultEntry, error) {
	query := `
		SELECT id, user_id, question_id, is_correct, answered_at
		FROM test_results
		WHERE user_id = ?
		ORDER BY question_id, answered_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var entries []*entities.ResultEntry
	for rows.Next() {
		var (
			e          entities.ResultEntry
			answeredAt int64
		)
		if err = rows.Scan(&e.ID, &e.UserID, &e.QuestionID, &e.Correct, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		e.AnsweredAt = fromUnix(answeredAt)
		entries = append(entries, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return entries, nil
}

// Stats aggregates the user's result log overall and per category.
func (r *ResultRepository) Stats(ctx context.Context, userID int64) (*entities.ResultStats, error) {
	var (
		stats entities.ResultStats
		last  sql.NullInt64
	)
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_correct), 0), MAX(answered_at)
		 FROM test_results WHERE user_id = ?`,
		userID,
	).Scan(&stats.Answered, &stats.Correct, &last)
	if err != nil {
		return nil, fmt.Errorf("result stats: %w", err)
	}
	if last.Valid {
		t := fromUnix(last.Int64)
		stats.LastAnsweredAt = &t
	}

	query := `
		SELECT q.category, COUNT(*), COALESCE(SUM(r.is_correct), 0)
		FROM test_results r
		JOIN questions q ON q.id = r.question_id
		WHERE r.user_id = ?
		GROUP BY q.category
		ORDER BY q.category
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entities.CategoryStats
		if err = rows.Scan(&c.Category, &c.Answered, &c.Correct); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		stats.Categories = append(stats.Categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}

	return &stats, nil
}
