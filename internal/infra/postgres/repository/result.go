package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/infra/postgres"
)

// ResultRepository provides access to the append-only result log.
type ResultRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewResultRepository creates a new ResultRepository with the provided database pool.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: pool, tr: postgres.NewTransactor(pool)}
}

// Append inserts all entries in one transaction and sets their IDs.
func (r *ResultRepository) Append(ctx context.Context, entries []*entities.ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO test_results (user_id, question_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, e := range entries {
			err := tx.QueryRow(ctx, query, e.UserID, e.QuestionID, e.Correct, e.AnsweredAt).Scan(&e.ID)
			if err != nil {
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
		WHERE user_id = $1
		ORDER BY question_id, answered_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var entries []*entities.ResultEntry
	for rows.Next() {
		var e entities.ResultEntry
		if err = rows.Scan(&e.ID, &e.UserID, &e.QuestionID, &e.Correct, &e.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		entries = append(entries, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return entries, nil
}

// Stats aggregates the user's result log overall and per category.
func (r *ResultRepository) Stats(ctx context.Context, userID int64) (*entities.ResultStats, error) {
	var stats entities.ResultStats
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct), MAX(answered_at)
		 FROM test_results WHERE user_id = $1`,
		userID,
	).Scan(&stats.Answered, &stats.Correct, &stats.LastAnsweredAt)
	if err != nil {
		return nil, fmt.Errorf("result stats: %w", err)
	}

	query := `
		SELECT q.category, COUNT(*), COUNT(*) FILTER (WHERE r.is_correct)
		FROM test_results r
		JOIN questions q ON q.id = r.question_id
		WHERE r.user_id = $1
		GROUP BY q.category
		ORDER BY q.category
	`

	rows, err := r.db.Query(ctx, query, userID)
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
