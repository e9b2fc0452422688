package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/infra/postgres"
	"github.com/plainpine/myquest/internal/repository"
)

const questionColumns = `id, question, choice1, choice2, choice3, choice4, correct, category, explanation, document_url`

// QuestionRepository provides access to the question bank in Postgres.
type QuestionRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewQuestionRepository creates a new QuestionRepository with the provided database pool.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: pool, tr: postgres.NewTransactor(pool)}
}

// Create inserts a question and sets its ID.
func (r *QuestionRepository) Create(ctx context.Context, q *entities.Question) error {
	return insertQuestion(ctx, r.db, q)
}

// CreateMany inserts all questions in a single transaction.
func (r *QuestionRepository) CreateMany(ctx context.Context, qs []*entities.Question) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, q := range qs {
			if err := insertQuestion(ctx, tx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertQuestion(ctx context.Context, db postgres.DBTX, q *entities.Question) error {
	query := `
		INSERT INTO questions (
			question, choice1, choice2, choice3, choice4,
			correct, category, explanation, document_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := db.QueryRow(
		ctx,
		query,
		q.Prompt,
		q.Choices[0],
		q.Choices[1],
		q.Choices[2],
		q.Choices[3],
		q.Correct,
		q.Category,
		q.Explanation,
		q.ReferenceURL,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}

// GetByID retrieves a question by ID.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	q, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}

// GetByIDs retrieves the questions with the given IDs. Unknown IDs are skipped
// and the result is ordered by ID.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ANY($1) ORDER BY id`

	return r.list(ctx, "get questions by ids", query, ids)
}

// ListAll returns every question ordered by ID.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY id`

	return r.list(ctx, "list questions", query)
}

// ListByCategory returns the questions of one category ordered by ID.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE category = $1 ORDER BY id`

	return r.list(ctx, "list questions by category", query, category)
}

// Page returns one page of questions and the total number of matching questions.
func (r *QuestionRepository) Page(ctx context.Context, f repository.QuestionFilter) ([]*entities.Question, int, error) {
	var total int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM questions WHERE ($1::text = '' OR category = $1)`,
		f.Category,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE ($1::text = '' OR category = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	questions, err := r.list(ctx, "page questions", query, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// Categories returns the distinct categories in use.
func (r *QuestionRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM questions ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Count returns the number of questions.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// Update overwrites all editable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *entities.Question) error {
	query := `
		UPDATE questions
		SET question = $1, choice1 = $2, choice2 = $3, choice3 = $4, choice4 = $5,
		    correct = $6, category = $7, explanation = $8, document_url = $9
		WHERE id = $10
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		q.Prompt,
		q.Choices[0],
		q.Choices[1],
		q.Choices[2],
		q.Choices[3],
		q.Correct,
		q.Category,
		q.Explanation,
		q.ReferenceURL,
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrQuestionNotFound
	}

	return nil
}

// Delete removes a question together with its result log entries.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Dependents first.
		if _, err := tx.Exec(ctx, `DELETE FROM test_results WHERE question_id = $1`, id); err != nil {
			return fmt.Errorf("delete test_results: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrQuestionNotFound
		}

		return nil
	})
}

func (r *QuestionRepository) list(ctx context.Context, op, query string, args ...any) ([]*entities.Question, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var questions []*entities.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		questions = append(questions, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return questions, nil
}

func scanQuestion(row pgx.Row) (*entities.Question, error) {
	var q entities.Question
	err := row.Scan(
		&q.ID,
		&q.Prompt,
		&q.Choices[0],
		&q.Choices[1],
		&q.Choices[2],
		&q.Choices[3],
		&q.Correct,
		&q.Category,
		&q.Explanation,
		&q.ReferenceURL,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
