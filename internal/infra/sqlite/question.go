package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

const questionColumns = `id, question, choice1, choice2, choice3, choice4, correct, category, explanation, document_url`

// QuestionRepository provides access to the question bank in SQLite.
type QuestionRepository struct {
	db *sql.DB
}

// Create inserts a question and sets its ID.
func (r *QuestionRepository) Create(ctx context.Context, q *entities.Question) error {
	return insertQuestion(ctx, r.db, q)
}

// CreateMany inserts all questions in a single transaction.
func (r *QuestionRepository) CreateMany(ctx context.Context, qs []*entities.Question) error {
	return withinTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, q := range qs {
			if err := insertQuestion(ctx, tx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertQuestion(ctx context.Context, db execer, q *entities.Question) error {
	query := `
		INSERT INTO questions (
			question, choice1, choice2, choice3, choice4,
			correct, category, explanation, document_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := db.ExecContext(
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
	)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	q.ID = id

	return nil
}

// GetByID retrieves a question by ID.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	query := `SELECT ` + questionColumns + ` FROM questions WHERE id IN (` + placeholders + `) ORDER BY id`

	return r.list(ctx, "get questions by ids", query, args...)
}

// ListAll returns every question ordered by ID.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY id`

	return r.list(ctx, "list questions", query)
}

// ListByCategory returns the questions of one category ordered by ID.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE category = ? ORDER BY id`

	return r.list(ctx, "list questions by category", query, category)
}

// Page returns one page of questions and the total number of matching questions.
func (r *QuestionRepository) Page(ctx context.Context, f repository.QuestionFilter) ([]*entities.Question, int, error) {
	var total int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM questions WHERE (? = '' OR category = ?)`,
		f.Category, f.Category,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE (? = '' OR category = ?)
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	questions, err := r.list(ctx, "page questions", query, f.Category, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// Categories returns the distinct categories in use.
func (r *QuestionRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM questions ORDER BY category`)
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// Update overwrites all editable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *entities.Question) error {
	query := `
		UPDATE questions
		SET question = ?, choice1 = ?, choice2 = ?, choice3 = ?, choice4 = ?,
		    correct = ?, category = ?, explanation = ?, document_url = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(
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

	return requireAffected(res, repository.ErrQuestionNotFound)
}

// Delete removes a question together with its result log entries.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM test_results WHERE question_id = ?`, id); err != nil {
			return fmt.Errorf("delete test_results: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete question: %w", err)
		}

		return requireAffected(res, repository.ErrQuestionNotFound)
	})
}

func (r *QuestionRepository) list(ctx context.Context, op, query string, args ...any) ([]*entities.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (*entities.Question, error) {
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

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
