package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

// Column limits of the questions table, in characters.
const (
	MaxPromptLength   = 300
	MaxChoiceLength   = 200
	MaxCategoryLength = 50
)

var ErrInvalidQuestion = errors.New("invalid question")

// QuestionPage is one page of the admin question list.
type QuestionPage struct {
	Questions  []*entities.Question
	Category   string
	Page       int
	TotalPages int
	Total      int
}

// HasPrev reports whether a previous page exists.
func (p *QuestionPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p *QuestionPage) HasNext() bool { return p.Page < p.TotalPages }

type QuestionService struct {
	repository QuestionRepository
	pageSize   int
}

func NewQuestionService(repository QuestionRepository, pageSize int) *QuestionService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &QuestionService{repository: repository, pageSize: pageSize}
}

// Chapters returns the numeric categories in numeric order.
func (s *QuestionService) Chapters(ctx context.Context) ([]string, error) {
	categories, err := s.repository.Categories(ctx)
	if err != nil {
		return nil, err
	}

	chapters := slices.DeleteFunc(categories, func(c string) bool { return !entities.IsChapter(c) })
	slices.SortFunc(chapters, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return cmp.Compare(x, y)
	})

	return chapters, nil
}

// Categories returns every distinct category.
func (s *QuestionService) Categories(ctx context.Context) ([]string, error) {
	return s.repository.Categories(ctx)
}

// List returns the requested page of questions, optionally filtered by category.
// Pages are 1-based; out-of-range pages are clamped.
func (s *QuestionService) List(ctx context.Context, page int, category string) (*QuestionPage, error) {
	page = max(page, 1)

	qs, total, err := s.repository.Page(ctx, repository.QuestionFilter{
		Category: category,
		Limit:    s.pageSize,
		Offset:   (page - 1) * s.pageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := max((total+s.pageSize-1)/s.pageSize, 1)
	if page > totalPages {
		return s.List(ctx, totalPages, category)
	}

	return &QuestionPage{
		Questions:  qs,
		Category:   category,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

func (s *QuestionService) Get(ctx context.Context, id int64) (*entities.Question, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *QuestionService) Create(ctx context.Context, q *entities.Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	return s.repository.Create(ctx, q)
}

func (s *QuestionService) Update(ctx context.Context, q *entities.Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	return s.repository.Update(ctx, q)
}

// Delete removes the question together with its result log entries.
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}

// ValidateQuestion normalizes q and checks that it is complete.
// An empty category becomes entities.CategoryNone.
func ValidateQuestion(q *entities.Question) error {
	q.Normalize()

	if q.Prompt == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	if utf8.RuneCountInString(q.Prompt) > MaxPromptLength {
		return fmt.Errorf("%w: question text is longer than %d characters", ErrInvalidQuestion, MaxPromptLength)
	}
	for i, c := range q.Choices {
		if c == "" {
			return fmt.Errorf("%w: choice %d is empty", ErrInvalidQuestion, i+1)
		}
		if utf8.RuneCountInString(c) > MaxChoiceLength {
			return fmt.Errorf("%w: choice %d is longer than %d characters", ErrInvalidQuestion, i+1, MaxChoiceLength)
		}
	}
	if !entities.ValidChoice(q.Correct) {
		return fmt.Errorf("%w: correct choice must be between 1 and %d", ErrInvalidQuestion, entities.ChoiceCount)
	}
	if q.Category == "" {
		q.Category = entities.CategoryNone
	}
	if utf8.RuneCountInString(q.Category) > MaxCategoryLength {
		return fmt.Errorf("%w: category is longer than %d characters", ErrInvalidQuestion, MaxCategoryLength)
	}

	return nil
}
