package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/plainpine/myquest/internal/domain/entities"
)

var ErrInvalidImport = errors.New("invalid question file")

//go:embed questions.schema.json
var questionsSchema []byte

const questionsSchemaURL = "schema://questions.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(questionsSchema, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionsSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(questionsSchemaURL)
})

// QuestionRecord is a question in the JSON interchange format.
type QuestionRecord struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	Correct     int      `json:"correct"`
	Category    *string  `json:"category"`
	Explanation *string  `json:"explanation"`
	DocumentURL *string  `json:"document_url"`
}

// InterchangeService moves the question bank in and out of JSON files.
type InterchangeService struct {
	repository QuestionRepository
}

func NewInterchangeService(repository QuestionRepository) *InterchangeService {
	return &InterchangeService{repository: repository}
}

// Export writes all questions ordered by id and returns how many were written.
func (s *InterchangeService) Export(ctx context.Context, w io.Writer) (int, error) {
	qs, err := s.repository.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("export questions: %w", err)
	}

	if err := EncodeQuestions(w, qs); err != nil {
		return 0, fmt.Errorf("export questions: %w", err)
	}
	return len(qs), nil
}

// Import reads a question file and inserts every question in one transaction.
// Nothing is stored if any question is invalid.
func (s *InterchangeService) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}

	qs, err := DecodeQuestions(data)
	if err != nil {
		return 0, err
	}
	if len(qs) == 0 {
		return 0, nil
	}

	if err := s.repository.CreateMany(ctx, qs); err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	return len(qs), nil
}

// DecodeQuestions validates data against the interchange schema and converts it.
func DecodeQuestions(data []byte) ([]*entities.Question, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	var records []QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	qs := make([]*entities.Question, 0, len(records))
	for i, rec := range records {
		q := rec.toQuestion()
		if err := ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrInvalidImport, i+1, err)
		}
		qs = append(qs, q)
	}

	return qs, nil
}

// EncodeQuestions writes qs as an indented JSON array without HTML escaping.
func EncodeQuestions(w io.Writer, qs []*entities.Question) error {
	records := make([]QuestionRecord, len(qs))
	for i, q := range qs {
		records[i] = newQuestionRecord(q)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

func newQuestionRecord(q *entities.Question) QuestionRecord {
	category := q.Category
	return QuestionRecord{
		Question:    q.Prompt,
		Choices:     q.Choices[:],
		Correct:     q.Correct,
		Category:    &category,
		Explanation: optional(q.Explanation),
		DocumentURL: optional(q.ReferenceURL),
	}
}

func (r QuestionRecord) toQuestion() *entities.Question {
	q := &entities.Question{
		Prompt:       r.Question,
		Correct:      r.Correct,
		Category:     entities.CategoryNone,
		Explanation:  deref(r.Explanation),
		ReferenceURL: deref(r.DocumentURL),
	}
	copy(q.Choices[:], r.Choices)
	if r.Category != nil {
		q.Category = *r.Category
	}
	return q
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
