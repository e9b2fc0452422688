package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/plainpine/myquest/internal/domain/entities"
	"github.com/plainpine/myquest/internal/repository"
)

const (
	DummyEmail    = "dummy@example.com"
	DummyPassword = "password"
	DummyNickname = "Dummy Student"
)

// SeedOptions controls the generated dummy history.
type SeedOptions struct {
	QuestionsFile string // imported when the question bank is empty
	Days          int
	PerDay        int
	Accuracy      float64 // share of correct answers, 0..1
}

// DefaultSeedOptions returns 30 days of 5 answers at 70% accuracy.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		QuestionsFile: "questions.json",
		Days:          30,
		PerDay:        5,
		Accuracy:      0.7,
	}
}

// SeedReport describes what Seed did.
type SeedReport struct {
	QuestionsImported int
	QuestionsCreated  int
	User              *entities.User
	Results           int
}

// Seeder fills the store with demo data.
type Seeder struct {
	questions   QuestionRepository
	usersRepo   UserRepository
	results     ResultRepository
	users       *UserService
	interchange *InterchangeService

	rng *rand.Rand
	now func() time.Time
}

func NewSeeder(
	questions QuestionRepository,
	usersRepo UserRepository,
	results ResultRepository,
	hasher PasswordHasher,
) *Seeder {
	return &Seeder{
		questions:   questions,
		usersRepo:   usersRepo,
		results:     results,
		users:       NewUserService(usersRepo, hasher, ""),
		interchange: NewInterchangeService(questions),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// Seed makes sure questions exist, recreates the dummy user and appends a
// random answer history for it.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedReport, error) {
	report := &SeedReport{}

	if err := s.ensureQuestions(ctx, opts.QuestionsFile, report); err != nil {
		return nil, fmt.Errorf("seed questions: %w", err)
	}

	qs, err := s.questions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	user, err := s.recreateDummyUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	report.User = user

	entries := s.history(user.ID, qs, opts)
	if len(entries) > 0 {
		if err := s.results.Append(ctx, entries); err != nil {
			return nil, fmt.Errorf("seed results: %w", err)
		}
	}
	report.Results = len(entries)

	return report, nil
}

func (s *Seeder) ensureQuestions(ctx context.Context, path string, report *SeedReport) error {
	n, err := s.questions.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			report.QuestionsImported, err = s.interchange.Import(ctx, f)
			return err
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	qs := make([]*entities.Question, 0, 10)
	for i := 1; i <= 10; i++ {
		qs = append(qs, &entities.Question{
			Prompt:   fmt.Sprintf("Dummy Question %d?", i),
			Choices:  [entities.ChoiceCount]string{"Choice A", "Choice B", "Choice C", "Choice D"},
			Correct:  s.rng.Intn(entities.ChoiceCount) + 1,
			Category: strconv.Itoa(s.rng.Intn(3) + 1),
		})
	}
	if err := s.questions.CreateMany(ctx, qs); err != nil {
		return err
	}
	report.QuestionsCreated = len(qs)

	return nil
}

// recreateDummyUser deletes the dummy account (and its results) and creates it again.
func (s *Seeder) recreateDummyUser(ctx context.Context) (*entities.User, error) {
	existing, err := s.usersRepo.GetByEmail(ctx, DummyEmail)
	switch {
	case err == nil:
		if err := s.usersRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, err
	}

	user, _, err := s.users.EnsureUser(ctx, DummyEmail, DummyPassword, DummyNickname, true)
	return user, err
}

func (s *Seeder) history(userID int64, qs []*entities.Question, opts SeedOptions) []*entities.ResultEntry {
	start := s.now().UTC().AddDate(0, 0, -opts.Days).Truncate(24 * time.Hour)

	entries := make([]*entities.ResultEntry, 0, opts.Days*opts.PerDay)
	for day := range opts.Days {
		date := start.AddDate(0, 0, day)
		for n := range opts.PerDay {
			q := qs[s.rng.Intn(len(qs))]
			correct := s.rng.Float64() < opts.Accuracy

			at := date.Add(
				time.Duration(9+s.rng.Intn(9))*time.Hour +
					time.Duration(s.rng.Intn(3600))*time.Second +
					time.Duration(n)*time.Millisecond,
			)
			entries = append(entries, entities.NewResultEntry(userID, q.ID, correct, at))
		}
	}

	return entries
}
