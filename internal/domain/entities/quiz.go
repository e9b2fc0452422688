package entities

import "strings"

// ExamMode identifies the pool an exam draws its questions from.
type ExamMode string

const (
	ModePractice ExamMode = "practice" // all questions
	ModeSection  ExamMode = "section"  // questions of one category
	ModeRetest   ExamMode = "retest"   // attempted but not mastered questions
)

// ExamKind is an exam type, scoped to a category for section tests.
type ExamKind struct {
	Mode     ExamMode
	Category string
}

// PracticeExam returns the kind for a general practice exam.
func PracticeExam() ExamKind { return ExamKind{Mode: ModePractice} }

// RetestExam returns the kind for a retest exam.
func RetestExam() ExamKind { return ExamKind{Mode: ModeRetest} }

// SectionExam returns the kind for a chapter (category) test.
func SectionExam(category string) ExamKind {
	return ExamKind{Mode: ModeSection, Category: strings.TrimSpace(category)}
}

// Key returns the session state key the exam's question ids are pinned under.
func (k ExamKind) Key() string {
	if k.Mode == ModeSection {
		return "exam:section:" + k.Category
	}
	return "exam:" + string(k.Mode)
}

// ResultStatus is the outcome of a single graded question.
type ResultStatus string

const (
	StatusCorrect    ResultStatus = "correct"
	StatusIncorrect  ResultStatus = "incorrect"
	StatusUnanswered ResultStatus = "unanswered"
)

// UnansweredMarker is shown as the chosen text of a question left unanswered.
const UnansweredMarker = "unanswered"

// ReportItem is the graded outcome of one question of an exam.
type ReportItem struct {
	QuestionID   int64
	Prompt       string
	Chosen       string // chosen choice text or UnansweredMarker
	CorrectText  string
	Correct      bool
	Status       ResultStatus
	Explanation  string
	ReferenceURL string
}

// GradingReport is the result of grading one exam submission.
// Items keep the order the questions were pinned in.
type GradingReport struct {
	Items        []ReportItem
	CorrectCount int
	TotalCount   int
}

// Add appends an item and updates the aggregate counters.
func (r *GradingReport) Add(item ReportItem) {
	r.Items = append(r.Items, item)
	r.TotalCount++
	if item.Correct {
		r.CorrectCount++
	}
}

// Percentage returns the score in percent.
func (r *GradingReport) Percentage() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount) * 100
}
