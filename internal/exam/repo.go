package exam

import (
	"context"
	"errors"

	"github.com/examind-io/examind/internal/autoeval"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
)

type ListOpts struct {
	Q      string
	State  string
	Limit  int
	Offset int
}

type AssessmentListOpts struct {
	ExamID string
	UserID string
	State  string
	Limit  int
	Offset int
}

// Store persists exam blueprints and student assessments. Both the SQL and
// the in-memory implementation keep the section graph as one JSON document;
// the engine recomputes aggregates from it on demand.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	ListExams(ctx context.Context, opts ListOpts) ([]ExamSummary, error)
	SetAutoEvaluation(ctx context.Context, examID string, cfg *autoeval.Config) (Exam, error)

	PutAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	UpdateAssessment(ctx context.Context, a Assessment) error
	ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error)
}
