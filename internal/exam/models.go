package exam

import (
	"time"

	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/scoring"
)

// Exam lifecycle states. A blueprint moves DRAFT → PUBLISHED; a student's
// assessment copy moves STUDENT_STARTED → REVIEW → REVIEW_STARTED → GRADED
// → GRADED_LOGGED.
const (
	StateDraft          = "DRAFT"
	StatePublished      = "PUBLISHED"
	StateStudentStarted = "STUDENT_STARTED"
	StateReview         = "REVIEW"
	StateReviewStarted  = "REVIEW_STARTED"
	StateGraded         = "GRADED"
	StateGradedLogged   = "GRADED_LOGGED"
	StateAborted        = "ABORTED"
)

// Exam is a teacher-authored exam blueprint. Aggregate scores are always
// derived from the section graph on demand, never stored on the blueprint.
type Exam struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	State          string            `json:"state"`
	Sections       []scoring.Section `json:"sections"`
	PeriodStart    *time.Time        `json:"period_start,omitempty"`
	PeriodEnd      *time.Time        `json:"period_end,omitempty"`
	AutoEvaluation *autoeval.Config  `json:"auto_evaluation,omitempty"`
	CreatedAt      int64             `json:"created_at,omitempty"`
}

// Assessment is one student's answered copy of an exam, flowing through
// review and grading. Score and grade fields are written by the service when
// grading or auto-evaluation runs; the section graph is the student's answer
// state and is never mutated by aggregation.
type Assessment struct {
	ID         string            `json:"id"`
	ExamID     string            `json:"exam_id"`
	UserID     string            `json:"user_id"`
	State      string            `json:"state"`
	Sections   []scoring.Section `json:"sections"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`

	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`

	Grade              string     `json:"grade,omitempty"`
	Gradeless          bool       `json:"gradeless,omitempty"`
	CustomCredit       float64    `json:"custom_credit,omitempty"`
	CreditType         string     `json:"credit_type,omitempty"`
	AnswerLanguage     string     `json:"answer_language,omitempty"`
	AdditionalInfo     string     `json:"additional_info,omitempty"`
	NeedsManualGrading bool       `json:"needs_manual_grading,omitempty"`
	GradedAt           *time.Time `json:"graded_at,omitempty"`
	ReleaseDue         *time.Time `json:"release_due,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// GradeRecord is the finalization payload a grader (or the auto-evaluation
// run) hands to the recording endpoint.
type GradeRecord struct {
	Grade          string  `json:"grade,omitempty"`
	Gradeless      bool    `json:"gradeless"`
	CustomCredit   float64 `json:"custom_credit"`
	CreditType     string  `json:"credit_type,omitempty"`
	AnswerLanguage string  `json:"answer_language,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
}

// ExamSummary is the listing row for teacher dashboards.
type ExamSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	State         string  `json:"state"`
	SectionCount  int     `json:"section_count"`
	QuestionCount int     `json:"question_count"`
	MaxScore      float64 `json:"max_score"`
	CreatedAt     int64   `json:"created_at,omitempty"`
}

// ReviewableCount counts assessments awaiting review.
func ReviewableCount(assessments []Assessment) int {
	n := 0
	for _, a := range assessments {
		if a.State == StateReview || a.State == StateReviewStarted {
			n++
		}
	}
	return n
}

// GradedCount counts graded but not yet recorded assessments.
func GradedCount(assessments []Assessment) int {
	n := 0
	for _, a := range assessments {
		if a.State == StateGraded {
			n++
		}
	}
	return n
}

// ProcessedCount counts assessments past the review/grading pipeline.
func ProcessedCount(assessments []Assessment) int {
	n := 0
	for _, a := range assessments {
		switch a.State {
		case StateReview, StateReviewStarted, StateGraded:
		default:
			n++
		}
	}
	return n
}
