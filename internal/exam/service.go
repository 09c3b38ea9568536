package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/examind-io/examind/internal/audit"
	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/scoring"
)

var (
	ErrNoAutoEvaluation  = errors.New("exam has no auto-evaluation configuration")
	ErrEssaysNotAutoEval = errors.New("essay-containing exams cannot be auto-evaluated")
	ErrNotGraded         = errors.New("assessment is not graded")
	ErrQuestionNotFound  = errors.New("section question not found")
)

// SectionScore is one section's line in a score report.
type SectionScore struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
}

// ScoreReport carries the derived aggregates of an exam graph for display.
// It is a value snapshot; nothing in it is written back into the graph.
type ScoreReport struct {
	TotalScore float64                 `json:"total_score"`
	MaxScore   float64                 `json:"max_score"`
	Sections   []SectionScore          `json:"sections"`
	Essays     scoring.QuestionAmounts `json:"essays"`
}

// Service runs the scoring engine and the auto-evaluation engine over stored
// exam graphs and owns attaching the derived values to assessments.
type Service struct {
	store  Store
	engine *scoring.Engine
	events *audit.Log
	log    *zap.Logger
}

func NewService(store Store, engine *scoring.Engine, events *audit.Log, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, engine: engine, events: events, log: log}
}

// Report computes the per-section and total score snapshot of a graph.
func (s *Service) Report(sections []scoring.Section) (ScoreReport, error) {
	report := ScoreReport{
		MaxScore: s.engine.ExamMaxScore(sections),
		Essays:   scoring.GetQuestionAmounts(sections),
	}
	total, err := s.engine.ExamTotalScore(sections)
	if err != nil {
		return ScoreReport{}, err
	}
	report.TotalScore = total
	for _, sec := range sections {
		secTotal, err := s.engine.SectionTotalScore(sec)
		if err != nil {
			return ScoreReport{}, err
		}
		report.Sections = append(report.Sections, SectionScore{
			ID:         sec.ID,
			Name:       sec.Name,
			TotalScore: secTotal,
			MaxScore:   s.engine.SectionMaxScore(sec),
		})
	}
	return report, nil
}

// AssessmentReport loads an assessment and reports its current scores.
func (s *Service) AssessmentReport(ctx context.Context, assessmentID string) (ScoreReport, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return ScoreReport{}, err
	}
	return s.Report(a.Sections)
}

// ExamReport loads an exam blueprint and reports its maxima (totals are 0
// for an unanswered blueprint unless defaults apply).
func (s *Service) ExamReport(ctx context.Context, examID string) (ScoreReport, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return ScoreReport{}, err
	}
	return s.Report(e.Sections)
}

// ForceScore sets or clears a grader's forced-score override on one question
// instance of an assessment. A nil score clears the override.
func (s *Service) ForceScore(ctx context.Context, assessmentID, sectionQuestionID string, score *float64) (Assessment, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return Assessment{}, err
	}
	found := false
	for si := range a.Sections {
		for qi := range a.Sections[si].SectionQuestions {
			if a.Sections[si].SectionQuestions[qi].ID == sectionQuestionID {
				a.Sections[si].SectionQuestions[qi].ForcedScore = score
				found = true
			}
		}
	}
	if !found {
		return Assessment{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, sectionQuestionID)
	}
	if a.State == StateReview {
		a.State = StateReviewStarted
	}
	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return Assessment{}, err
	}
	if err := s.events.Append(ctx, audit.EventScoreForced, a.ID, map[string]any{
		"section_question_id": sectionQuestionID,
		"forced_score":        score,
	}); err != nil {
		s.log.Warn("audit append failed", zap.Error(err))
	}
	return a, nil
}

// AutoEvaluate runs the configured auto-evaluation against an assessment's
// finalized scores. A below-all-thresholds outcome flags the assessment for
// manual grading and is not an error.
func (s *Service) AutoEvaluate(ctx context.Context, assessmentID string) (Assessment, autoeval.Outcome, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return Assessment{}, autoeval.Outcome{}, err
	}
	e, err := s.store.GetExam(ctx, a.ExamID)
	if err != nil {
		return Assessment{}, autoeval.Outcome{}, err
	}
	if e.AutoEvaluation == nil {
		return Assessment{}, autoeval.Outcome{}, ErrNoAutoEvaluation
	}
	if scoring.HasEssayQuestions(a.Sections) {
		return Assessment{}, autoeval.Outcome{}, ErrEssaysNotAutoEval
	}

	total, err := s.engine.ExamTotalScore(a.Sections)
	if err != nil {
		return Assessment{}, autoeval.Outcome{}, err
	}
	maxScore := s.engine.ExamMaxScore(a.Sections)
	outcome, err := autoeval.Evaluate(total, maxScore, *e.AutoEvaluation)
	if err != nil {
		return Assessment{}, autoeval.Outcome{}, err
	}

	a.TotalScore = total
	a.MaxScore = maxScore
	if outcome.NeedsManualGrading() {
		a.NeedsManualGrading = true
		s.log.Info("auto-evaluation below all thresholds, manual grading required",
			zap.String("assessment_id", a.ID),
			zap.Float64("achieved_percentage", outcome.AchievedPercentage))
	} else {
		now := time.Now()
		a.Grade = outcome.Grade
		a.NeedsManualGrading = false
		a.State = StateGraded
		a.GradedAt = &now
		var finish, periodEnd time.Time
		if a.FinishedAt != nil {
			finish = *a.FinishedAt
		}
		if e.PeriodEnd != nil {
			periodEnd = *e.PeriodEnd
		}
		if due, ok := autoeval.ReleaseDue(*e.AutoEvaluation, now, finish, periodEnd); ok {
			a.ReleaseDue = &due
		}
	}
	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return Assessment{}, autoeval.Outcome{}, err
	}
	if err := s.events.Append(ctx, audit.EventAutoEvaluated, a.ID, outcome); err != nil {
		s.log.Warn("audit append failed", zap.Error(err))
	}
	return a, outcome, nil
}

// Grade applies a grader's decision to an assessment without recording it.
func (s *Service) Grade(ctx context.Context, assessmentID string, rec GradeRecord) (Assessment, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return Assessment{}, err
	}
	total, err := s.engine.ExamTotalScore(a.Sections)
	if err != nil {
		return Assessment{}, err
	}
	now := time.Now()
	a.TotalScore = total
	a.MaxScore = s.engine.ExamMaxScore(a.Sections)
	a.Grade = rec.Grade
	a.Gradeless = rec.Gradeless
	a.NeedsManualGrading = false
	a.State = StateGraded
	a.GradedAt = &now
	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return Assessment{}, err
	}
	if err := s.events.Append(ctx, audit.EventAssessmentGraded, a.ID, rec); err != nil {
		s.log.Warn("audit append failed", zap.Error(err))
	}
	return a, nil
}

// Record finalizes a graded assessment with the submission payload and moves
// it to GRADED_LOGGED. A grade or an explicit gradeless marker is required.
func (s *Service) Record(ctx context.Context, assessmentID string, rec GradeRecord) (Assessment, error) {
	a, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return Assessment{}, err
	}
	if a.State != StateGraded {
		return Assessment{}, fmt.Errorf("%w: state %s", ErrNotGraded, a.State)
	}
	if rec.Grade == "" && !rec.Gradeless {
		return Assessment{}, errors.New("grade or gradeless marker required")
	}
	if rec.Grade != "" {
		a.Grade = rec.Grade
	}
	a.Gradeless = rec.Gradeless
	a.CustomCredit = rec.CustomCredit
	a.CreditType = rec.CreditType
	a.AnswerLanguage = rec.AnswerLanguage
	a.AdditionalInfo = rec.AdditionalInfo
	a.State = StateGradedLogged
	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return Assessment{}, err
	}
	if err := s.events.Append(ctx, audit.EventGradeRecorded, a.ID, rec); err != nil {
		s.log.Warn("audit append failed", zap.Error(err))
	}
	return a, nil
}
