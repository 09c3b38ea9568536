package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/scoring"
)

// SQLStore persists exam and assessment graphs as JSON documents, one row
// per graph, the same way for sqlite and postgres.
type SQLStore struct {
	db     *sql.DB
	engine *scoring.Engine
}

func NewSQLStore(db *sql.DB, engine *scoring.Engine) *SQLStore {
	return &SQLStore{db: db, engine: engine}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	sections, err := json.Marshal(e.Sections)
	if err != nil {
		return err
	}
	autoevalJSON, err := marshalConfig(e.AutoEvaluation)
	if err != nil {
		return err
	}
	created := e.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,name,state,period_start,period_end,sections_json,autoeval_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, state=EXCLUDED.state,
			period_start=EXCLUDED.period_start, period_end=EXCLUDED.period_end,
			sections_json=EXCLUDED.sections_json, autoeval_json=EXCLUDED.autoeval_json`,
		e.ID, e.Name, e.State, unixOrNil(e.PeriodStart), unixOrNil(e.PeriodEnd),
		string(sections), autoevalJSON, created)
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,state,period_start,period_end,sections_json,autoeval_json,created_at FROM exams WHERE id=$1`, id)
	var (
		e            Exam
		start, end   sql.NullInt64
		sections     string
		autoevalJSON string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.State, &start, &end, &sections, &autoevalJSON, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrExamNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(sections), &e.Sections); err != nil {
		return Exam{}, fmt.Errorf("exam %s sections: %w", id, err)
	}
	cfg, err := unmarshalConfig(autoevalJSON)
	if err != nil {
		return Exam{}, fmt.Errorf("exam %s autoeval config: %w", id, err)
	}
	e.AutoEvaluation = cfg
	e.PeriodStart = timeOrNil(start)
	e.PeriodEnd = timeOrNil(end)
	return e, nil
}

func (s *SQLStore) ListExams(ctx context.Context, opts ListOpts) ([]ExamSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,state,sections_json,created_at FROM exams
		WHERE ($1 = '' OR state = $1) AND ($2 = '' OR name LIKE '%' || $2 || '%')
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		opts.State, opts.Q, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExamSummary
	for rows.Next() {
		var (
			sum      ExamSummary
			sections string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.State, &sections, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var secs []scoring.Section
		if err := json.Unmarshal([]byte(sections), &secs); err != nil {
			return nil, fmt.Errorf("exam %s sections: %w", sum.ID, err)
		}
		sum.SectionCount = len(secs)
		for _, sec := range secs {
			sum.QuestionCount += len(sec.SectionQuestions)
		}
		sum.MaxScore = s.engine.ExamMaxScore(secs)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetAutoEvaluation(ctx context.Context, examID string, cfg *autoeval.Config) (Exam, error) {
	autoevalJSON, err := marshalConfig(cfg)
	if err != nil {
		return Exam{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE exams SET autoeval_json=$1 WHERE id=$2`, autoevalJSON, examID)
	if err != nil {
		return Exam{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Exam{}, ErrExamNotFound
	}
	return s.GetExam(ctx, examID)
}

func (s *SQLStore) PutAssessment(ctx context.Context, a Assessment) error {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, a.ExamID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrExamNotFound
		}
		return err
	}
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return err
	}
	created := a.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO assessments
		(id,exam_id,user_id,state,sections_json,finished_at,total_score,max_score,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.ExamID, a.UserID, a.State, string(sections), unixOrNil(a.FinishedAt),
		a.TotalScore, a.MaxScore, created)
	return err
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,exam_id,user_id,state,sections_json,finished_at,
		total_score,max_score,grade,gradeless,custom_credit,credit_type,answer_language,
		additional_info,needs_manual_grading,graded_at,release_due,created_at
		FROM assessments WHERE id=$1`, id)
	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrAssessmentNotFound
		}
		return Assessment{}, err
	}
	return a, nil
}

func (s *SQLStore) UpdateAssessment(ctx context.Context, a Assessment) error {
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE assessments SET state=$1, sections_json=$2,
		total_score=$3, max_score=$4, grade=$5, gradeless=$6, custom_credit=$7, credit_type=$8,
		answer_language=$9, additional_info=$10, needs_manual_grading=$11, graded_at=$12,
		release_due=$13 WHERE id=$14`,
		a.State, string(sections), a.TotalScore, a.MaxScore, a.Grade, a.Gradeless,
		a.CustomCredit, a.CreditType, a.AnswerLanguage, a.AdditionalInfo,
		a.NeedsManualGrading, unixOrNil(a.GradedAt), unixOrNil(a.ReleaseDue), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,user_id,state,sections_json,finished_at,
		total_score,max_score,grade,gradeless,custom_credit,credit_type,answer_language,
		additional_info,needs_manual_grading,graded_at,release_due,created_at
		FROM assessments
		WHERE ($1 = '' OR exam_id = $1) AND ($2 = '' OR user_id = $2) AND ($3 = '' OR state = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		opts.ExamID, opts.UserID, opts.State, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (Assessment, error) {
	var (
		a                           Assessment
		sections                    string
		finished, gradedAt, release sql.NullInt64
		grade, credit, lang, info   sql.NullString
	)
	if err := row.Scan(&a.ID, &a.ExamID, &a.UserID, &a.State, &sections, &finished,
		&a.TotalScore, &a.MaxScore, &grade, &a.Gradeless, &a.CustomCredit, &credit,
		&lang, &info, &a.NeedsManualGrading, &gradedAt, &release, &a.CreatedAt); err != nil {
		return Assessment{}, err
	}
	if err := json.Unmarshal([]byte(sections), &a.Sections); err != nil {
		return Assessment{}, fmt.Errorf("assessment %s sections: %w", a.ID, err)
	}
	a.FinishedAt = timeOrNil(finished)
	a.GradedAt = timeOrNil(gradedAt)
	a.ReleaseDue = timeOrNil(release)
	a.Grade = grade.String
	a.CreditType = credit.String
	a.AnswerLanguage = lang.String
	a.AdditionalInfo = info.String
	return a, nil
}

func marshalConfig(cfg *autoeval.Config) (string, error) {
	if cfg == nil {
		return "", nil
	}
	b, err := json.Marshal(cfg)
	return string(b), err
}

func unmarshalConfig(s string) (*autoeval.Config, error) {
	if s == "" {
		return nil, nil
	}
	var cfg autoeval.Config
	if err := json.Unmarshal([]byte(s), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
