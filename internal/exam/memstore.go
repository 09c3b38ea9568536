package exam

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/scoring"
)

type memoryStore struct {
	mu          sync.RWMutex
	exams       map[string]Exam
	assessments map[string]Assessment
	engine      *scoring.Engine
}

// NewInMemoryStore backs tests and single-process dev runs.
func NewInMemoryStore(engine *scoring.Engine) Store {
	return &memoryStore{
		exams:       map[string]Exam{},
		assessments: map[string]Assessment{},
		engine:      engine,
	}
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExams(_ context.Context, opts ListOpts) ([]ExamSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ExamSummary
	for _, e := range m.exams {
		if opts.State != "" && e.State != opts.State {
			continue
		}
		if opts.Q != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, m.summarize(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) summarize(e Exam) ExamSummary {
	questions := 0
	for _, sec := range e.Sections {
		questions += len(sec.SectionQuestions)
	}
	return ExamSummary{
		ID:            e.ID,
		Name:          e.Name,
		State:         e.State,
		SectionCount:  len(e.Sections),
		QuestionCount: questions,
		MaxScore:      m.engine.ExamMaxScore(e.Sections),
		CreatedAt:     e.CreatedAt,
	}
}

func (m *memoryStore) SetAutoEvaluation(_ context.Context, examID string, cfg *autoeval.Config) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[examID]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	e.AutoEvaluation = cfg
	m.exams[examID] = e
	return e, nil
}

func (m *memoryStore) PutAssessment(_ context.Context, a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[a.ExamID]; !ok {
		return ErrExamNotFound
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, ErrAssessmentNotFound
	}
	return a, nil
}

func (m *memoryStore) UpdateAssessment(_ context.Context, a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assessments[a.ID]; !ok {
		return ErrAssessmentNotFound
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) ListAssessments(_ context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Assessment
	for _, a := range m.assessments {
		if opts.ExamID != "" && a.ExamID != opts.ExamID {
			continue
		}
		if opts.UserID != "" && a.UserID != opts.UserID {
			continue
		}
		if opts.State != "" && a.State != opts.State {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
