package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/exam"
	"github.com/examind-io/examind/internal/scoring"
)

type uploadExamReq struct {
	Name        string            `json:"name" validate:"required"`
	Sections    []scoring.Section `json:"sections"`
	PeriodStart *time.Time        `json:"period_start,omitempty"`
	PeriodEnd   *time.Time        `json:"period_end,omitempty"`
}

// POST /exams
func UploadExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadExamReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e := exam.Exam{
			ID:          uuid.NewString(),
			Name:        req.Name,
			State:       exam.StateDraft,
			Sections:    req.Sections,
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			CreatedAt:   time.Now().Unix(),
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, e)
	}
}

// GET /exams/{examID}
func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, e)
	}
}

// GET /exams
func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		out, err := store.ListExams(r.Context(), exam.ListOpts{
			Q:      q.Get("q"),
			State:  q.Get("state"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, out)
	}
}

// GET /exams/{examID}/score
func ExamScoreHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.ExamReport(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, report)
	}
}

type autoEvalReq struct {
	ReleaseType      string                     `json:"release_type" validate:"required,oneof=IMMEDIATE GIVEN_DATE GIVEN_AMOUNT_DAYS AFTER_EXAM_PERIOD NEVER"`
	ReleaseDate      *time.Time                 `json:"release_date,omitempty"`
	AmountDays       int                        `json:"amount_days,omitempty"`
	GradeEvaluations []autoeval.GradeEvaluation `json:"grade_evaluations" validate:"required,min=1,dive"`
}

// PUT /exams/{examID}/autoevaluation
// Validation happens before the configuration is accepted; an ambiguous
// threshold table never reaches storage.
func SetAutoEvaluationHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		var req autoEvalReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg := autoeval.Config{
			ReleaseType:      autoeval.ReleaseType(req.ReleaseType),
			ReleaseDate:      req.ReleaseDate,
			AmountDays:       req.AmountDays,
			GradeEvaluations: req.GradeEvaluations,
		}
		if err := cfg.Validate(); err != nil {
			writeErr(w, err)
			return
		}
		cfg.Normalize()

		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if scoring.HasEssayQuestions(e.Sections) {
			writeErr(w, exam.ErrEssaysNotAutoEval)
			return
		}
		e, err = store.SetAutoEvaluation(r.Context(), examID, &cfg)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, e)
	}
}

// DELETE /exams/{examID}/autoevaluation
func ClearAutoEvaluationHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.SetAutoEvaluation(r.Context(), chi.URLParam(r, "examID"), nil)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, e)
	}
}
