package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examind-io/examind/internal/exam"
	"github.com/examind-io/examind/internal/scoring"
)

type createAssessmentReq struct {
	ExamID     string            `json:"exam_id" validate:"required"`
	UserID     string            `json:"user_id" validate:"required"`
	Sections   []scoring.Section `json:"sections"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// POST /assessments
// The answered section graph arrives from the examination collaborator; an
// assessment enters the pipeline in REVIEW state.
func CreateAssessmentHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAssessmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a := exam.Assessment{
			ID:         uuid.NewString(),
			ExamID:     req.ExamID,
			UserID:     req.UserID,
			State:      exam.StateReview,
			Sections:   req.Sections,
			FinishedAt: req.FinishedAt,
			CreatedAt:  time.Now().Unix(),
		}
		if err := store.PutAssessment(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// GET /assessments/{assessmentID}
func GetAssessmentHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// GET /assessments
func ListAssessmentsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		out, err := store.ListAssessments(r.Context(), exam.AssessmentListOpts{
			ExamID: q.Get("exam_id"),
			UserID: q.Get("user_id"),
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

// GET /assessments/{assessmentID}/score
func AssessmentScoreHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.AssessmentReport(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, report)
	}
}
