package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/examind-io/examind/internal/exam"
)

type forceScoreReq struct {
	// nil clears a previously forced score
	ForcedScore *float64 `json:"forced_score"`
}

// PUT /assessments/{assessmentID}/questions/{sectionQuestionID}/force-score
func ForceScoreHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forceScoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := svc.ForceScore(r.Context(),
			chi.URLParam(r, "assessmentID"), chi.URLParam(r, "sectionQuestionID"), req.ForcedScore)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// POST /assessments/{assessmentID}/autoevaluate
func AutoEvaluateHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, outcome, err := svc.AutoEvaluate(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"assessment": a, "outcome": outcome})
	}
}

type gradeReq struct {
	Grade          string  `json:"grade,omitempty"`
	Gradeless      bool    `json:"gradeless,omitempty"`
	CustomCredit   float64 `json:"custom_credit,omitempty"`
	CreditType     string  `json:"credit_type,omitempty"`
	AnswerLanguage string  `json:"answer_language,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
}

func (g gradeReq) record() exam.GradeRecord {
	return exam.GradeRecord{
		Grade:          g.Grade,
		Gradeless:      g.Gradeless,
		CustomCredit:   g.CustomCredit,
		CreditType:     g.CreditType,
		AnswerLanguage: g.AnswerLanguage,
		AdditionalInfo: g.AdditionalInfo,
	}
}

// PUT /assessments/{assessmentID}/grade
func GradeHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := svc.Grade(r.Context(), chi.URLParam(r, "assessmentID"), req.record())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}

// PUT /assessments/{assessmentID}/record
func RecordHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := svc.Record(r.Context(), chi.URLParam(r, "assessmentID"), req.record())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, a)
	}
}
