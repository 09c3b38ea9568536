package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/examind-io/examind/internal/autoeval"
	"github.com/examind-io/examind/internal/exam"
	"github.com/examind-io/examind/internal/scoring"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exam.ErrExamNotFound),
		errors.Is(err, exam.ErrAssessmentNotFound),
		errors.Is(err, exam.ErrQuestionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, autoeval.ErrDuplicatePercentages),
		errors.Is(err, exam.ErrNoAutoEvaluation),
		errors.Is(err, exam.ErrEssaysNotAutoEval),
		errors.Is(err, exam.ErrNotGraded):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scoring.ErrUnknownQuestionType):
		// A graph with an unscorable question type must fail loudly, never
		// be masked as a zero score.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
