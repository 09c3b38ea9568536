package scoring

import (
	"errors"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func mcQuestion(maxScore float64, answeredCorrect, answeredWrong int) SectionQuestion {
	sq := SectionQuestion{
		ID:       "sq-mc",
		Question: Question{ID: "q-mc", Type: TypeMultipleChoice},
		MaxScore: maxScore,
	}
	for i := 0; i < answeredCorrect; i++ {
		sq.Options = append(sq.Options, AnsweredOption{Option: Option{CorrectOption: true}, Answered: true})
	}
	for i := 0; i < answeredWrong; i++ {
		sq.Options = append(sq.Options, AnsweredOption{Option: Option{}, Answered: true})
	}
	sq.Options = append(sq.Options, AnsweredOption{Option: Option{}}) // never answered
	return sq
}

func TestScoreMultipleChoice(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name         string
		sq           SectionQuestion
		ignoreForced bool
		want         float64
	}{
		{name: "correct option answered", sq: mcQuestion(5, 1, 0), want: 5},
		{name: "wrong option answered", sq: mcQuestion(5, 0, 1), want: 0},
		{name: "no answer", sq: mcQuestion(5, 0, 0), want: 0},
		{name: "multiple answered, first governs", sq: mcQuestion(5, 1, 1), want: 5},
		{
			name: "forced score wins",
			sq: func() SectionQuestion {
				sq := mcQuestion(5, 1, 0)
				sq.ForcedScore = fptr(2.5)
				return sq
			}(),
			want: 2.5,
		},
		{
			name: "forced score ignored on request",
			sq: func() SectionQuestion {
				sq := mcQuestion(5, 1, 0)
				sq.ForcedScore = fptr(2.5)
				return sq
			}(),
			ignoreForced: true,
			want:         5,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.ScoreMultipleChoice(tc.sq, tc.ignoreForced); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func weightedQuestion(scores []float64, answered []bool, negativeAllowed bool) SectionQuestion {
	sq := SectionQuestion{
		ID:                   "sq-wmc",
		Question:             Question{ID: "q-wmc", Type: TypeWeightedMultipleChoice},
		NegativeScoreAllowed: negativeAllowed,
	}
	for i, s := range scores {
		sq.Options = append(sq.Options, AnsweredOption{Score: s, Answered: answered[i]})
	}
	return sq
}

func TestScoreWeightedMultipleChoice(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name string
		sq   SectionQuestion
		want float64
	}{
		{
			name: "mixed positive and negative, negatives allowed",
			sq:   weightedQuestion([]float64{3, -2, 1}, []bool{true, true, false}, true),
			want: 1,
		},
		{
			name: "all negative, negatives not allowed, clamped",
			sq:   weightedQuestion([]float64{-3, -2}, []bool{true, true}, false),
			want: 0,
		},
		{
			name: "all negative, negatives allowed",
			sq:   weightedQuestion([]float64{-3, -2}, []bool{true, true}, true),
			want: -5,
		},
		{
			name: "nothing answered",
			sq:   weightedQuestion([]float64{3, -2}, []bool{false, false}, false),
			want: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.ScoreWeightedMultipleChoice(tc.sq, false); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("forced score wins", func(t *testing.T) {
		sq := weightedQuestion([]float64{3, -2}, []bool{true, false}, false)
		sq.ForcedScore = fptr(1.5)
		if got := e.ScoreWeightedMultipleChoice(sq, false); got != 1.5 {
			t.Fatalf("got %v, want 1.5", got)
		}
	})
}

func TestScoreClozeTest(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name               string
		maxScore           float64
		correct, incorrect int
		forced             *float64
		want               float64
	}{
		{name: "proportional", maxScore: 10, correct: 3, incorrect: 1, want: 7.5},
		{name: "rounded to 2 decimals", maxScore: 10, correct: 1, incorrect: 2, want: 3.33},
		{name: "all correct", maxScore: 4, correct: 5, incorrect: 0, want: 4},
		{name: "unanswered, no division by zero", maxScore: 10, correct: 0, incorrect: 0, want: 0},
		{name: "forced score wins", maxScore: 10, correct: 3, incorrect: 1, forced: fptr(9), want: 9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sq := SectionQuestion{
				Question:        Question{Type: TypeClozeTest},
				MaxScore:        tc.maxScore,
				ForcedScore:     tc.forced,
				ClozeTestAnswer: &ClozeTestAnswer{CorrectAnswers: tc.correct, IncorrectAnswers: tc.incorrect},
			}
			if got := e.ScoreClozeTest(sq); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("missing answer record", func(t *testing.T) {
		sq := SectionQuestion{Question: Question{Type: TypeClozeTest}, MaxScore: 10}
		if got := e.ScoreClozeTest(sq); got != 0 {
			t.Fatalf("got %v, want 0", got)
		}
	})
}

func claimChoiceQuestion(optionScores map[ClaimChoiceRole]float64, answered ClaimChoiceRole) SectionQuestion {
	sq := SectionQuestion{
		ID:       "sq-cc",
		Question: Question{ID: "q-cc", Type: TypeClaimChoice},
	}
	for role, score := range optionScores {
		sq.Options = append(sq.Options, AnsweredOption{
			Option:   Option{ClaimChoiceRole: role, CorrectOption: role == RoleCorrectOption},
			Score:    score,
			Answered: role == answered,
		})
	}
	return sq
}

func TestScoreClaimChoice(t *testing.T) {
	e := NewEngine(nil)
	scores := map[ClaimChoiceRole]float64{
		RoleCorrectOption:   2,
		RoleIncorrectOption: -1,
		RoleSkipOption:      -1,
	}

	t.Run("answered option's own score governs", func(t *testing.T) {
		if got := e.ScoreClaimChoice(claimChoiceQuestion(scores, RoleIncorrectOption), false); got != -1 {
			t.Fatalf("got %v, want -1", got)
		}
	})
	t.Run("no answer falls back to skip option score", func(t *testing.T) {
		if got := e.ScoreClaimChoice(claimChoiceQuestion(scores, ""), false); got != -1 {
			t.Fatalf("got %v, want -1", got)
		}
	})
	t.Run("no answer and no skip option scores zero", func(t *testing.T) {
		sq := claimChoiceQuestion(map[ClaimChoiceRole]float64{
			RoleCorrectOption:   2,
			RoleIncorrectOption: -1,
		}, "")
		if got := e.ScoreClaimChoice(sq, false); got != 0 {
			t.Fatalf("got %v, want 0", got)
		}
	})
	t.Run("multiple answered, first governs, never summed", func(t *testing.T) {
		sq := SectionQuestion{Question: Question{Type: TypeClaimChoice}}
		sq.Options = []AnsweredOption{
			{Option: Option{ClaimChoiceRole: RoleCorrectOption}, Score: 2, Answered: true},
			{Option: Option{ClaimChoiceRole: RoleIncorrectOption}, Score: -1, Answered: true},
		}
		if got := e.ScoreClaimChoice(sq, false); got != 2 {
			t.Fatalf("got %v, want 2", got)
		}
	})
	t.Run("forced score wins", func(t *testing.T) {
		sq := claimChoiceQuestion(scores, RoleCorrectOption)
		sq.ForcedScore = fptr(0.5)
		if got := e.ScoreClaimChoice(sq, false); got != 0.5 {
			t.Fatalf("got %v, want 0.5", got)
		}
	})
}

func TestScoreAnswerEssay(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name       string
		evaluation EvaluationType
		evaluated  *float64
		want       AnswerScore
	}{
		{name: "unevaluated essay scores zero", evaluation: EvaluationPoints, want: AnswerScore{}},
		{name: "points mode raw value", evaluation: EvaluationPoints, evaluated: fptr(4.5), want: AnswerScore{Score: 4.5}},
		{name: "selection approved", evaluation: EvaluationSelection, evaluated: fptr(1), want: AnswerScore{Score: 1, Approved: true}},
		{name: "selection rejected", evaluation: EvaluationSelection, evaluated: fptr(0), want: AnswerScore{Rejected: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sq := SectionQuestion{
				Question:       Question{Type: TypeEssay},
				EvaluationType: tc.evaluation,
			}
			if tc.evaluated != nil {
				sq.EssayAnswer = &EssayAnswer{EvaluatedScore: tc.evaluated}
			}
			got, err := e.ScoreAnswer(sq)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestScoreAnswerUnknownType(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.ScoreAnswer(SectionQuestion{Question: Question{ID: "q-x"}})
	if !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("got %v, want ErrUnknownQuestionType", err)
	}
}

func TestParseQuestionType(t *testing.T) {
	for typ, name := range questionTypeNames {
		got, err := ParseQuestionType(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != typ {
			t.Fatalf("%s: got %v, want %v", name, got, typ)
		}
	}
	if _, err := ParseQuestionType("TrueFalseQuestion"); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
