package scoring

import "testing"

func pointsQuestion(id string, maxScore, forced float64, answeredCorrect bool) SectionQuestion {
	sq := SectionQuestion{
		ID:       id,
		Question: Question{ID: "q-" + id, Type: TypeMultipleChoice},
		MaxScore: maxScore,
	}
	sq.Options = []AnsweredOption{{Option: Option{CorrectOption: true}, Answered: answeredCorrect}}
	if forced != 0 {
		sq.ForcedScore = &forced
	}
	return sq
}

func TestSectionMaxScoreLottery(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name             string
		questions        int
		maxEach          float64
		lotteryOn        bool
		lotteryItemCount int
		want             float64
	}{
		{name: "plain sum", questions: 4, maxEach: 10, want: 40},
		{name: "lottery scales proportionally", questions: 4, maxEach: 10, lotteryOn: true, lotteryItemCount: 2, want: 20},
		{name: "lottery with single question", questions: 1, maxEach: 10, lotteryOn: true, lotteryItemCount: 1, want: 10},
		{name: "lottery on empty section", questions: 0, lotteryOn: true, lotteryItemCount: 2, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sec := Section{ID: "sec", LotteryOn: tc.lotteryOn, LotteryItemCount: tc.lotteryItemCount}
			for i := 0; i < tc.questions; i++ {
				sec.SectionQuestions = append(sec.SectionQuestions, pointsQuestion("q", tc.maxEach, 0, false))
			}
			if got := e.SectionMaxScore(sec); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEffectiveMaxScore(t *testing.T) {
	tests := []struct {
		name string
		sq   SectionQuestion
		want float64
	}{
		{name: "multiple choice uses max score", sq: pointsQuestion("a", 5, 0, false), want: 5},
		{
			name: "cloze uses max score",
			sq:   SectionQuestion{Question: Question{Type: TypeClozeTest}, MaxScore: 8},
			want: 8,
		},
		{
			name: "points-evaluated essay uses max score",
			sq:   SectionQuestion{Question: Question{Type: TypeEssay}, EvaluationType: EvaluationPoints, MaxScore: 12},
			want: 12,
		},
		{
			name: "weighted sums positive option scores",
			sq:   weightedQuestion([]float64{3, -2, 1.2}, []bool{false, false, false}, true),
			want: 4.2,
		},
		{
			name: "claim choice takes best positive option score",
			sq:   claimChoiceQuestion(map[ClaimChoiceRole]float64{RoleCorrectOption: 2, RoleIncorrectOption: -1, RoleSkipOption: 0}, ""),
			want: 2,
		},
		{
			name: "selection essay contributes nothing",
			sq:   SectionQuestion{Question: Question{Type: TypeEssay}, EvaluationType: EvaluationSelection, MaxScore: 12},
			want: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveMaxScore(tc.sq); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSectionTotalAndMinScore(t *testing.T) {
	e := NewEngine(nil)
	sec := Section{
		ID: "sec",
		SectionQuestions: []SectionQuestion{
			pointsQuestion("a", 5, 0, true),
			weightedQuestion([]float64{3, -2}, []bool{false, true}, true),
		},
	}

	total, err := e.SectionTotalScore(sec)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 3 { // 5 + (-2), no clamp at section level
		t.Fatalf("total = %v, want 3", total)
	}
	if got := e.SectionMinScore(sec); got != -2 {
		t.Fatalf("min = %v, want -2", got)
	}
}

func TestSectionNumericScoreLeavesOutSelectionVerdicts(t *testing.T) {
	e := NewEngine(nil)
	sec := Section{
		SectionQuestions: []SectionQuestion{
			pointsQuestion("a", 5, 0, true),
			{
				Question:       Question{Type: TypeEssay},
				EvaluationType: EvaluationSelection,
				EssayAnswer:    &EssayAnswer{EvaluatedScore: fptr(1)},
			},
		},
	}
	numeric, err := e.SectionNumericScore(sec)
	if err != nil {
		t.Fatalf("numeric: %v", err)
	}
	if numeric != 5 {
		t.Fatalf("numeric = %v, want 5 (selection verdict excluded)", numeric)
	}
	total, err := e.SectionTotalScore(sec)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 6 {
		t.Fatalf("total = %v, want 6 (selection verdict included)", total)
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	e := NewEngine(nil)
	sec := Section{
		ID:               "sec",
		LotteryOn:        true,
		LotteryItemCount: 2,
		SectionQuestions: []SectionQuestion{
			pointsQuestion("a", 5, 0, true),
			pointsQuestion("b", 5, 0, false),
			weightedQuestion([]float64{3, -2, 1}, []bool{true, true, false}, true),
		},
	}
	first, err := e.SectionTotalScore(sec)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.SectionTotalScore(sec)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("recomputation differs: %v vs %v", first, second)
	}
	if e.SectionMaxScore(sec) != e.SectionMaxScore(sec) {
		t.Fatal("max score recomputation differs")
	}
}

func TestMinimumOptionScore(t *testing.T) {
	if got := MinimumOptionScore(weightedQuestion([]float64{3, -2, -1}, []bool{false, false, false}, true)); got != -3 {
		t.Fatalf("got %v, want -3", got)
	}
	if got := MinimumOptionScore(weightedQuestion([]float64{3, -2}, []bool{false, false}, false)); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
	if got := MinimumOptionScore(pointsQuestion("a", 5, 0, false)); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestDefaultPoints(t *testing.T) {
	q := Question{
		Type: TypeWeightedMultipleChoice,
		Options: []Option{
			{DefaultScore: 2},
			{DefaultScore: 1.5},
			{DefaultScore: -3},
		},
	}
	if got := DefaultMaxPoints(q); got != 3.5 {
		t.Fatalf("max = %v, want 3.5", got)
	}
	if got := DefaultMinPoints(q); got != 0 {
		t.Fatalf("min without negative scoring = %v, want 0", got)
	}
	q.DefaultNegativeScoreAllowed = true
	if got := DefaultMinPoints(q); got != -3 {
		t.Fatalf("min with negative scoring = %v, want -3", got)
	}
}

func TestCorrectClaimChoiceOptionDefaultScore(t *testing.T) {
	q := Question{
		Type: TypeClaimChoice,
		Options: []Option{
			{DefaultScore: 2, CorrectOption: true, ClaimChoiceRole: RoleCorrectOption},
			{DefaultScore: -1, ClaimChoiceRole: RoleIncorrectOption},
		},
	}
	if got := CorrectClaimChoiceOptionDefaultScore(q); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
	// two claimed correct options violate the invariant; fall back to 0
	q.Options = append(q.Options, Option{DefaultScore: 3, CorrectOption: true, ClaimChoiceRole: RoleCorrectOption})
	if got := CorrectClaimChoiceOptionDefaultScore(q); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
