package scoring

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnknownQuestionType is returned when the scorer dispatch meets a type it
// has no rule for. Silently returning 0 here would misgrade a student, so the
// caller must treat this as fatal for the whole aggregation.
var ErrUnknownQuestionType = errors.New("unknown question type")

// AnswerScore is the outcome of scoring one question instance. Rejected and
// Approved are set only for Selection-evaluated essays; such scores feed
// assessed/unassessed counters rather than numeric totals.
type AnswerScore struct {
	Score    float64 `json:"score"`
	Rejected bool    `json:"rejected"`
	Approved bool    `json:"approved"`
}

// Engine scores answers and aggregates sections and exams. It never mutates
// the graph it is given; data anomalies are logged and scored best-effort.
type Engine struct {
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// ScoreAnswer dispatches on the question type and scores the current answer
// state of sq. Forced scores take precedence where the type supports them.
func (e *Engine) ScoreAnswer(sq SectionQuestion) (AnswerScore, error) {
	switch sq.Question.Type {
	case TypeMultipleChoice:
		return AnswerScore{Score: e.ScoreMultipleChoice(sq, false)}, nil
	case TypeWeightedMultipleChoice:
		return AnswerScore{Score: e.ScoreWeightedMultipleChoice(sq, false)}, nil
	case TypeClozeTest:
		return AnswerScore{Score: e.ScoreClozeTest(sq)}, nil
	case TypeEssay:
		return e.scoreEssay(sq), nil
	case TypeClaimChoice:
		return AnswerScore{Score: e.ScoreClaimChoice(sq, false)}, nil
	default:
		return AnswerScore{}, fmt.Errorf("%w: %s (question %s)", ErrUnknownQuestionType, sq.Question.Type, sq.Question.ID)
	}
}

// ScoreMultipleChoice scores a single-correct-option question: full MaxScore
// for the correct option, 0 otherwise. Multiple answered options are a data
// integrity anomaly; the first answered option governs, deterministically.
func (e *Engine) ScoreMultipleChoice(sq SectionQuestion, ignoreForcedScore bool) float64 {
	if sq.ForcedScore != nil && !ignoreForcedScore {
		return *sq.ForcedScore
	}
	answered := answeredOptions(sq.Options)
	if len(answered) == 0 {
		return 0
	}
	if len(answered) != 1 {
		e.log.Warn("multiple options selected for a MultipleChoice answer",
			zap.String("section_question_id", sq.ID),
			zap.Int("answered", len(answered)))
	}
	if answered[0].Option.CorrectOption {
		return sq.MaxScore
	}
	return 0
}

// ScoreWeightedMultipleChoice sums the answered options' own scores. The sum
// is clamped to 0 unless negative scoring is allowed for this instance.
func (e *Engine) ScoreWeightedMultipleChoice(sq SectionQuestion, ignoreForcedScore bool) float64 {
	if sq.ForcedScore != nil && !ignoreForcedScore {
		return *sq.ForcedScore
	}
	score := 0.0
	for _, o := range sq.Options {
		if o.Answered {
			score += o.Score
		}
	}
	if !sq.NegativeScoreAllowed && score < 0 {
		return 0
	}
	return score
}

// ScoreClozeTest scores proportionally to the correct blanks:
// correct * maxScore / (correct + incorrect), rounded to 2 decimals.
// An unanswered cloze (0 + 0 blanks) scores 0 rather than dividing by zero.
func (e *Engine) ScoreClozeTest(sq SectionQuestion) float64 {
	if sq.ForcedScore != nil {
		return *sq.ForcedScore
	}
	if sq.ClozeTestAnswer == nil {
		return 0
	}
	answer := sq.ClozeTestAnswer
	total := answer.CorrectAnswers + answer.IncorrectAnswers
	if total == 0 {
		return 0
	}
	return Round2(float64(answer.CorrectAnswers) * sq.MaxScore / float64(total))
}

// ScoreClaimChoice scores a three-way agree/disagree/skip question by the
// picked option's own score. With no pick, the skip option's score governs
// (0 when no skip option exists). Several picks are an anomaly; the first
// governs, never a sum.
func (e *Engine) ScoreClaimChoice(sq SectionQuestion, ignoreForcedScore bool) float64 {
	if sq.ForcedScore != nil && !ignoreForcedScore {
		return *sq.ForcedScore
	}
	selected := answeredOptions(sq.Options)
	if len(selected) == 0 {
		skip, ok := skipOption(sq.Options)
		if !ok {
			e.log.Warn("claim choice question has no skip option",
				zap.String("section_question_id", sq.ID))
			return 0
		}
		return skip.Score
	}
	if len(selected) != 1 {
		e.log.Warn("multiple options selected for a ClaimChoice answer",
			zap.String("section_question_id", sq.ID),
			zap.Int("answered", len(selected)))
	}
	return selected[0].Score
}

// scoreEssay scores an essay only once a teacher has evaluated it. Points
// mode yields the raw evaluated value; Selection mode yields a 0/1 verdict
// carried in the Rejected/Approved flags.
func (e *Engine) scoreEssay(sq SectionQuestion) AnswerScore {
	if sq.EssayAnswer == nil || sq.EssayAnswer.EvaluatedScore == nil {
		return AnswerScore{}
	}
	score := *sq.EssayAnswer.EvaluatedScore
	switch sq.EvaluationType {
	case EvaluationPoints:
		return AnswerScore{Score: score}
	case EvaluationSelection:
		return AnswerScore{Score: score, Rejected: score == 0, Approved: score == 1}
	default:
		return AnswerScore{}
	}
}

func answeredOptions(opts []AnsweredOption) []AnsweredOption {
	var out []AnsweredOption
	for _, o := range opts {
		if o.Answered {
			out = append(out, o)
		}
	}
	return out
}

func skipOption(opts []AnsweredOption) (AnsweredOption, bool) {
	var found []AnsweredOption
	for _, o := range opts {
		if o.Option.ClaimChoiceRole == RoleSkipOption {
			found = append(found, o)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return AnsweredOption{}, false
}
