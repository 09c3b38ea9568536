package scoring

import (
	"encoding/json"
	"fmt"
)

// QuestionType is the closed set of question variants the engine can score.
// The zero value is deliberately invalid: an unset type must fail scoring
// instead of silently grading as zero points.
type QuestionType int

const (
	TypeUnknown QuestionType = iota
	TypeMultipleChoice
	TypeWeightedMultipleChoice
	TypeClozeTest
	TypeEssay
	TypeClaimChoice
)

var questionTypeNames = map[QuestionType]string{
	TypeMultipleChoice:         "MultipleChoiceQuestion",
	TypeWeightedMultipleChoice: "WeightedMultipleChoiceQuestion",
	TypeClozeTest:              "ClozeTestQuestion",
	TypeEssay:                  "EssayQuestion",
	TypeClaimChoice:            "ClaimChoiceQuestion",
}

func (t QuestionType) String() string {
	if s, ok := questionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("QuestionType(%d)", int(t))
}

// ParseQuestionType maps a wire tag to a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	for t, name := range questionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown question type %q", s)
}

func (t QuestionType) MarshalJSON() ([]byte, error) {
	s, ok := questionTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("cannot marshal question type %d", int(t))
	}
	return json.Marshal(s)
}

func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseQuestionType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ClaimChoiceRole tags a claim-choice option with its role. Roles, not plain
// correctness, drive claim-choice scoring.
type ClaimChoiceRole string

const (
	RoleCorrectOption   ClaimChoiceRole = "CorrectOption"
	RoleIncorrectOption ClaimChoiceRole = "IncorrectOption"
	RoleSkipOption      ClaimChoiceRole = "SkipOption"
)

// EvaluationType selects how an essay answer's evaluated score is read:
// Points is a raw point value, Selection is a 0/1 rejected/approved verdict.
type EvaluationType string

const (
	EvaluationPoints    EvaluationType = "Points"
	EvaluationSelection EvaluationType = "Selection"
)

// Option is a bank-level answer option of a Question.
type Option struct {
	ID              string          `json:"id"`
	DefaultScore    float64         `json:"default_score"`
	CorrectOption   bool            `json:"correct_option,omitempty"`
	ClaimChoiceRole ClaimChoiceRole `json:"claim_choice_role,omitempty"`
}

// Question is the bank-level question a SectionQuestion instantiates.
// Immutable once referenced by a published exam's section.
type Question struct {
	ID                          string       `json:"id"`
	Type                        QuestionType `json:"type"`
	Options                     []Option     `json:"options,omitempty"`
	DefaultNegativeScoreAllowed bool         `json:"default_negative_score_allowed,omitempty"`
}

// AnsweredOption is an option as instantiated for one student attempt: it
// carries its own score (weighted modes) and whether the student picked it.
type AnsweredOption struct {
	Option   Option  `json:"option"`
	Score    float64 `json:"score"`
	Answered bool    `json:"answered"`
}

// EssayAnswer holds a teacher's evaluation of an essay response. A nil
// EvaluatedScore means the essay has not been assessed yet.
type EssayAnswer struct {
	EvaluatedScore *float64 `json:"evaluated_score,omitempty"`
}

// ClozeTestAnswer holds the blank-by-blank outcome of a cloze response.
type ClozeTestAnswer struct {
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
}

// SectionQuestion is one question instance inside one exam section for one
// student attempt, together with its answer state.
type SectionQuestion struct {
	ID                   string           `json:"id"`
	Question             Question         `json:"question"`
	MaxScore             float64          `json:"max_score"`
	ForcedScore          *float64         `json:"forced_score,omitempty"`
	EvaluationType       EvaluationType   `json:"evaluation_type,omitempty"`
	NegativeScoreAllowed bool             `json:"negative_score_allowed,omitempty"`
	Options              []AnsweredOption `json:"options,omitempty"`
	EssayAnswer          *EssayAnswer     `json:"essay_answer,omitempty"`
	ClozeTestAnswer      *ClozeTestAnswer `json:"cloze_test_answer,omitempty"`
}

// Section is a named, ordered group of question instances. With lottery on,
// only LotteryItemCount randomly drawn questions count for the student, so
// the section maximum is scaled rather than summed in full.
type Section struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	SectionQuestions []SectionQuestion `json:"section_questions"`
	LotteryOn        bool              `json:"lottery_on,omitempty"`
	LotteryItemCount int               `json:"lottery_item_count,omitempty"`
}
