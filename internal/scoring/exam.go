package scoring

// QuestionAmounts are the essay assessment counters of an exam: how many
// Selection-evaluated essays were approved (score 1) and rejected (score 0).
type QuestionAmounts struct {
	Accepted  int  `json:"accepted"`
	Rejected  int  `json:"rejected"`
	HasEssays bool `json:"has_essays"`
}

// EssayAmounts are the per-section counterparts of QuestionAmounts.
type EssayAmounts struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// ExamMaxScore sums the section maxima over the exam's sections.
func (e *Engine) ExamMaxScore(sections []Section) float64 {
	total := 0.0
	for _, sec := range sections {
		total += e.SectionMaxScore(sec)
	}
	return Round2(total)
}

// ExamTotalScore sums the sections' numeric scores and clamps the result to
// be non-negative. The clamp is applied exactly once, at this level, so
// individual sections can still report negative interim sums.
func (e *Engine) ExamTotalScore(sections []Section) (float64, error) {
	total := 0.0
	for _, sec := range sections {
		score, err := e.SectionNumericScore(sec)
		if err != nil {
			return 0, err
		}
		total += score
	}
	if total < 0 {
		return 0, nil
	}
	return Round2(total), nil
}

// HasQuestions reports whether any section carries at least one question.
func HasQuestions(sections []Section) bool {
	for _, sec := range sections {
		if len(sec.SectionQuestions) > 0 {
			return true
		}
	}
	return false
}

// HasEssayQuestions reports whether any section carries an essay question.
// Essay-containing exams cannot be auto-evaluated, since essay scores
// require a human.
func HasEssayQuestions(sections []Section) bool {
	for _, sec := range sections {
		for _, sq := range sec.SectionQuestions {
			if sq.Question.Type == TypeEssay {
				return true
			}
		}
	}
	return false
}

// GetQuestionAmounts counts the approved and rejected Selection-evaluated
// essays across the exam.
func GetQuestionAmounts(sections []Section) QuestionAmounts {
	var amounts QuestionAmounts
	for _, sec := range sections {
		for _, sq := range sec.SectionQuestions {
			if sq.Question.Type != TypeEssay {
				continue
			}
			amounts.HasEssays = true
			if sq.EvaluationType != EvaluationSelection || sq.EssayAnswer == nil || sq.EssayAnswer.EvaluatedScore == nil {
				continue
			}
			switch *sq.EssayAnswer.EvaluatedScore {
			case 1:
				amounts.Accepted++
			case 0:
				amounts.Rejected++
			}
		}
	}
	return amounts
}

// EssayAmountsBySection counts evaluated Selection essays within one section.
func EssayAmountsBySection(sec Section) EssayAmounts {
	var amounts EssayAmounts
	for _, sq := range sec.SectionQuestions {
		if sq.Question.Type != TypeEssay || sq.EvaluationType != EvaluationSelection {
			continue
		}
		if sq.EssayAnswer == nil || sq.EssayAnswer.EvaluatedScore == nil {
			continue
		}
		amounts.Total++
		switch *sq.EssayAnswer.EvaluatedScore {
		case 1:
			amounts.Accepted++
		case 0:
			amounts.Rejected++
		}
	}
	return amounts
}
