package scoring

import "go.uber.org/zap"

// SectionTotalScore sums the scorer output over a section's questions,
// including Selection-essay verdict scores. No non-negative clamp here;
// clamping happens once at the exam level.
func (e *Engine) SectionTotalScore(sec Section) (float64, error) {
	total := 0.0
	for _, sq := range sec.SectionQuestions {
		res, err := e.ScoreAnswer(sq)
		if err != nil {
			return 0, err
		}
		total += res.Score
	}
	return Round2(total), nil
}

// SectionNumericScore sums only plain numeric scores, leaving out approved
// and rejected Selection-essay verdicts. Exam totals build on this.
func (e *Engine) SectionNumericScore(sec Section) (float64, error) {
	total := 0.0
	for _, sq := range sec.SectionQuestions {
		res, err := e.ScoreAnswer(sq)
		if err != nil {
			return 0, err
		}
		if !res.Rejected && !res.Approved {
			total += res.Score
		}
	}
	return Round2(total), nil
}

// SectionMaxScore sums the questions' effective maxima. With lottery on only
// LotteryItemCount questions count for the student, so the raw sum is scaled
// by lotteryItemCount / questionCount instead of sampling the actual subset,
// which is not deterministic at aggregation time.
func (e *Engine) SectionMaxScore(sec Section) float64 {
	maxScore := 0.0
	for _, sq := range sec.SectionQuestions {
		maxScore += EffectiveMaxScore(sq)
	}
	if sec.LotteryOn {
		n := len(sec.SectionQuestions)
		if n == 0 {
			e.log.Warn("lottery enabled on section with no questions",
				zap.String("section_id", sec.ID))
		}
		maxScore = maxScore * float64(sec.LotteryItemCount) / float64(max(1, n))
	}
	return Round2(maxScore)
}

// SectionMinScore is the lowest total the section can yield; only weighted
// multiple-choice questions with negative scoring allowed pull it below 0.
func (e *Engine) SectionMinScore(sec Section) float64 {
	total := 0.0
	for _, sq := range sec.SectionQuestions {
		total += MinimumOptionScore(sq)
	}
	return Round2(total)
}
