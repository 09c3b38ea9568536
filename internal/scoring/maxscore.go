package scoring

import "math"

// Round2 rounds to at most 2 decimal digits. Display layers render integer
// results bare, without a forced decimal point.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EffectiveMaxScore is the type-dependent maximum a question instance can
// contribute: Points-evaluated, multiple-choice and cloze questions use the
// instance MaxScore directly, weighted multiple-choice sums its positive
// option scores and claim-choice takes the best positive option score.
func EffectiveMaxScore(sq SectionQuestion) float64 {
	if sq.EvaluationType == EvaluationPoints ||
		sq.Question.Type == TypeMultipleChoice ||
		sq.Question.Type == TypeClozeTest {
		return sq.MaxScore
	}
	switch sq.Question.Type {
	case TypeWeightedMultipleChoice:
		return WeightedMaxPoints(sq)
	case TypeClaimChoice:
		return CorrectClaimChoiceOptionScore(sq)
	}
	return 0
}

// WeightedMaxPoints sums the positive option scores of a weighted
// multiple-choice instance.
func WeightedMaxPoints(sq SectionQuestion) float64 {
	points := 0.0
	for _, o := range sq.Options {
		if o.Score > 0 {
			points += o.Score
		}
	}
	return Round2(points)
}

// WeightedMinPoints sums the negative option scores when negative scoring is
// allowed, else 0.
func WeightedMinPoints(sq SectionQuestion) float64 {
	if !sq.NegativeScoreAllowed {
		return 0
	}
	points := 0.0
	for _, o := range sq.Options {
		if o.Score < 0 {
			points += o.Score
		}
	}
	return Round2(points)
}

// CorrectClaimChoiceOptionScore is the best available positive option score
// of a claim-choice instance, floored at 0.
func CorrectClaimChoiceOptionScore(sq SectionQuestion) float64 {
	best := 0.0
	for _, o := range sq.Options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

// MinimumOptionScore is the lowest score a question instance can yield. Only
// weighted multiple-choice with negative scoring allowed can go below 0.
func MinimumOptionScore(sq SectionQuestion) float64 {
	if sq.Question.Type == TypeWeightedMultipleChoice && sq.NegativeScoreAllowed {
		sum := 0.0
		for _, o := range sq.Options {
			if o.Score < 0 {
				sum += o.Score
			}
		}
		return sum
	}
	return 0
}

// DefaultMaxPoints is the bank-level default maximum of a question: the sum
// of its positive default option scores.
func DefaultMaxPoints(q Question) float64 {
	points := 0.0
	for _, o := range q.Options {
		if o.DefaultScore > 0 {
			points += o.DefaultScore
		}
	}
	return points
}

// DefaultMinPoints is the bank-level default minimum, 0 unless the question
// allows negative scoring by default.
func DefaultMinPoints(q Question) float64 {
	if !q.DefaultNegativeScoreAllowed {
		return 0
	}
	points := 0.0
	for _, o := range q.Options {
		if o.DefaultScore < 0 {
			points += o.DefaultScore
		}
	}
	return Round2(points)
}

// CorrectClaimChoiceOptionDefaultScore is the default score of the single
// CorrectOption-role option, or 0 when the expected exactly-one invariant
// does not hold.
func CorrectClaimChoiceOptionDefaultScore(q Question) float64 {
	var correct []Option
	for _, o := range q.Options {
		if o.CorrectOption && o.ClaimChoiceRole == RoleCorrectOption {
			correct = append(correct, o)
		}
	}
	if len(correct) == 1 {
		return correct[0].DefaultScore
	}
	return 0
}
