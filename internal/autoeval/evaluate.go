package autoeval

import "time"

// Outcome is the result of running auto-evaluation on a finalized score.
// Graded=false with no error is a valid terminal outcome: the score fell
// below every threshold and a human must grade the exam.
type Outcome struct {
	AchievedPercentage float64 `json:"achieved_percentage"`
	Grade              string  `json:"grade,omitempty"`
	Graded             bool    `json:"graded"`
}

// NeedsManualGrading reports whether no grade qualified and human follow-up
// is required.
func (o Outcome) NeedsManualGrading() bool { return !o.Graded }

// Evaluate selects the grade whose threshold is the highest value at or
// below the achieved percentage of maxScore. A zero maxScore yields 0%, not
// a division by zero. The configuration is validated first; an ambiguous
// configuration never reaches grade selection.
func Evaluate(totalScore, maxScore float64, cfg Config) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}
	pct := 0.0
	if maxScore > 0 {
		pct = 100 * totalScore / maxScore
	}
	out := Outcome{AchievedPercentage: pct}
	best := 0.0
	for _, ge := range cfg.GradeEvaluations {
		if ge.Percentage > pct {
			continue
		}
		if !out.Graded || ge.Percentage > best {
			out.Grade = ge.Grade
			out.Graded = true
			best = ge.Percentage
		}
	}
	return out, nil
}

// ReleaseDue computes when the grade becomes releasable under the configured
// policy. The second return is false when the policy never auto-releases
// (NEVER) or the required timing input is missing. Notification itself is an
// external collaborator's job.
func ReleaseDue(cfg Config, gradedAt, examFinish, periodEnd time.Time) (time.Time, bool) {
	switch cfg.ReleaseType {
	case ReleaseImmediate:
		return gradedAt, true
	case ReleaseGivenDate:
		if cfg.ReleaseDate == nil {
			return time.Time{}, false
		}
		return *cfg.ReleaseDate, true
	case ReleaseGivenAmountDays:
		if examFinish.IsZero() {
			return time.Time{}, false
		}
		return examFinish.AddDate(0, 0, cfg.AmountDays), true
	case ReleaseAfterExamPeriod:
		if periodEnd.IsZero() {
			return time.Time{}, false
		}
		return periodEnd, true
	default: // NEVER and anything unconfigured
		return time.Time{}, false
	}
}
