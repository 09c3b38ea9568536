// Package autoeval assigns a release-gated grade to a finalized exam score
// from a configured percentage-to-grade threshold table.
package autoeval

import (
	"errors"
	"fmt"
	"time"
)

// ReleaseType is the timing rule governing when an auto-computed grade
// becomes visible to the student.
type ReleaseType string

const (
	ReleaseImmediate       ReleaseType = "IMMEDIATE"
	ReleaseGivenDate       ReleaseType = "GIVEN_DATE"
	ReleaseGivenAmountDays ReleaseType = "GIVEN_AMOUNT_DAYS"
	ReleaseAfterExamPeriod ReleaseType = "AFTER_EXAM_PERIOD"
	ReleaseNever           ReleaseType = "NEVER"
)

// ErrDuplicatePercentages rejects a configuration whose grades share a
// percentage threshold, which would make the grade choice ambiguous.
var ErrDuplicatePercentages = errors.New("duplicate grade percentage thresholds")

// GradeEvaluation pairs a grade with its percentage-of-max-score threshold.
// Thresholds act as floor cutoffs, not exact-match buckets.
type GradeEvaluation struct {
	Grade      string  `json:"grade"`
	Percentage float64 `json:"percentage"`
}

// Config is an exam's auto-evaluation configuration. It is attached during
// exam publication, consumed once after grading, and never mutated afterward.
type Config struct {
	ReleaseType      ReleaseType       `json:"release_type"`
	ReleaseDate      *time.Time        `json:"release_date,omitempty"`
	AmountDays       int               `json:"amount_days,omitempty"`
	GradeEvaluations []GradeEvaluation `json:"grade_evaluations"`
}

// Validate rejects ambiguous or incomplete configurations before any grade
// selection can happen.
func (c Config) Validate() error {
	switch c.ReleaseType {
	case ReleaseImmediate, ReleaseAfterExamPeriod, ReleaseNever:
	case ReleaseGivenDate:
		if c.ReleaseDate == nil {
			return errors.New("release type GIVEN_DATE requires a release date")
		}
	case ReleaseGivenAmountDays:
		if c.AmountDays <= 0 {
			return errors.New("release type GIVEN_AMOUNT_DAYS requires a positive day amount")
		}
	default:
		return fmt.Errorf("unknown release type %q", c.ReleaseType)
	}
	seen := make(map[float64]string, len(c.GradeEvaluations))
	for _, ge := range c.GradeEvaluations {
		if other, ok := seen[ge.Percentage]; ok {
			return fmt.Errorf("%w: grades %q and %q both at %v%%",
				ErrDuplicatePercentages, other, ge.Grade, ge.Percentage)
		}
		seen[ge.Percentage] = ge.Grade
	}
	return nil
}

// Normalize clears the release parameters that do not belong to the chosen
// release type, so a stored configuration carries no stale timing data.
func (c *Config) Normalize() {
	switch c.ReleaseType {
	case ReleaseGivenDate:
		c.AmountDays = 0
	case ReleaseGivenAmountDays:
		c.ReleaseDate = nil
	default:
		c.ReleaseDate = nil
		c.AmountDays = 0
	}
}
