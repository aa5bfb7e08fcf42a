package game

import (
	"math"
	"strings"

	"live-quiz-service/internal/domain"
)

// speedBonusCap is the maximum fraction of base points awarded as speed bonus.
const speedBonusCap = 0.5

// Score evaluates a submission against a question. It is a pure function:
// callers pass the correct label, the submitted label, the response time in
// seconds, the question time limit in seconds, and the base points.
//
// A correct answer earns base points plus a speed bonus of up to 50%:
// instant answers get the full bonus, answers at or past the limit get none.
func Score(correctAnswer, selected string, responseTime float64, timeLimit, basePoints int) (bool, int, error) {
	label := normalizeLabel(selected)
	if !validLabel(label) {
		return false, 0, domain.ErrInvalidAnswerLabel
	}

	if label != normalizeLabel(correctAnswer) {
		return false, 0, nil
	}

	bonus := 0.0
	if timeLimit > 0 {
		bonus = (float64(timeLimit) - responseTime) / float64(timeLimit)
		if bonus < 0 {
			bonus = 0
		}
		if bonus > 1 {
			bonus = 1
		}
	}
	points := int(math.Floor(float64(basePoints) * (1 + bonus*speedBonusCap)))
	return true, points, nil
}

// ValidateLabel reports whether selected names one of the question's options.
// Submissions must be rejected before scoring, never coerced.
func ValidateLabel(selected string, optionCount int) error {
	label := normalizeLabel(selected)
	if !validLabel(label) {
		return domain.ErrInvalidAnswerLabel
	}
	if idx := labelIndex(label); idx >= optionCount {
		return domain.ErrInvalidAnswerLabel
	}
	return nil
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func validLabel(label string) bool {
	for _, l := range domain.OptionLabels {
		if label == l {
			return true
		}
	}
	return false
}

func labelIndex(label string) int {
	for i, l := range domain.OptionLabels {
		if label == l {
			return i
		}
	}
	return -1
}
