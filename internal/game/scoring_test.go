package game

import (
	"errors"
	"testing"

	"live-quiz-service/internal/domain"
)

func TestScoreSpeedBonus(t *testing.T) {
	cases := []struct {
		name         string
		selected     string
		responseTime float64
		wantCorrect  bool
		wantPoints   int
	}{
		{"instant answer gets full bonus", "A", 0, true, 1500},
		{"answer at the limit gets base points", "A", 30, true, 1000},
		{"half time gets half bonus", "A", 15, true, 1250},
		{"ten seconds in", "A", 10, true, 1333},
		{"overtime answer still base points", "A", 45, true, 1000},
		{"negative response time capped at full bonus", "A", -2, true, 1500},
		{"wrong answer scores zero", "B", 0, false, 0},
		{"lowercase label is normalized", "a", 12, true, 1300},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			correct, points, err := Score("A", tc.selected, tc.responseTime, 30, 1000)
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if correct != tc.wantCorrect || points != tc.wantPoints {
				t.Fatalf("got correct=%v points=%d, want correct=%v points=%d",
					correct, points, tc.wantCorrect, tc.wantPoints)
			}
		})
	}
}

func TestScoreRejectsInvalidLabel(t *testing.T) {
	_, _, err := Score("A", "E", 5, 30, 1000)
	if !errors.Is(err, domain.ErrInvalidAnswerLabel) {
		t.Fatalf("expected invalid label error, got %v", err)
	}
	_, _, err = Score("A", "", 5, 30, 1000)
	if !errors.Is(err, domain.ErrInvalidAnswerLabel) {
		t.Fatalf("expected invalid label error for empty input, got %v", err)
	}
}

func TestValidateLabelRespectsOptionCount(t *testing.T) {
	if err := ValidateLabel("C", 4); err != nil {
		t.Fatalf("C should be valid for 4 options: %v", err)
	}
	if err := ValidateLabel("D", 3); !errors.Is(err, domain.ErrInvalidAnswerLabel) {
		t.Fatalf("D should be rejected for 3 options, got %v", err)
	}
}
