package domain

import (
	"strings"
	"testing"
)

func TestNewGameCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := NewGameCode()
		if len(code) != GameCodeLength {
			t.Fatalf("expected %d-char code, got %q", GameCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(gameCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 90 {
		t.Fatalf("expected mostly unique codes, got %d distinct of 100", len(seen))
	}
}

func TestPlayerAccuracy(t *testing.T) {
	p := Player{CorrectAnswers: 2, TotalAnswers: 3}
	if got := p.Accuracy(); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
	if got := (Player{}).Accuracy(); got != 0 {
		t.Fatalf("expected 0 for no answers, got %v", got)
	}
}

func TestQuizBasePoints(t *testing.T) {
	quiz := Quiz{
		PointsPerQuestion: 1000,
		Questions: []Question{
			{Prompt: "a"},
			{Prompt: "b", Points: 2000},
		},
	}
	if got := quiz.BasePoints(0); got != 1000 {
		t.Fatalf("expected quiz default 1000, got %d", got)
	}
	if got := quiz.BasePoints(1); got != 2000 {
		t.Fatalf("expected per-question override 2000, got %d", got)
	}
	if got := quiz.BasePoints(5); got != 1000 {
		t.Fatalf("expected fallback for out-of-range index, got %d", got)
	}
}
