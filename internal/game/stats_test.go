package game

import (
	"math"
	"testing"
)

func TestStatsRunningAverage(t *testing.T) {
	agg := newStatsAggregator()
	agg.record(0, "A", true, 10)
	agg.record(0, "B", false, 20)
	agg.record(0, "A", true, 30)

	stats := agg.snapshot(0)
	if stats.TotalResponses != 3 {
		t.Fatalf("expected 3 responses, got %d", stats.TotalResponses)
	}
	if stats.CorrectResponses != 2 {
		t.Fatalf("expected 2 correct, got %d", stats.CorrectResponses)
	}
	if stats.OptionCounts["A"] != 2 || stats.OptionCounts["B"] != 1 {
		t.Fatalf("unexpected option counts: %v", stats.OptionCounts)
	}
	if math.Abs(stats.AverageResponseTime-20) > 1e-9 {
		t.Fatalf("expected average 20, got %f", stats.AverageResponseTime)
	}
}

func TestStatsSnapshotIsACopy(t *testing.T) {
	agg := newStatsAggregator()
	agg.record(1, "C", true, 5)

	snap := agg.snapshot(1)
	snap.OptionCounts["C"] = 99

	if agg.snapshot(1).OptionCounts["C"] != 1 {
		t.Fatalf("snapshot mutation leaked into aggregator")
	}
}

func TestStatsEmptyQuestion(t *testing.T) {
	agg := newStatsAggregator()
	stats := agg.snapshot(7)
	if stats.TotalResponses != 0 || stats.AccuracyRate() != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
