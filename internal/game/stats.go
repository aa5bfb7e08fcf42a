package game

import "live-quiz-service/internal/domain"

// statsAggregator keeps incremental per-question statistics for one session.
// It is not safe for concurrent use on its own; the owning session's lock
// covers every call.
type statsAggregator struct {
	byQuestion map[int]*domain.QuestionStats
}

func newStatsAggregator() *statsAggregator {
	return &statsAggregator{byQuestion: make(map[int]*domain.QuestionStats)}
}

// record applies one accepted answer. Must be called exactly once per accepted
// submission, inside the same critical section as the ledger insert.
func (a *statsAggregator) record(questionIndex int, selected string, correct bool, responseTime float64) {
	stats, ok := a.byQuestion[questionIndex]
	if !ok {
		stats = &domain.QuestionStats{
			QuestionIndex: questionIndex,
			OptionCounts:  make(map[string]int),
		}
		a.byQuestion[questionIndex] = stats
	}

	stats.TotalResponses++
	if correct {
		stats.CorrectResponses++
	}
	stats.OptionCounts[selected]++

	n := float64(stats.TotalResponses)
	stats.AverageResponseTime = (stats.AverageResponseTime*(n-1) + responseTime) / n
}

// snapshot returns a copy for the given question, zero-valued when no answers
// have been recorded yet.
func (a *statsAggregator) snapshot(questionIndex int) domain.QuestionStats {
	stats, ok := a.byQuestion[questionIndex]
	if !ok {
		return domain.QuestionStats{
			QuestionIndex: questionIndex,
			OptionCounts:  map[string]int{},
		}
	}
	out := *stats
	out.OptionCounts = make(map[string]int, len(stats.OptionCounts))
	for label, count := range stats.OptionCounts {
		out.OptionCounts[label] = count
	}
	return out
}
