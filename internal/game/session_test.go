package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func twoQuestionQuiz() domain.Quiz {
	return domain.Quiz{
		ID:       "quiz-1",
		Title:    "Sample",
		GameCode: "ABC123",
		Questions: []domain.Question{
			{Prompt: "First?", Options: []string{"w", "x", "y", "z"}, CorrectAnswer: "A"},
			{Prompt: "Second?", Options: []string{"w", "x", "y", "z"}, CorrectAnswer: "B"},
		},
		TimePerQuestion:   30,
		MaxPlayers:        200,
		PointsPerQuestion: 1000,
	}
}

func TestStateMachineFromWaiting(t *testing.T) {
	s := NewSession(twoQuestionQuiz())

	if _, err := s.Advance(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("advance from WAITING should fail, got %v", err)
	}
	if err := s.Pause(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pause from WAITING should fail, got %v", err)
	}
	if _, err := s.End(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("end from WAITING should fail, got %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Status() != domain.StatusActive || s.CurrentQuestionIndex() != 0 {
		t.Fatalf("expected ACTIVE at index 0, got %s at %d", s.Status(), s.CurrentQuestionIndex())
	}
}

func TestStateMachineFromFinished(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.End(); err != nil {
		t.Fatalf("end: %v", err)
	}

	// Re-ending a finished game is tolerated as a no-op.
	changed, err := s.End()
	if err != nil || changed {
		t.Fatalf("expected idempotent end, got changed=%v err=%v", changed, err)
	}

	if err := s.Start(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("start from FINISHED should fail, got %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("advance from FINISHED should fail, got %v", err)
	}
	if err := s.Pause(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pause from FINISHED should fail, got %v", err)
	}
	if _, err := s.Resume(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("resume from FINISHED should fail, got %v", err)
	}
}

func TestStartEmptyQuiz(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Questions = nil
	s := NewSession(quiz)
	if err := s.Start(); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no-questions error, got %v", err)
	}
}

func TestPauseResume(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := s.Pause(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("double pause should fail, got %v", err)
	}
	remaining, err := s.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if remaining < 0 || remaining > 30 {
		t.Fatalf("implausible countdown remainder %d", remaining)
	}
	if _, err := s.Resume(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("resume while ACTIVE should fail, got %v", err)
	}
}

func TestPauseStopsTheCountdownClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionWithClock(twoQuestionQuiz(), func() time.Time { return now })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	now = now.Add(10 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	now = now.Add(time.Minute)
	remaining, err := s.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if remaining != 20 {
		t.Fatalf("expected 20s left after 10s of play, got %d", remaining)
	}

	now = now.Add(5 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("second pause: %v", err)
	}
	remaining, err = s.Resume()
	if err != nil {
		t.Fatalf("second resume: %v", err)
	}
	if remaining != 15 {
		t.Fatalf("time spent paused must not count against the countdown, got %d", remaining)
	}
}

func TestAdvanceToFinish(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	finished, err := s.Advance()
	if err != nil || finished {
		t.Fatalf("first advance should not finish: finished=%v err=%v", finished, err)
	}
	if s.CurrentQuestionIndex() != 1 {
		t.Fatalf("expected index 1, got %d", s.CurrentQuestionIndex())
	}

	finished, err = s.Advance()
	if err != nil || !finished {
		t.Fatalf("advance past last question should finish: finished=%v err=%v", finished, err)
	}
	if s.Status() != domain.StatusFinished {
		t.Fatalf("expected FINISHED, got %s", s.Status())
	}
	if s.EndedAt().IsZero() {
		t.Fatalf("expected ended_at to be set")
	}
}

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	player, err := s.Join("Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	accepted := make(chan domain.PlayerAnswer, racers)
	rejected := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := s.SubmitAnswer(player.ID, 0, "A", 5)
			if err != nil {
				rejected <- err
				return
			}
			accepted <- answer
		}()
	}
	wg.Wait()
	close(accepted)
	close(rejected)

	if len(accepted) != 1 {
		t.Fatalf("expected exactly 1 accepted submission, got %d", len(accepted))
	}
	for err := range rejected {
		if !errors.Is(err, domain.ErrDuplicateAnswer) {
			t.Fatalf("expected duplicate-answer rejections, got %v", err)
		}
	}

	p, _ := s.Player(player.ID)
	if p.TotalAnswers != 1 {
		t.Fatalf("expected 1 recorded answer, got %d", p.TotalAnswers)
	}
	if got := s.QuestionStats(0).TotalResponses; got != 1 {
		t.Fatalf("expected stats to count 1 response, got %d", got)
	}
}

func TestStaleSubmissionRejected(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Questions = append(quiz.Questions, domain.Question{
		Prompt: "Third?", Options: []string{"w", "x", "y", "z"}, CorrectAnswer: "C",
	})
	s := NewSession(quiz)
	player, _ := s.Join("Alice")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	_, err := s.SubmitAnswer(player.ID, 1, "A", 5)
	if !errors.Is(err, domain.ErrStaleSubmission) {
		t.Fatalf("expected stale-submission error, got %v", err)
	}
	p, _ := s.Player(player.ID)
	if p.TotalAnswers != 0 || p.Score != 0 {
		t.Fatalf("stale submission mutated player state: %+v", p)
	}
}

func TestInvalidLabelRejectedBeforeMutation(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	player, _ := s.Join("Alice")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := s.SubmitAnswer(player.ID, 0, "Z", 5); !errors.Is(err, domain.ErrInvalidAnswerLabel) {
		t.Fatalf("expected invalid label error, got %v", err)
	}
	if got := s.QuestionStats(0).TotalResponses; got != 0 {
		t.Fatalf("invalid submission reached the stats: %d", got)
	}
	// A valid submission must still be possible afterwards.
	if _, err := s.SubmitAnswer(player.ID, 0, "A", 5); err != nil {
		t.Fatalf("valid submission after invalid one: %v", err)
	}
}

func TestStreakAndScoreProgression(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.Questions = append(quiz.Questions, domain.Question{
		Prompt: "Third?", Options: []string{"w", "x", "y", "z"}, CorrectAnswer: "C",
	})
	s := NewSession(quiz)
	player, _ := s.Join("Alice")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := s.SubmitAnswer(player.ID, 0, "A", 30); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.SubmitAnswer(player.ID, 1, "B", 30); err != nil {
		t.Fatalf("submit: %v", err)
	}

	p, _ := s.Player(player.ID)
	if p.CurrentStreak != 2 || p.BestStreak != 2 || p.Score != 2000 {
		t.Fatalf("after two correct: %+v", p)
	}

	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.SubmitAnswer(player.ID, 2, "A", 30); err != nil {
		t.Fatalf("submit: %v", err)
	}

	p, _ = s.Player(player.ID)
	if p.CurrentStreak != 0 {
		t.Fatalf("streak should reset on wrong answer, got %d", p.CurrentStreak)
	}
	if p.BestStreak != 2 {
		t.Fatalf("best streak should survive, got %d", p.BestStreak)
	}
	if p.Score != 2000 {
		t.Fatalf("score must never decrease, got %d", p.Score)
	}
	if p.Accuracy() != 66.7 {
		t.Fatalf("expected accuracy 66.7, got %v", p.Accuracy())
	}
}

func TestStatsConsistentWithLedger(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	labels := []string{"A", "B", "A", "C", "A"}
	for i, label := range labels {
		player, err := s.Join("p" + string(rune('0'+i)))
		if err != nil {
			t.Fatalf("join: %v", err)
		}
		if _, err := s.SubmitAnswer(player.ID, 0, label, float64(i)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	stats := s.QuestionStats(0)
	if stats.TotalResponses != len(labels) {
		t.Fatalf("expected %d responses, got %d", len(labels), stats.TotalResponses)
	}
	sum := 0
	for _, count := range stats.OptionCounts {
		sum += count
	}
	if sum != len(labels) {
		t.Fatalf("option counts sum to %d, want %d", sum, len(labels))
	}
	if stats.CorrectResponses != 3 {
		t.Fatalf("expected 3 correct responses, got %d", stats.CorrectResponses)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionWithClock(twoQuestionQuiz(), func() time.Time { return clock })

	scores := map[string]int{"Bob": 300, "Alice": 300, "Zoe": 500}
	for nickname := range scores {
		if _, err := s.Join(nickname); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Rank order is what matters here; seed the scores directly.
	s.mu.Lock()
	for _, p := range s.players {
		p.Score = scores[p.Nickname]
	}
	s.mu.Unlock()

	board := s.Leaderboard(true)
	want := []struct {
		nickname string
		score    int
		rank     int
	}{
		{"Zoe", 500, 1},
		{"Alice", 300, 2},
		{"Bob", 300, 3},
	}
	if len(board.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(board.Entries))
	}
	for i, w := range want {
		e := board.Entries[i]
		if e.Nickname != w.nickname || e.Score != w.score || e.Rank != w.rank {
			t.Fatalf("entry %d: got %+v, want %+v", i, e, w)
		}
	}
}

func TestLiveLeaderboardExcludesDisconnected(t *testing.T) {
	s := NewSession(twoQuestionQuiz())
	alice, _ := s.Join("Alice")
	if _, err := s.Join("Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	s.SetConnected(alice.ID, false)

	if got := len(s.Leaderboard(true).Entries); got != 1 {
		t.Fatalf("live board should exclude disconnected players, got %d entries", got)
	}
	if got := len(s.Leaderboard(false).Entries); got != 2 {
		t.Fatalf("final board should include everyone, got %d entries", got)
	}
}

func TestJoinCapacityAndReconnect(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.MaxPlayers = 2
	s := NewSession(quiz)

	alice, err := s.Join("Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join("Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.Join("Carol"); !errors.Is(err, domain.ErrSessionFull) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if _, err := s.Join("Alice"); !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("expected nickname conflict, got %v", err)
	}

	// Disconnected players free a slot and can reclaim their nickname.
	s.SetConnected(alice.ID, false)
	if _, err := s.Join("Carol"); err != nil {
		t.Fatalf("join after disconnect: %v", err)
	}
	back, err := s.Join("Alice")
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if back.ID != alice.ID {
		t.Fatalf("reconnect should reuse the roster entry, got new ID")
	}
}
