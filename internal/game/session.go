package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"live-quiz-service/internal/domain"
)

// Session is the authoritative live state of one quiz playthrough: lifecycle
// status, question pointer and timing, the player roster, the answer ledger,
// and per-question statistics. A single mutex serializes every mutation so
// the ledger insert, player score update, and stats update of one submission
// are indivisible.
type Session struct {
	id       string
	gameCode string
	quiz     domain.Quiz
	now      func() time.Time

	mu                   sync.RWMutex
	status               domain.SessionStatus
	currentQuestionIndex int
	questionStartTime    time.Time
	pausedRemaining      int
	startedAt            time.Time
	endedAt              time.Time
	players              map[string]*domain.Player
	ledger               map[string]map[int]domain.PlayerAnswer
	stats                *statsAggregator
}

// NewSession builds a WAITING session for a quiz.
func NewSession(quiz domain.Quiz) *Session {
	return NewSessionWithClock(quiz, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(quiz domain.Quiz, now func() time.Time) *Session {
	if quiz.GameCode == "" {
		quiz.GameCode = domain.NewGameCode()
	}
	return &Session{
		id:       uuid.NewString(),
		gameCode: quiz.GameCode,
		quiz:     quiz,
		now:      now,
		status:   domain.StatusWaiting,
		players:  make(map[string]*domain.Player),
		ledger:   make(map[string]map[int]domain.PlayerAnswer),
		stats:    newStatsAggregator(),
	}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) GameCode() string { return s.gameCode }
func (s *Session) Quiz() domain.Quiz {
	return s.quiz
}

func (s *Session) Status() domain.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) CurrentQuestionIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentQuestionIndex
}

func (s *Session) EndedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endedAt
}

// Start moves WAITING -> ACTIVE at question 0.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusWaiting {
		return domain.ErrInvalidTransition
	}
	if len(s.quiz.Questions) == 0 {
		return domain.ErrNoQuestions
	}

	now := s.now()
	s.status = domain.StatusActive
	s.currentQuestionIndex = 0
	s.questionStartTime = now
	s.startedAt = now
	return nil
}

// Advance moves to the next question, or to FINISHED when the current
// question is the last. Returns true when the game finished.
func (s *Session) Advance() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusActive {
		return false, domain.ErrInvalidTransition
	}
	if s.currentQuestionIndex >= len(s.quiz.Questions)-1 {
		s.status = domain.StatusFinished
		s.endedAt = s.now()
		return true, nil
	}
	s.currentQuestionIndex++
	s.questionStartTime = s.now()
	return false, nil
}

// Pause moves ACTIVE -> PAUSED, remembering the countdown remainder.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusActive {
		return domain.ErrInvalidTransition
	}
	s.status = domain.StatusPaused
	remaining := s.quiz.TimePerQuestion - int(s.now().Sub(s.questionStartTime).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	s.pausedRemaining = remaining
	return nil
}

// Resume moves PAUSED -> ACTIVE and returns the countdown remainder. The
// question clock is rebased so the interval spent paused does not count
// against the countdown.
func (s *Session) Resume() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusPaused {
		return 0, domain.ErrInvalidTransition
	}
	s.status = domain.StatusActive
	consumed := s.quiz.TimePerQuestion - s.pausedRemaining
	s.questionStartTime = s.now().Add(-time.Duration(consumed) * time.Second)
	return s.pausedRemaining, nil
}

// End moves ACTIVE or PAUSED -> FINISHED. Re-ending a finished session is a
// no-op; the bool reports whether the state actually changed.
func (s *Session) End() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case domain.StatusFinished:
		return false, nil
	case domain.StatusActive, domain.StatusPaused:
		s.status = domain.StatusFinished
		s.endedAt = s.now()
		return true, nil
	default:
		return false, domain.ErrInvalidTransition
	}
}

// Join registers a new player, or reconnects a disconnected one joining with
// the same nickname. Capacity counts connected players only.
func (s *Session) Join(nickname string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connected := 0
	for _, p := range s.players {
		if p.Nickname == nickname {
			if p.IsConnected {
				return domain.Player{}, domain.ErrNicknameTaken
			}
			p.IsConnected = true
			return *p, nil
		}
		if p.IsConnected {
			connected++
		}
	}

	if s.quiz.MaxPlayers > 0 && connected >= s.quiz.MaxPlayers {
		return domain.Player{}, domain.ErrSessionFull
	}

	player := &domain.Player{
		ID:          uuid.NewString(),
		Nickname:    nickname,
		IsConnected: true,
		JoinedAt:    s.now(),
	}
	s.players[player.ID] = player
	s.ledger[player.ID] = make(map[int]domain.PlayerAnswer)
	return *player, nil
}

// SetConnected flips a player's connection flag. Players are never removed
// during a session's life so a reconnect can reclaim the nickname.
func (s *Session) SetConnected(playerID string, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[playerID]; ok {
		p.IsConnected = connected
	}
}

// Player returns a snapshot of one player.
func (s *Session) Player(playerID string) (domain.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

// SubmitAnswer is the atomic unit for one submission: duplicate check, ledger
// insert, player score/streak update, and stats update happen under one lock
// acquisition, so concurrent submissions never interleave partial state.
func (s *Session) SubmitAnswer(playerID string, questionIndex int, selected string, responseTime float64) (domain.PlayerAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return domain.PlayerAnswer{}, domain.ErrPlayerNotFound
	}
	if s.status != domain.StatusActive {
		return domain.PlayerAnswer{}, domain.ErrInvalidTransition
	}
	if questionIndex != s.currentQuestionIndex || questionIndex >= len(s.quiz.Questions) {
		return domain.PlayerAnswer{}, domain.ErrStaleSubmission
	}

	question := s.quiz.Questions[questionIndex]
	if err := ValidateLabel(selected, len(question.Options)); err != nil {
		return domain.PlayerAnswer{}, err
	}

	answers := s.ledger[playerID]
	if answers == nil {
		answers = make(map[int]domain.PlayerAnswer)
		s.ledger[playerID] = answers
	}
	if _, dup := answers[questionIndex]; dup {
		return domain.PlayerAnswer{}, domain.ErrDuplicateAnswer
	}

	correct, points, err := Score(question.CorrectAnswer, selected, responseTime, s.quiz.TimePerQuestion, s.quiz.BasePoints(questionIndex))
	if err != nil {
		return domain.PlayerAnswer{}, err
	}

	answer := domain.PlayerAnswer{
		ID:             uuid.NewString(),
		PlayerID:       playerID,
		QuestionIndex:  questionIndex,
		SelectedAnswer: normalizeLabel(selected),
		IsCorrect:      correct,
		PointsEarned:   points,
		ResponseTime:   responseTime,
		AnsweredAt:     s.now(),
	}
	answers[questionIndex] = answer

	player.TotalAnswers++
	if correct {
		player.CorrectAnswers++
		player.CurrentStreak++
		if player.CurrentStreak > player.BestStreak {
			player.BestStreak = player.CurrentStreak
		}
		player.Score += points
	} else {
		player.CurrentStreak = 0
	}

	s.stats.record(questionIndex, answer.SelectedAnswer, correct, responseTime)
	s.recomputeRanksLocked()

	return answer, nil
}

// Leaderboard ranks players by score descending, nickname ascending. Live
// views include connected players only; the final board includes everyone.
func (s *Session) Leaderboard(connectedOnly bool) domain.Leaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaderboardLocked(connectedOnly)
}

func (s *Session) leaderboardLocked(connectedOnly bool) domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.players))
	for _, p := range s.players {
		if connectedOnly && !p.IsConnected {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:       p.ID,
			Nickname:       p.Nickname,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			CurrentStreak:  p.CurrentStreak,
			Accuracy:       p.Accuracy(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Nickname < entries[j].Nickname
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return domain.Leaderboard{
		GameCode:  s.gameCode,
		Entries:   entries,
		UpdatedAt: s.now(),
	}
}

func (s *Session) recomputeRanksLocked() {
	ranked := make([]*domain.Player, 0, len(s.players))
	for _, p := range s.players {
		ranked = append(ranked, p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Nickname < ranked[j].Nickname
	})
	for i, p := range ranked {
		p.PreviousRank = p.Rank
		p.Rank = i + 1
	}
}

// QuestionStats returns a consistent snapshot for one question.
func (s *Session) QuestionStats(questionIndex int) domain.QuestionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.snapshot(questionIndex)
}

// ResponseDistribution breaks down answers to one question per option.
func (s *Session) ResponseDistribution(questionIndex int) []domain.OptionBreakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return nil
	}
	question := s.quiz.Questions[questionIndex]
	stats := s.stats.snapshot(questionIndex)

	rows := make([]domain.OptionBreakdown, 0, len(question.Options))
	for i, text := range question.Options {
		label := domain.OptionLabels[i]
		count := stats.OptionCounts[label]
		pct := 0
		if stats.TotalResponses > 0 {
			pct = int(float64(count)/float64(stats.TotalResponses)*100 + 0.5)
		}
		rows = append(rows, domain.OptionBreakdown{
			Label:      label,
			Text:       text,
			Count:      count,
			Percentage: pct,
			IsCorrect:  normalizeLabel(question.CorrectAnswer) == label,
		})
	}
	return rows
}

// GameStats aggregates the whole session for the host view.
func (s *Session) GameStats() domain.GameStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := s.currentQuestionIndex
	if s.status == domain.StatusActive || s.status == domain.StatusPaused || s.status == domain.StatusFinished {
		completed = s.currentQuestionIndex + 1
	}
	total := len(s.quiz.Questions)

	sum, highest := 0, 0
	for _, p := range s.players {
		sum += p.Score
		if p.Score > highest {
			highest = p.Score
		}
	}
	average := 0
	if len(s.players) > 0 {
		average = int(float64(sum)/float64(len(s.players)) + 0.5)
	}
	completion := 0
	if total > 0 {
		completion = int(float64(completed)/float64(total)*100 + 0.5)
	}
	duration := 0
	if !s.startedAt.IsZero() {
		end := s.endedAt
		if end.IsZero() {
			end = s.now()
		}
		duration = int(end.Sub(s.startedAt).Minutes() + 0.5)
	}

	board := s.leaderboardLocked(false)
	top := board.Entries
	if len(top) > 10 {
		top = top[:10]
	}

	return domain.GameStats{
		TotalPlayers:       len(s.players),
		QuestionsCompleted: completed,
		TotalQuestions:     total,
		AverageScore:       average,
		HighestScore:       highest,
		CompletionRate:     completion,
		DurationMinutes:    duration,
		TopPerformers:      top,
	}
}

// CurrentQuestionView builds the answer-free projection of the current
// question, plus its 1-based number and the total count.
func (s *Session) CurrentQuestionView() (QuestionView, int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.currentQuestionIndex
	question := s.quiz.Questions[idx]
	view := QuestionView{
		Index:   idx,
		Prompt:  question.Prompt,
		Options: question.Options,
	}
	return view, idx + 1, len(s.quiz.Questions)
}

// ConnectedCount reports how many players are currently connected.
func (s *Session) ConnectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.players {
		if p.IsConnected {
			n++
		}
	}
	return n
}
