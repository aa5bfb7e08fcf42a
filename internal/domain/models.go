package domain

import (
	"math"
	"math/rand"
	"time"
)

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	StatusWaiting  SessionStatus = "WAITING"
	StatusActive   SessionStatus = "ACTIVE"
	StatusPaused   SessionStatus = "PAUSED"
	StatusFinished SessionStatus = "FINISHED"
)

// OptionLabels are the canonical answer labels for a four-option question.
var OptionLabels = []string{"A", "B", "C", "D"}

const gameCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GameCodeLength is the length of join codes players type in.
const GameCodeLength = 6

// NewGameCode returns a random join code. Uniqueness is the caller's concern;
// the authoring flow retries on collision.
func NewGameCode() string {
	b := make([]byte, GameCodeLength)
	for i := range b {
		b[i] = gameCodeAlphabet[rand.Intn(len(gameCodeAlphabet))]
	}
	return string(b)
}

// Question models an MCQ question with exactly one correct option label.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Points        int      `json:"points,omitempty"` // overrides the quiz default when non-zero
}

// Quiz is an immutable quiz definition produced by the authoring flow.
// The coordinator only reads it.
type Quiz struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	GameCode          string     `json:"game_code"`
	Questions         []Question `json:"questions"`
	TimePerQuestion   int        `json:"time_per_question"` // seconds
	MaxPlayers        int        `json:"max_players"`
	PointsPerQuestion int        `json:"points_per_question"`
}

// BasePoints returns the points value for the question at idx, falling back
// to the quiz-wide default.
func (q Quiz) BasePoints(idx int) int {
	if idx >= 0 && idx < len(q.Questions) && q.Questions[idx].Points > 0 {
		return q.Questions[idx].Points
	}
	return q.PointsPerQuestion
}

// Player is one participant in a game session.
type Player struct {
	ID             string    `json:"id"`
	Nickname       string    `json:"nickname"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalAnswers   int       `json:"total_answers"`
	CurrentStreak  int       `json:"current_streak"`
	BestStreak     int       `json:"best_streak"`
	Rank           int       `json:"rank"`
	PreviousRank   int       `json:"previous_rank"`
	IsConnected    bool      `json:"is_connected"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Accuracy is the percentage of correct answers, rounded to one decimal.
// Zero when the player has not answered anything.
func (p Player) Accuracy() float64 {
	if p.TotalAnswers == 0 {
		return 0
	}
	return math.Round(float64(p.CorrectAnswers)/float64(p.TotalAnswers)*1000) / 10
}

// PlayerAnswer is one accepted submission. Immutable once recorded; at most
// one per (player, question index).
type PlayerAnswer struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"player_id"`
	QuestionIndex  int       `json:"question_index"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	PointsEarned   int       `json:"points_earned"`
	ResponseTime   float64   `json:"response_time"` // seconds from question start
	AnsweredAt     time.Time `json:"answered_at"`
}

// QuestionStats aggregates submissions for one question of a session.
type QuestionStats struct {
	QuestionIndex       int            `json:"question_index"`
	TotalResponses      int            `json:"total_responses"`
	CorrectResponses    int            `json:"correct_responses"`
	OptionCounts        map[string]int `json:"option_counts"`
	AverageResponseTime float64        `json:"average_response_time"`
}

// AccuracyRate is the percentage of correct responses, rounded to one decimal.
func (s QuestionStats) AccuracyRate() float64 {
	if s.TotalResponses == 0 {
		return 0
	}
	return math.Round(float64(s.CorrectResponses)/float64(s.TotalResponses)*1000) / 10
}

// LeaderboardEntry is a ranked snapshot of one player.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	PlayerID       string  `json:"player_id"`
	Nickname       string  `json:"nickname"`
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	CurrentStreak  int     `json:"current_streak"`
	Accuracy       float64 `json:"accuracy"`
}

// Leaderboard is the ordered scoreboard for a session.
type Leaderboard struct {
	GameCode  string             `json:"game_code"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// GameStats summarizes a session across all questions.
type GameStats struct {
	TotalPlayers       int                `json:"total_players"`
	QuestionsCompleted int                `json:"questions_completed"`
	TotalQuestions     int                `json:"total_questions"`
	AverageScore       int                `json:"average_score"`
	HighestScore       int                `json:"highest_score"`
	CompletionRate     int                `json:"completion_rate"` // percent
	DurationMinutes    int                `json:"duration_minutes"`
	TopPerformers      []LeaderboardEntry `json:"top_performers"`
}

// OptionBreakdown is one row of a per-question response distribution.
type OptionBreakdown struct {
	Label      string `json:"label"`
	Text       string `json:"text"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	IsCorrect  bool   `json:"is_correct"`
}
