package game

import "live-quiz-service/internal/domain"

// Role selects one of a session's two broadcast channels.
type Role string

const (
	RolePlayer Role = "player"
	RoleHost   Role = "host"
)

// Event is one outbound message. Payload structs carry their own "type" JSON
// field; Kind duplicates it so subscribers can dispatch without reflection.
type Event struct {
	Kind    string
	Payload any
}

// QuestionView is the answer-free projection of the current question sent to
// clients. The correct label and explanation never appear here.
type QuestionView struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// GameStartedPayload announces the first question.
type GameStartedPayload struct {
	Type           string       `json:"type"`
	Question       QuestionView `json:"question"`
	QuestionNumber int          `json:"question_number"`
	TotalQuestions int          `json:"total_questions"`
	TimeLimit      int          `json:"time_limit"`
	Success        bool         `json:"success,omitempty"` // host variant only
}

// NewQuestionPayload announces an advanced question.
type NewQuestionPayload struct {
	Type           string       `json:"type"`
	Question       QuestionView `json:"question"`
	QuestionNumber int          `json:"question_number"`
	TotalQuestions int          `json:"total_questions"`
	TimeLimit      int          `json:"time_limit"`
}

// GameEndedPayload carries the final standings.
type GameEndedPayload struct {
	Type             string             `json:"type"`
	FinalLeaderboard domain.Leaderboard `json:"final_leaderboard"`
	GameStats        domain.GameStats   `json:"game_stats"`
}

// PlayerJoinedPayload announces a new or reconnected player.
type PlayerJoinedPayload struct {
	Type           string        `json:"type"`
	Player         domain.Player `json:"player"`
	ConnectedCount int           `json:"connected_count"`
}

// AnswerSubmittedPayload is the host's live feed entry for one accepted answer.
type AnswerSubmittedPayload struct {
	Type          string                   `json:"type"`
	PlayerID      string                   `json:"player_id"`
	Nickname      string                   `json:"nickname"`
	IsCorrect     bool                     `json:"is_correct"`
	PointsEarned  int                      `json:"points_earned"`
	ResponseTime  float64                  `json:"response_time"`
	ResponseCount int                      `json:"response_count"`
	Distribution  []domain.OptionBreakdown `json:"response_distribution"`
}

// AnswerResultPayload is unicast to the answering player.
type AnswerResultPayload struct {
	Type         string  `json:"type"`
	Correct      bool    `json:"correct"`
	PointsEarned int     `json:"points_earned"`
	TotalScore   int     `json:"total_score"`
	ResponseTime float64 `json:"response_time"`
	Rank         int     `json:"rank"`
	PreviousRank int     `json:"previous_rank"`
}

// LeaderboardUpdatePayload is the live scoreboard broadcast.
type LeaderboardUpdatePayload struct {
	Type        string             `json:"type"`
	Leaderboard domain.Leaderboard `json:"leaderboard"`
}

// GameStatsPayload is unicast to the host on request.
type GameStatsPayload struct {
	Type  string           `json:"type"`
	Stats domain.GameStats `json:"stats"`
}

// TimeUpdatePayload is the once-per-second countdown broadcast.
type TimeUpdatePayload struct {
	Type          string `json:"type"`
	TimeRemaining int    `json:"time_remaining"`
}

// HeartbeatAckPayload answers a client heartbeat.
type HeartbeatAckPayload struct {
	Type string `json:"type"`
}

const (
	EventGameStarted       = "game_started"
	EventNewQuestion       = "new_question"
	EventGameEnded         = "game_ended"
	EventPlayerJoined      = "player_joined"
	EventAnswerSubmitted   = "answer_submitted"
	EventAnswerResult      = "answer_result"
	EventLeaderboardUpdate = "leaderboard_update"
	EventGameStats         = "game_stats"
	EventTimeUpdate        = "time_update"
	EventHeartbeatAck      = "heartbeat_ack"
)
