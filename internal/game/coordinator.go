package game

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// SessionRegistry abstracts how live sessions are stored (in-memory, Redis
// liveness-tracked, etc). Exactly one Session is authoritative per game code.
type SessionRegistry interface {
	GetOrCreate(quiz domain.Quiz) *Session
	Get(gameCode string) (*Session, bool)
	Delete(gameCode string)
}

// QuizRepository loads quiz content (from cache/backing store) by game code.
type QuizRepository interface {
	GetQuiz(ctx context.Context, gameCode string) (domain.Quiz, error)
}

// Coordinator orchestrates the live game: it validates commands against the
// session state machine, applies mutations, and fans out the resulting events
// on the session's role channels. State mutation happens inside the session's
// critical section; event delivery happens outside it and never blocks it.
type Coordinator struct {
	sessions    SessionRegistry
	quizzes     QuizRepository
	broadcaster *Broadcaster

	timerMu sync.Mutex
	timers  map[string]*questionTimer
}

func NewCoordinator(sessions SessionRegistry, quizzes QuizRepository, broadcaster *Broadcaster) *Coordinator {
	return &Coordinator{
		sessions:    sessions,
		quizzes:     quizzes,
		broadcaster: broadcaster,
		timers:      make(map[string]*questionTimer),
	}
}

// Broadcaster exposes the coordinator's pub/sub registry for transports.
func (c *Coordinator) Broadcaster() *Broadcaster { return c.broadcaster }

// Session resolves the live session for a game code, creating it from quiz
// content on first use.
func (c *Coordinator) Session(ctx context.Context, gameCode string) (*Session, error) {
	if session, ok := c.sessions.Get(gameCode); ok {
		return session, nil
	}
	quiz, err := c.quizzes.GetQuiz(ctx, gameCode)
	if err != nil {
		return nil, err
	}
	return c.sessions.GetOrCreate(quiz), nil
}

// Join adds a player to the session for gameCode and announces them on both
// role channels.
func (c *Coordinator) Join(ctx context.Context, gameCode, nickname string) (domain.Player, error) {
	session, err := c.Session(ctx, gameCode)
	if err != nil {
		return domain.Player{}, err
	}
	player, err := session.Join(nickname)
	if err != nil {
		return domain.Player{}, err
	}
	c.broadcaster.PublishBoth(gameCode, Event{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			Type:           EventPlayerJoined,
			Player:         player,
			ConnectedCount: session.ConnectedCount(),
		},
	})
	return player, nil
}

// Disconnect flips the player's connected flag. The roster entry survives so
// a later join with the same nickname reconnects instead of starting over.
func (c *Coordinator) Disconnect(gameCode, playerID string) {
	if session, ok := c.sessions.Get(gameCode); ok {
		session.SetConnected(playerID, false)
	}
}

// HandleHostCommand applies one host action. On validation failure the state
// is untouched and nothing is broadcast; the error goes back to the host only.
// The returned events are unicast replies for the acting host connection.
func (c *Coordinator) HandleHostCommand(ctx context.Context, gameCode string, cmd HostCommand) ([]Event, error) {
	session, err := c.Session(ctx, gameCode)
	if err != nil {
		return nil, err
	}

	switch cmd.Type {
	case HostStartGame:
		return c.startGame(session)
	case HostNextQuestion:
		return c.nextQuestion(session)
	case HostEndGame:
		return c.endGame(session)
	case HostPauseGame:
		if err := session.Pause(); err != nil {
			return nil, err
		}
		c.stopQuestionTimer(gameCode)
		return nil, nil
	case HostResumeGame:
		remaining, err := session.Resume()
		if err != nil {
			return nil, err
		}
		c.startQuestionTimer(gameCode, remaining)
		return nil, nil
	case HostRequestStats:
		return []Event{{
			Kind:    EventGameStats,
			Payload: GameStatsPayload{Type: EventGameStats, Stats: session.GameStats()},
		}}, nil
	case HostHeartbeat:
		return []Event{{Kind: EventHeartbeatAck, Payload: HeartbeatAckPayload{Type: EventHeartbeatAck}}}, nil
	default:
		return nil, domain.ErrInvalidTransition
	}
}

func (c *Coordinator) startGame(session *Session) ([]Event, error) {
	if err := session.Start(); err != nil {
		return nil, err
	}

	view, number, total := session.CurrentQuestionView()
	timeLimit := session.Quiz().TimePerQuestion

	c.broadcaster.Publish(session.GameCode(), RolePlayer, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Type:           EventGameStarted,
			Question:       view,
			QuestionNumber: number,
			TotalQuestions: total,
			TimeLimit:      timeLimit,
		},
	})
	c.broadcaster.Publish(session.GameCode(), RoleHost, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Type:           EventGameStarted,
			Question:       view,
			QuestionNumber: number,
			TotalQuestions: total,
			TimeLimit:      timeLimit,
			Success:        true,
		},
	})
	c.startQuestionTimer(session.GameCode(), timeLimit)
	return nil, nil
}

func (c *Coordinator) nextQuestion(session *Session) ([]Event, error) {
	finished, err := session.Advance()
	if err != nil {
		return nil, err
	}
	if finished {
		c.stopQuestionTimer(session.GameCode())
		c.broadcastGameEnded(session)
		return nil, nil
	}

	view, number, total := session.CurrentQuestionView()
	timeLimit := session.Quiz().TimePerQuestion
	c.broadcaster.PublishBoth(session.GameCode(), Event{
		Kind: EventNewQuestion,
		Payload: NewQuestionPayload{
			Type:           EventNewQuestion,
			Question:       view,
			QuestionNumber: number,
			TotalQuestions: total,
			TimeLimit:      timeLimit,
		},
	})
	c.startQuestionTimer(session.GameCode(), timeLimit)
	return nil, nil
}

func (c *Coordinator) endGame(session *Session) ([]Event, error) {
	changed, err := session.End()
	if err != nil {
		return nil, err
	}
	if !changed {
		// Already finished: tolerated, nothing rebroadcast.
		return nil, nil
	}
	c.stopQuestionTimer(session.GameCode())
	c.broadcastGameEnded(session)
	return nil, nil
}

func (c *Coordinator) broadcastGameEnded(session *Session) {
	// Final standings include disconnected players.
	ev := Event{
		Kind: EventGameEnded,
		Payload: GameEndedPayload{
			Type:             EventGameEnded,
			FinalLeaderboard: session.Leaderboard(false),
			GameStats:        session.GameStats(),
		},
	}
	c.broadcaster.PublishBoth(session.GameCode(), ev)
}

// HandlePlayerCommand applies one player action. The returned events are
// unicast replies for the submitting connection; broadcasts happen internally.
func (c *Coordinator) HandlePlayerCommand(ctx context.Context, gameCode, playerID string, cmd PlayerCommand) ([]Event, error) {
	session, ok := c.sessions.Get(gameCode)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	switch cmd.Type {
	case PlayerSubmitAnswer:
		return c.submitAnswer(session, playerID, cmd)
	case PlayerRequestLeaderboard:
		return []Event{{
			Kind:    EventLeaderboardUpdate,
			Payload: LeaderboardUpdatePayload{Type: EventLeaderboardUpdate, Leaderboard: session.Leaderboard(true)},
		}}, nil
	case PlayerAnnounceJoin:
		player, ok := session.Player(playerID)
		if !ok {
			return nil, domain.ErrPlayerNotFound
		}
		c.broadcaster.PublishBoth(gameCode, Event{
			Kind: EventPlayerJoined,
			Payload: PlayerJoinedPayload{
				Type:           EventPlayerJoined,
				Player:         player,
				ConnectedCount: session.ConnectedCount(),
			},
		})
		return nil, nil
	case PlayerHeartbeat:
		return []Event{{Kind: EventHeartbeatAck, Payload: HeartbeatAckPayload{Type: EventHeartbeatAck}}}, nil
	default:
		return nil, domain.ErrInvalidTransition
	}
}

func (c *Coordinator) submitAnswer(session *Session, playerID string, cmd PlayerCommand) ([]Event, error) {
	answer, err := session.SubmitAnswer(playerID, cmd.QuestionIndex, cmd.SelectedAnswer, cmd.ResponseTime)
	if err != nil {
		return nil, err
	}

	player, _ := session.Player(playerID)
	stats := session.QuestionStats(answer.QuestionIndex)

	c.broadcaster.Publish(session.GameCode(), RolePlayer, Event{
		Kind:    EventLeaderboardUpdate,
		Payload: LeaderboardUpdatePayload{Type: EventLeaderboardUpdate, Leaderboard: session.Leaderboard(true)},
	})
	c.broadcaster.Publish(session.GameCode(), RoleHost, Event{
		Kind: EventAnswerSubmitted,
		Payload: AnswerSubmittedPayload{
			Type:          EventAnswerSubmitted,
			PlayerID:      playerID,
			Nickname:      player.Nickname,
			IsCorrect:     answer.IsCorrect,
			PointsEarned:  answer.PointsEarned,
			ResponseTime:  answer.ResponseTime,
			ResponseCount: stats.TotalResponses,
			Distribution:  session.ResponseDistribution(answer.QuestionIndex),
		},
	})

	return []Event{{
		Kind: EventAnswerResult,
		Payload: AnswerResultPayload{
			Type:         EventAnswerResult,
			Correct:      answer.IsCorrect,
			PointsEarned: answer.PointsEarned,
			TotalScore:   player.Score,
			ResponseTime: answer.ResponseTime,
			Rank:         player.Rank,
			PreviousRank: player.PreviousRank,
		},
	}}, nil
}
