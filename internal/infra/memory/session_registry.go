package memory

import (
	"sync"

	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
)

// SessionRegistry is an in-memory implementation of game.SessionRegistry.
// One authoritative session per game code.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*game.Session),
	}
}

func (r *SessionRegistry) GetOrCreate(quiz domain.Quiz) *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[quiz.GameCode]; ok {
		return session
	}
	session := game.NewSession(quiz)
	r.sessions[quiz.GameCode] = session
	return session
}

func (r *SessionRegistry) Get(gameCode string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[gameCode]
	return session, ok
}

func (r *SessionRegistry) Delete(gameCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, gameCode)
}
