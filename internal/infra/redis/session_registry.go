package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
)

// SessionRegistry is a Redis-aware implementation of game.SessionRegistry.
// Notes:
//   - Sessions stay in a local in-memory map: the broadcaster and the session
//     critical section are in-process concerns; each session has exactly one
//     authoritative coordinator instance.
//   - Redis marks session liveness so operators (and a future router shard)
//     can see which game codes are live on this instance.
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(quiz.GameCode), "1", r.ttl).Err()
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
	if _, ok := r.sessions[gameCode]; !ok {
		return
	}
	delete(r.sessions, gameCode)
	_ = r.client.Del(context.Background(), r.key(gameCode)).Err()
}

func (r *SessionRegistry) key(gameCode string) string {
	return "quiz:session:" + gameCode
}
