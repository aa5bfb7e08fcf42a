package game

import "sync"

// Broadcaster is the per-session publish/subscribe registry. Each session has
// two role channels (player, host); publishing fans an event out to every
// current subscriber of that (session, role) pair. There is no process-wide
// bus: subscriptions are always scoped to a game code.
type Broadcaster struct {
	mu       sync.RWMutex
	sessions map[string]map[Role]map[chan Event]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{sessions: make(map[string]map[Role]map[chan Event]struct{})}
}

// Subscribe registers a new connection on a session's role channel. The caller
// must invoke the returned cancel function to avoid leaks.
func (b *Broadcaster) Subscribe(gameCode string, role Role) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	roles, ok := b.sessions[gameCode]
	if !ok {
		roles = make(map[Role]map[chan Event]struct{})
		b.sessions[gameCode] = roles
	}
	subs, ok := roles[role]
	if !ok {
		subs = make(map[chan Event]struct{})
		roles[role] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if roles, ok := b.sessions[gameCode]; ok {
			if subs, ok := roles[role]; ok {
				if _, ok := subs[ch]; ok {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(roles, role)
				}
			}
			if len(roles) == 0 {
				delete(b.sessions, gameCode)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans an event out to all subscribers of one role channel. Delivery
// never blocks game-state mutation: a full subscriber buffer drops its oldest
// event to make room, so slow connections only lose intermediate updates.
func (b *Broadcaster) Publish(gameCode string, role Role, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	roles, ok := b.sessions[gameCode]
	if !ok {
		return
	}
	for ch := range roles[role] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// PublishBoth sends the same event to the player and host channels.
func (b *Broadcaster) PublishBoth(gameCode string, ev Event) {
	b.Publish(gameCode, RolePlayer, ev)
	b.Publish(gameCode, RoleHost, ev)
}

// SubscriberCount reports how many connections are on a role channel.
func (b *Broadcaster) SubscriberCount(gameCode string, role Role) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions[gameCode][role])
}
