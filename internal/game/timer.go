package game

import "time"

// questionTimer broadcasts a once-per-second countdown for the live question.
// It only reports time; advancing stays a host decision.
type questionTimer struct {
	stop chan struct{}
}

func (c *Coordinator) startQuestionTimer(gameCode string, seconds int) {
	c.stopQuestionTimer(gameCode)
	if seconds <= 0 {
		return
	}

	t := &questionTimer{stop: make(chan struct{})}
	c.timerMu.Lock()
	c.timers[gameCode] = t
	c.timerMu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		remaining := seconds
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				remaining--
				c.broadcaster.PublishBoth(gameCode, Event{
					Kind:    EventTimeUpdate,
					Payload: TimeUpdatePayload{Type: EventTimeUpdate, TimeRemaining: remaining},
				})
				if remaining <= 0 {
					c.clearQuestionTimer(gameCode, t)
					return
				}
			}
		}
	}()
}

func (c *Coordinator) stopQuestionTimer(gameCode string) {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if t, ok := c.timers[gameCode]; ok {
		close(t.stop)
		delete(c.timers, gameCode)
	}
}

// clearQuestionTimer removes a timer that expired on its own, leaving any
// replacement started in the meantime untouched.
func (c *Coordinator) clearQuestionTimer(gameCode string, t *questionTimer) {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()
	if cur, ok := c.timers[gameCode]; ok && cur == t {
		delete(c.timers, gameCode)
	}
}
