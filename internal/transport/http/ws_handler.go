package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
)

// WSHandler upgrades HTTP requests to websockets and wires them into the
// game coordinator. Players and the host connect on separate endpoints and
// subscribe to their session's role channel; inbound messages are decoded
// into the closed per-role command unions before they reach the coordinator.
type WSHandler struct {
	coordinator *game.Coordinator
	upgrader    websocket.Upgrader
}

func NewWSHandler(coordinator *game.Coordinator) *WSHandler {
	return &WSHandler{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type           string  `json:"type"`
	QuestionIndex  int     `json:"question_index"`
	SelectedAnswer string  `json:"selected_answer"`
	ResponseTime   float64 `json:"response_time"`
}

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type joinedPayload struct {
	Type     string        `json:"type"`
	Player   domain.Player `json:"player"`
	GameCode string        `json:"game_code"`
}

// ServePlayer handles GET /ws/play?code=XXXXXX&nickname=NAME.
func (h *WSHandler) ServePlayer(w http.ResponseWriter, r *http.Request) {
	gameCode := r.URL.Query().Get("code")
	nickname := r.URL.Query().Get("nickname")
	if gameCode == "" || nickname == "" {
		http.Error(w, "missing code or nickname", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	player, err := h.coordinator.Join(r.Context(), gameCode, nickname)
	if err != nil {
		_ = conn.WriteJSON(errorResponse(err))
		return
	}
	defer h.coordinator.Disconnect(gameCode, player.ID)

	updates, cancel := h.coordinator.Broadcaster().Subscribe(gameCode, game.RolePlayer)
	defer cancel()

	send := make(chan any, 16)
	send <- joinedPayload{Type: "joined", Player: player, GameCode: gameCode}

	done := h.startWriter(conn, send, updates)
	defer func() { close(send); <-done }()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		cmd, ok := decodePlayerCommand(inbound)
		if !ok {
			send <- errorPayload{Type: "error", Code: "unknown_command", Message: "unsupported message type"}
			continue
		}
		replies, err := h.coordinator.HandlePlayerCommand(r.Context(), gameCode, player.ID, cmd)
		if err != nil {
			send <- errorResponse(err)
			continue
		}
		for _, ev := range replies {
			send <- ev.Payload
		}
	}
}

// ServeHost handles GET /ws/host?code=XXXXXX.
func (h *WSHandler) ServeHost(w http.ResponseWriter, r *http.Request) {
	gameCode := r.URL.Query().Get("code")
	if gameCode == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if _, err := h.coordinator.Session(r.Context(), gameCode); err != nil {
		_ = conn.WriteJSON(errorResponse(err))
		return
	}

	updates, cancel := h.coordinator.Broadcaster().Subscribe(gameCode, game.RoleHost)
	defer cancel()

	send := make(chan any, 16)
	done := h.startWriter(conn, send, updates)
	defer func() { close(send); <-done }()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		cmd, ok := decodeHostCommand(inbound)
		if !ok {
			send <- errorPayload{Type: "error", Code: "unknown_command", Message: "unsupported message type"}
			continue
		}
		replies, err := h.coordinator.HandleHostCommand(r.Context(), gameCode, cmd)
		if err != nil {
			send <- errorResponse(err)
			continue
		}
		for _, ev := range replies {
			send <- ev.Payload
		}
	}
}

// startWriter owns all writes to conn: replies queued on send and broadcast
// events from the role channel are funneled through one goroutine so the
// game's critical section is never behind a socket write.
func (h *WSHandler) startWriter(conn *websocket.Conn, send chan any, updates <-chan game.Event) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			// Drain queued replies before broadcasts: a reply to command N is
			// enqueued before command N+1 is read, so this keeps delivery in
			// command order across both sources.
			select {
			case msg, ok := <-send:
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
				continue
			default:
			}
			select {
			case msg, ok := <-send:
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case ev, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteJSON(ev.Payload); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			}
		}
	}()
	return done
}

func decodePlayerCommand(in inboundMessage) (game.PlayerCommand, bool) {
	switch game.PlayerCommandType(in.Type) {
	case game.PlayerSubmitAnswer:
		return game.PlayerCommand{
			Type:           game.PlayerSubmitAnswer,
			QuestionIndex:  in.QuestionIndex,
			SelectedAnswer: in.SelectedAnswer,
			ResponseTime:   in.ResponseTime,
		}, true
	case game.PlayerRequestLeaderboard, game.PlayerAnnounceJoin, game.PlayerHeartbeat:
		return game.PlayerCommand{Type: game.PlayerCommandType(in.Type)}, true
	default:
		return game.PlayerCommand{}, false
	}
}

func decodeHostCommand(in inboundMessage) (game.HostCommand, bool) {
	switch game.HostCommandType(in.Type) {
	case game.HostStartGame, game.HostNextQuestion, game.HostEndGame,
		game.HostPauseGame, game.HostResumeGame, game.HostRequestStats, game.HostHeartbeat:
		return game.HostCommand{Type: game.HostCommandType(in.Type)}, true
	default:
		return game.HostCommand{}, false
	}
}

// errorResponse maps domain sentinels to structured wire errors. Anything
// unmatched surfaces as a generic server error without internal detail.
func errorResponse(err error) errorPayload {
	code := "internal_error"
	message := "internal server error"
	for sentinel, c := range errorCodes {
		if errors.Is(err, sentinel) {
			code = c
			message = sentinel.Error()
			break
		}
	}
	if code == "internal_error" {
		log.Printf("unexpected error: %v", err)
	}
	return errorPayload{Type: "error", Code: code, Message: message}
}

var errorCodes = map[error]string{
	domain.ErrInvalidTransition:  "invalid_transition",
	domain.ErrDuplicateAnswer:    "duplicate_answer",
	domain.ErrStaleSubmission:    "stale_submission",
	domain.ErrInvalidAnswerLabel: "invalid_answer_label",
	domain.ErrNoQuestions:        "no_questions_available",
	domain.ErrSessionNotFound:    "not_found",
	domain.ErrPlayerNotFound:     "not_found",
	domain.ErrQuizNotFound:       "not_found",
	domain.ErrSessionFull:        "session_full",
	domain.ErrNicknameTaken:      "nickname_taken",
}
