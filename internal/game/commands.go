package game

// Command unions are closed per role: the transport decodes an inbound JSON
// message into exactly one of these once, and the coordinator matches on the
// type tag exhaustively. Unknown tags never reach the coordinator.

// HostCommandType tags host-channel commands.
type HostCommandType string

const (
	HostStartGame    HostCommandType = "start_game"
	HostNextQuestion HostCommandType = "next_question"
	HostEndGame      HostCommandType = "end_game"
	HostPauseGame    HostCommandType = "pause_game"
	HostResumeGame   HostCommandType = "resume_game"
	HostRequestStats HostCommandType = "request_stats"
	HostHeartbeat    HostCommandType = "heartbeat"
)

// HostCommand is one decoded host action. Host commands carry no payload.
type HostCommand struct {
	Type HostCommandType
}

// PlayerCommandType tags player-channel commands.
type PlayerCommandType string

const (
	PlayerSubmitAnswer       PlayerCommandType = "submit_answer"
	PlayerRequestLeaderboard PlayerCommandType = "request_leaderboard"
	PlayerAnnounceJoin       PlayerCommandType = "player_joined"
	PlayerHeartbeat          PlayerCommandType = "heartbeat"
)

// PlayerCommand is one decoded player action.
type PlayerCommand struct {
	Type           PlayerCommandType
	QuestionIndex  int
	SelectedAnswer string
	ResponseTime   float64 // seconds since question start
}
