package types

import (
	"encoding/json"

	"github.com/pocjysweetsGM/block-blast-online/internal/engine"
)

// Server -> client message types.
const (
	MsgWelcome       = "welcome"
	MsgGameState     = "game_state"
	MsgInit          = "init"
	MsgBatchUpdate   = "batch_update"
	MsgGameOver      = "game_over"
	MsgError         = "error"
	MsgRemoteDrag    = "remote_drag"
	MsgRemoteDragEnd = "remote_drag_end"
)

// ClientMessage is the envelope for everything a client sends. Fields beyond
// Type are populated per message type; MaxTurns stays raw because clients
// send it as either a number or a string and a bad value must coerce to
// unlimited rather than fail.
type ClientMessage struct {
	Type     string              `json:"type"`
	MaxTurns json.RawMessage     `json:"max_turns,omitempty"`
	TargetID int                 `json:"target_id,omitempty"`
	Updates  []engine.CellUpdate `json:"updates,omitempty"`
	ShapeIdx int                 `json:"shape_idx,omitempty"`
	Row      int                 `json:"row,omitempty"`
	Col      int                 `json:"col,omitempty"`
}

// Welcome is the private snapshot sent to a player right after admission.
type Welcome struct {
	Type      string       `json:"type"`
	YourID    int          `json:"your_id"`
	YourName  string       `json:"your_name"`
	Board     engine.Board `json:"board"`
	RoomID    string       `json:"room_id"`
	HostID    int          `json:"host_id"`
	IsPlaying bool         `json:"is_playing"`
	Restored  bool         `json:"restored"`
}

// GameState is the shared room snapshot broadcast after every transition.
type GameState struct {
	Type          string             `json:"type"`
	Count         int                `json:"count"`
	Ranking       []engine.RankEntry `json:"ranking"`
	CurrentTurn   int                `json:"current_turn"`
	TurnStartTime float64            `json:"turn_start_time"`
	SkipVotes     []int              `json:"skip_votes"`
	ResetVotes    []int              `json:"reset_votes"`
	HostID        int                `json:"host_id"`
	IsPlaying     bool               `json:"is_playing"`
	RoundInfo     string             `json:"round_info"`
}

// Init carries the fresh board after a reset.
type Init struct {
	Type  string       `json:"type"`
	Board engine.Board `json:"board"`
}

// BatchUpdate carries cell changes, both player-submitted batches echoed
// verbatim and server-generated line clears.
type BatchUpdate struct {
	Type    string              `json:"type"`
	Updates []engine.CellUpdate `json:"updates"`
}

// GameOver ends the game; clients derive the final ranking from the last
// game_state they saw.
type GameOver struct {
	Type    string             `json:"type"`
	Ranking []engine.RankEntry `json:"ranking"`
}

// Error is the terminal notice sent right before a connection is closed.
// The server only emits two: room full (on a rejected join) and kicked;
// joins during a running game are accepted, so there is no in-progress
// rejection.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RemoteDrag relays another player's in-progress placement.
type RemoteDrag struct {
	Type     string `json:"type"`
	PlayerID int    `json:"player_id"`
	ShapeIdx int    `json:"shape_idx"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type RemoteDragEnd struct {
	Type     string `json:"type"`
	PlayerID int    `json:"player_id"`
}
