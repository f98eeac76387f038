package protocol

import "github.com/typerush/typerush-backend/internal/game"

// Client -> Server message types.
const (
	MsgCreateRoom        = "createRoom"
	MsgJoinRoom          = "joinRoom"
	MsgStartGame         = "startGame"
	MsgStopGame          = "stopGame"
	MsgConfigChange      = "configChange"
	MsgUpdateCaret       = "updateCaret"
	MsgPlayerFinished    = "playerFinished"
	MsgPlayerFinishRound = "playerFinishRound"
)

// Server -> Client message types.
const (
	EvtRoomCreated         = "roomCreated"
	EvtRoomJoined          = "roomJoined"
	EvtError               = "errorEvent"
	EvtPlayerUpdated       = "playerUpdated"
	EvtCaretUpdated        = "caretUpdated"
	EvtConfigChanged       = "configChanged"
	EvtGameStarted         = "gameStarted"
	EvtGameStopped         = "gameStopped"
	EvtGameFinished        = "gameFinished"
	EvtLeaderboardUpdated  = "leaderboardUpdated"
	EvtPlayerFinishedRound = "playerFinishedRound"
	EvtRoundStarted        = "roundStarted"
	EvtRoundFinished       = "roundFinished"
)

// ClientMessage is the envelope for everything a client sends. Fields are
// populated per message type; unused ones stay at their zero value.
type ClientMessage struct {
	Type         string            `json:"type"`
	PlayerName   string            `json:"playerName,omitempty"`
	RoomID       string            `json:"roomId,omitempty"`
	Config       *game.Config      `json:"config,omitempty"`
	CaretIdx     int               `json:"caretIdx"`
	WordIdx      int               `json:"wordIdx"`
	Stats        *game.PlayerStats `json:"stats,omitempty"`
	Results      *game.RoundResult `json:"results,omitempty"`
	CurrentRound int               `json:"currentRound"`
}

// PlayerSnapshot is the roster view of one player.
type PlayerSnapshot struct {
	ID         string   `json:"id"`
	PlayerName string   `json:"playerName"`
	IsHost     bool     `json:"isHost"`
	Connected  bool     `json:"connected"`
	Progress   Progress `json:"progress"`
}

type Progress struct {
	Caret game.Caret `json:"caret"`
}

// RoomSnapshot is the full room view sent on create/join.
type RoomSnapshot struct {
	RoomID      string                  `json:"roomId"`
	Players     []PlayerSnapshot        `json:"players"`
	Config      game.Config             `json:"config"`
	Leaderboard []game.LeaderboardEntry `json:"leaderboard"`
}

// ErrorEvent is delivered to the originating client only, never broadcast.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type string `json:"type"`

	Room     *RoomSnapshot    `json:"room,omitempty"`
	Players  []PlayerSnapshot `json:"players,omitempty"`
	PlayerID string           `json:"playerId,omitempty"`
	Caret    *game.Caret      `json:"caret,omitempty"`
	Config   *game.Config     `json:"config,omitempty"`
	Error    *ErrorEvent      `json:"error,omitempty"`

	// gameStarted
	CountdownSec int `json:"countdownSec,omitempty"`

	// leaderboardUpdated
	Stats *game.PlayerStats `json:"stats,omitempty"`

	// playerFinishedRound
	Result *game.RoundResult `json:"result,omitempty"`

	// roundStarted / roundFinished / gameFinished
	RoundIndex int                `json:"roundIndex,omitempty"`
	Results    []game.RoundResult `json:"results,omitempty"`
}
