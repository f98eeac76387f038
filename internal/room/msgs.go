package room

import (
	"github.com/typerush/typerush-backend/internal/game"
	"github.com/typerush/typerush-backend/internal/protocol"
)

type Msg interface{ isRoomMsg() }

// Join adds a player, or re-attaches one whose id is already on the roster
// (reconnection within the grace window).
type Join struct {
	PlayerID   string
	PlayerName string
	Outbox     chan protocol.ServerMessage
	Reply      chan JoinResult
}

type JoinResult struct {
	Snapshot protocol.RoomSnapshot
	Err      error
}

// Leave removes a player immediately (explicit exit).
type Leave struct{ PlayerID string }

// Disconnect marks a player's transport as dropped; removal happens after
// the grace window unless the player rejoins. Outbox identifies the
// reporting connection so a drop raced by a reconnection is ignored.
type Disconnect struct {
	PlayerID string
	Outbox   chan protocol.ServerMessage
}

type ConfigChange struct {
	PlayerID string
	Config   game.Config
}

type StartGame struct{ PlayerID string }

type StopGame struct{ PlayerID string }

type UpdateCaret struct {
	PlayerID string
	Caret    game.Caret
}

// FinishRace reports a player completing a type-race.
type FinishRace struct {
	PlayerID string
	Stats    game.PlayerStats
}

// FinishRound reports a player completing one wave-rush round.
type FinishRound struct {
	PlayerID string
	Result   game.RoundResult
	Round    int
}

// GetState reflects internal state without data races. Test-only.
type GetState struct{ Reply chan View }

type View struct {
	State        State
	NumPlayers   int
	NumConnected int
	HostID       string
	Config       game.Config
	CurrentRound int
	Leaderboard  []game.LeaderboardEntry
}

type Shutdown struct{}

// Internal timer messages. gen guards against stale fires: a timer armed
// before a state transition must be a no-op after it.
type timerFired struct {
	gen  uint64
	kind timerKind
}

type removalDue struct {
	playerID string
	gen      uint64
}

type idleCheck struct{}

type timerKind int

const (
	timerCountdown timerKind = iota
	timerRound
	timerBetween
)

func (Join) isRoomMsg()         {}
func (Leave) isRoomMsg()        {}
func (Disconnect) isRoomMsg()   {}
func (ConfigChange) isRoomMsg() {}
func (StartGame) isRoomMsg()    {}
func (StopGame) isRoomMsg()     {}
func (UpdateCaret) isRoomMsg()  {}
func (FinishRace) isRoomMsg()   {}
func (FinishRound) isRoomMsg()  {}
func (GetState) isRoomMsg()     {}
func (Shutdown) isRoomMsg()     {}
func (timerFired) isRoomMsg()   {}
func (removalDue) isRoomMsg()   {}
func (idleCheck) isRoomMsg()    {}
