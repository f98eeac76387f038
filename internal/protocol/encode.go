package protocol

import (
	"errors"

	"github.com/typerush/typerush-backend/internal/game"
)

// Error kinds drive client-side branching; the strings are part of the wire
// contract and must stay stable.
const (
	KindRoomNotFound            = "RoomNotFound"
	KindRoomFull                = "RoomFull"
	KindInvalidName             = "InvalidName"
	KindNotHost                 = "NotHost"
	KindInvalidConfigTransition = "InvalidConfigTransition"
	KindInvalidConfigValue      = "InvalidConfigValue"
	KindNoOp                    = "NoOp"
	KindStaleSubmission         = "StaleSubmission"
	KindPlayerNotInRoom         = "PlayerNotInRoom"
	KindRoomLimit               = "RoomLimit"
)

// ErrorKind maps a domain error to its wire kind. Unknown errors degrade to
// NoOp so a client never sees an unlisted kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return KindRoomNotFound
	case errors.Is(err, game.ErrRoomFull):
		return KindRoomFull
	case errors.Is(err, game.ErrInvalidName):
		return KindInvalidName
	case errors.Is(err, game.ErrNotHost):
		return KindNotHost
	case errors.Is(err, game.ErrInvalidConfigTransition):
		return KindInvalidConfigTransition
	case errors.Is(err, game.ErrInvalidConfigValue):
		return KindInvalidConfigValue
	case errors.Is(err, game.ErrPlayerNotInRoom):
		return KindPlayerNotInRoom
	case errors.Is(err, game.ErrRoomLimit):
		return KindRoomLimit
	default:
		return KindNoOp
	}
}

func NewError(err error) ServerMessage {
	return ServerMessage{
		Type:  EvtError,
		Error: &ErrorEvent{Type: ErrorKind(err), Message: err.Error()},
	}
}

func NewRoomCreated(room RoomSnapshot) ServerMessage {
	return ServerMessage{Type: EvtRoomCreated, Room: &room}
}

func NewRoomJoined(room RoomSnapshot) ServerMessage {
	return ServerMessage{Type: EvtRoomJoined, Room: &room}
}

func NewPlayerUpdated(players []PlayerSnapshot) ServerMessage {
	return ServerMessage{Type: EvtPlayerUpdated, Players: players}
}

func NewCaretUpdated(playerID string, caret game.Caret) ServerMessage {
	return ServerMessage{Type: EvtCaretUpdated, PlayerID: playerID, Caret: &caret}
}

func NewConfigChanged(cfg game.Config) ServerMessage {
	return ServerMessage{Type: EvtConfigChanged, Config: &cfg}
}

func NewGameStarted(countdownSec int) ServerMessage {
	return ServerMessage{Type: EvtGameStarted, CountdownSec: countdownSec}
}

func NewGameStopped() ServerMessage {
	return ServerMessage{Type: EvtGameStopped}
}

func NewGameFinished(finalStandings []game.RoundResult) ServerMessage {
	return ServerMessage{Type: EvtGameFinished, Results: finalStandings}
}

func NewLeaderboardUpdated(playerID string, stats game.PlayerStats) ServerMessage {
	return ServerMessage{Type: EvtLeaderboardUpdated, PlayerID: playerID, Stats: &stats}
}

func NewPlayerFinishedRound(result game.RoundResult) ServerMessage {
	return ServerMessage{Type: EvtPlayerFinishedRound, Result: &result}
}

func NewRoundStarted(roundIndex int) ServerMessage {
	return ServerMessage{Type: EvtRoundStarted, RoundIndex: roundIndex}
}

func NewRoundFinished(roundIndex int, ranked []game.RoundResult) ServerMessage {
	return ServerMessage{Type: EvtRoundFinished, RoundIndex: roundIndex, Results: ranked}
}
