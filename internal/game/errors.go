package game

import "errors"

var ErrRoomNotFound = errors.New("room not found")
var ErrRoomFull = errors.New("room is full")
var ErrInvalidName = errors.New("invalid player name")
var ErrNotHost = errors.New("only the host may do that")
var ErrInvalidConfigTransition = errors.New("config can only change in the lobby")
var ErrInvalidConfigValue = errors.New("invalid config value")
var ErrNoOp = errors.New("nothing to do")
var ErrPlayerNotInRoom = errors.New("player is not in a room")
var ErrRoomLimit = errors.New("room limit reached")
var ErrShutdown = errors.New("shutting down")
