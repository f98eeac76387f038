package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/typerush/typerush-backend/internal/game"
	"github.com/typerush/typerush-backend/internal/metrics"
	"github.com/typerush/typerush-backend/internal/protocol"
	"github.com/typerush/typerush-backend/internal/registry"
	"github.com/typerush/typerush-backend/internal/room"
)

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 32
)

// session is the per-connection state: who this connection speaks for and
// which room it is attached to.
type session struct {
	playerID string
	room     *room.Room
	outbox   chan protocol.ServerMessage
}

// Handler accepts websocket connections, maps each to a session playerId,
// and routes messages between the client and its room. Clients reconnect
// into a room within the disconnect grace window by passing the same
// playerId back as a query parameter.
func Handler(reg *registry.Registry, m *metrics.Metrics, logger *zap.Logger, readLimit int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		if readLimit > 0 {
			conn.SetReadLimit(readLimit)
		}

		m.IncrWSConn()
		defer m.DecrWSConn()

		sess := &session{playerID: r.URL.Query().Get("playerId")}
		if sess.playerID == "" {
			sess.playerID = uuid.NewString()
		}
		log := logger.With(zap.String("player", sess.playerID))

		defer func() {
			if sess.room != nil {
				sess.room.Inbox() <- room.Disconnect{PlayerID: sess.playerID, Outbox: sess.outbox}
			}
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
			m.IncrMessageIn()

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeMsg(writeCtx, conn, protocol.NewError(game.ErrNoOp))
				continue
			}

			handleMessage(writeCtx, conn, reg, sess, cm, log)
		}
	}
}

func handleMessage(ctx context.Context, conn *websocket.Conn, reg *registry.Registry, sess *session, cm protocol.ClientMessage, log *zap.Logger) {
	switch cm.Type {
	case protocol.MsgCreateRoom:
		rm, err := reg.Create()
		if err != nil {
			writeMsg(ctx, conn, protocol.NewError(err))
			return
		}
		if !joinRoom(ctx, conn, sess, rm, cm.PlayerName, protocol.EvtRoomCreated) {
			// a room whose creator never made it in must not linger
			rm.Inbox() <- room.Shutdown{}
		}

	case protocol.MsgJoinRoom:
		rm := reg.Get(cm.RoomID)
		if rm == nil {
			writeMsg(ctx, conn, protocol.NewError(game.ErrRoomNotFound))
			return
		}
		joinRoom(ctx, conn, sess, rm, cm.PlayerName, protocol.EvtRoomJoined)

	case protocol.MsgStartGame:
		if !requireRoom(ctx, conn, sess) {
			return
		}
		sess.room.Inbox() <- room.StartGame{PlayerID: sess.playerID}

	case protocol.MsgStopGame:
		if !requireRoom(ctx, conn, sess) {
			return
		}
		sess.room.Inbox() <- room.StopGame{PlayerID: sess.playerID}

	case protocol.MsgConfigChange:
		if !requireRoom(ctx, conn, sess) {
			return
		}
		if cm.Config == nil {
			writeMsg(ctx, conn, protocol.NewError(game.ErrInvalidConfigValue))
			return
		}
		sess.room.Inbox() <- room.ConfigChange{PlayerID: sess.playerID, Config: *cm.Config}

	case protocol.MsgUpdateCaret:
		if sess.room == nil {
			return // high-frequency, not worth an error round-trip
		}
		sess.room.Inbox() <- room.UpdateCaret{
			PlayerID: sess.playerID,
			Caret:    game.Caret{CaretIdx: cm.CaretIdx, WordIdx: cm.WordIdx},
		}

	case protocol.MsgPlayerFinished:
		if !requireRoom(ctx, conn, sess) {
			return
		}
		if cm.Stats == nil {
			return
		}
		sess.room.Inbox() <- room.FinishRace{PlayerID: sess.playerID, Stats: *cm.Stats}

	case protocol.MsgPlayerFinishRound:
		if !requireRoom(ctx, conn, sess) {
			return
		}
		if cm.Results == nil {
			return
		}
		sess.room.Inbox() <- room.FinishRound{
			PlayerID: sess.playerID,
			Result:   *cm.Results,
			Round:    cm.CurrentRound,
		}

	default:
		log.Debug("unknown message type", zap.String("type", cm.Type))
		writeMsg(ctx, conn, protocol.NewError(game.ErrNoOp))
	}
}

// joinRoom attaches the session to a room and replies with the snapshot
// event (roomCreated or roomJoined). A session belongs to at most one room.
// Reports whether the session is now attached.
func joinRoom(ctx context.Context, conn *websocket.Conn, sess *session, rm *room.Room, name, evt string) bool {
	if sess.room != nil {
		writeMsg(ctx, conn, protocol.NewError(game.ErrNoOp))
		return false
	}

	outbox := make(chan protocol.ServerMessage, outboxSize)
	snapshot, err := rm.Join(sess.playerID, name, outbox)
	if err != nil {
		writeMsg(ctx, conn, protocol.NewError(err))
		return false
	}

	sess.room = rm
	sess.outbox = outbox
	go writePump(ctx, conn, outbox)

	writeMsg(ctx, conn, protocol.ServerMessage{Type: evt, Room: &snapshot, PlayerID: sess.playerID})
	return true
}

// writePump drains the room outbox onto the wire. The room closes the
// outbox when the player is dropped or the room dies; closing the
// connection then unblocks the reader loop too.
func writePump(ctx context.Context, conn *websocket.Conn, outbox <-chan protocol.ServerMessage) {
	for msg := range outbox {
		writeMsg(ctx, conn, msg)
	}
	conn.Close(websocket.StatusNormalClosure, "room closed")
}

func writeMsg(ctx context.Context, conn *websocket.Conn, msg protocol.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func requireRoom(ctx context.Context, conn *websocket.Conn, sess *session) bool {
	if sess.room == nil {
		writeMsg(ctx, conn, protocol.NewError(game.ErrPlayerNotInRoom))
		return false
	}
	return true
}
