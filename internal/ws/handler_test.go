package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/typerush/typerush-backend/internal/config"
	"github.com/typerush/typerush-backend/internal/metrics"
	"github.com/typerush/typerush-backend/internal/protocol"
	"github.com/typerush/typerush-backend/internal/registry"
)

func newTestServer(t *testing.T, maxRooms int) (*registry.Registry, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := &config.Config{
		MaxRooms:         maxRooms,
		RoomCodeLength:   6,
		RoomCodeAlphabet: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		DisconnectGrace:  50 * time.Millisecond,
	}
	reg := registry.New(ctx, cfg, metrics.New(), zap.NewNop())
	srv := httptest.NewServer(Handler(reg, metrics.New(), zap.NewNop(), 0))
	t.Cleanup(srv.Close)
	return reg, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", u, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, cm protocol.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(cm)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn) protocol.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg protocol.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return msg
}

func TestHandler_CreateAndJoinRoundTrip(t *testing.T) {
	_, srv := newTestServer(t, 10)

	host := dial(t, srv)
	send(t, host, protocol.ClientMessage{Type: protocol.MsgCreateRoom, PlayerName: "alice"})
	created := recv(t, host)
	if created.Type != protocol.EvtRoomCreated || created.Room == nil {
		t.Fatalf("want roomCreated with snapshot, got %+v", created)
	}

	guest := dial(t, srv)
	send(t, guest, protocol.ClientMessage{Type: protocol.MsgJoinRoom, RoomID: created.Room.RoomID, PlayerName: "bob"})
	joined := recv(t, guest)
	if joined.Type != protocol.EvtRoomJoined || len(joined.Room.Players) != 2 {
		t.Fatalf("want roomJoined with 2 players, got %+v", joined)
	}
}

func TestHandler_JoinUnknownRoom(t *testing.T) {
	_, srv := newTestServer(t, 10)

	conn := dial(t, srv)
	send(t, conn, protocol.ClientMessage{Type: protocol.MsgJoinRoom, RoomID: "NOSUCH", PlayerName: "bob"})
	msg := recv(t, conn)
	if msg.Type != protocol.EvtError || msg.Error.Type != protocol.KindRoomNotFound {
		t.Fatalf("want RoomNotFound, got %+v", msg)
	}
}

func TestHandler_CommandWithoutRoom(t *testing.T) {
	_, srv := newTestServer(t, 10)

	conn := dial(t, srv)
	send(t, conn, protocol.ClientMessage{Type: protocol.MsgStartGame})
	msg := recv(t, conn)
	if msg.Type != protocol.EvtError || msg.Error.Type != protocol.KindPlayerNotInRoom {
		t.Fatalf("want PlayerNotInRoom, got %+v", msg)
	}
}

func TestHandler_RejectedCreateLeavesNoOrphanRoom(t *testing.T) {
	_, srv := newTestServer(t, 1)

	conn := dial(t, srv)

	// empty name: the join is rejected, and the just-created room must be
	// torn down rather than squatting on the 1-room capacity
	send(t, conn, protocol.ClientMessage{Type: protocol.MsgCreateRoom, PlayerName: ""})
	msg := recv(t, conn)
	if msg.Type != protocol.EvtError || msg.Error.Type != protocol.KindInvalidName {
		t.Fatalf("want InvalidName, got %+v", msg)
	}

	// teardown is asynchronous; retry until capacity frees up
	deadline := time.Now().Add(2 * time.Second)
	for {
		send(t, conn, protocol.ClientMessage{Type: protocol.MsgCreateRoom, PlayerName: "alice"})
		msg = recv(t, conn)
		if msg.Type == protocol.EvtRoomCreated {
			return
		}
		if msg.Type == protocol.EvtError && msg.Error.Type == protocol.KindRoomLimit && time.Now().Before(deadline) {
			time.Sleep(25 * time.Millisecond)
			continue
		}
		t.Fatalf("orphan room still holds the capacity: %+v", msg)
	}
}
