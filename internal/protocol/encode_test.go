package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerush/typerush-backend/internal/game"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{game.ErrRoomNotFound, "RoomNotFound"},
		{game.ErrRoomFull, "RoomFull"},
		{game.ErrInvalidName, "InvalidName"},
		{game.ErrNotHost, "NotHost"},
		{game.ErrInvalidConfigTransition, "InvalidConfigTransition"},
		{game.ErrInvalidConfigValue, "InvalidConfigValue"},
		{game.ErrPlayerNotInRoom, "PlayerNotInRoom"},
		{game.ErrRoomLimit, "RoomLimit"},
		{game.ErrNoOp, "NoOp"},
		{errors.New("something else entirely"), "NoOp"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorKind(tc.err), "for %v", tc.err)
	}
}

func TestErrorKindSeesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("%w: waveCount 9 not in [1,5]", game.ErrInvalidConfigValue)
	assert.Equal(t, KindInvalidConfigValue, ErrorKind(err))
}

func TestNewErrorCarriesKindAndMessage(t *testing.T) {
	msg := NewError(game.ErrRoomFull)
	require.NotNil(t, msg.Error)
	assert.Equal(t, EvtError, msg.Type)
	assert.Equal(t, KindRoomFull, msg.Error.Type)
	assert.NotEmpty(t, msg.Error.Message)
}

func TestServerMessageOmitsUnusedFields(t *testing.T) {
	data, err := json.Marshal(NewGameStopped())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"gameStopped"}`, string(data))
}

func TestCaretUpdatedWire(t *testing.T) {
	msg := NewCaretUpdated("p1", game.Caret{CaretIdx: -1, WordIdx: 0})
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	// caretIdx -1 must survive the round trip; it is a meaningful position
	assert.JSONEq(t, `{"type":"caretUpdated","playerId":"p1","caret":{"caretIdx":-1,"wordIdx":0}}`, string(data))
}
