package registry

import (
	"context"
	"crypto/rand"
	"math/big"

	"go.uber.org/zap"

	"github.com/typerush/typerush-backend/internal/config"
	"github.com/typerush/typerush-backend/internal/game"
	"github.com/typerush/typerush-backend/internal/metrics"
	"github.com/typerush/typerush-backend/internal/room"
)

type Msg interface{ isRegistryMsg() }

type CreateRoom struct {
	Reply chan CreateResult
}

type CreateResult struct {
	Room *room.Room
	Err  error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct{ Code string }

type ShutdownRegistry struct{}

func (CreateRoom) isRegistryMsg()       {}
func (GetRoom) isRegistryMsg()          {}
func (RemoveRoom) isRegistryMsg()       {}
func (ShutdownRegistry) isRegistryMsg() {}

// Registry owns the set of active rooms. Like the rooms themselves it is an
// actor: the map is only touched on the loop goroutine, so code allocation
// is collision-free without a lock.
type Registry struct {
	inbox   chan Msg
	rooms   map[string]*room.Room
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	r := &Registry{
		inbox:   make(chan Msg, 64),
		rooms:   make(map[string]*room.Room),
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Registry) Inbox() chan<- Msg { return r.inbox }

// Create is a convenience wrapper around the CreateRoom message. It fails
// fast once the registry has shut down instead of waiting on a reply the
// loop will never send.
func (r *Registry) Create() (*room.Room, error) {
	reply := make(chan CreateResult, 1)
	select {
	case r.inbox <- CreateRoom{Reply: reply}:
	case <-r.ctx.Done():
		return nil, game.ErrShutdown
	}
	select {
	case res := <-reply:
		return res.Room, res.Err
	case <-r.ctx.Done():
		select {
		case res := <-reply:
			return res.Room, res.Err
		default:
			return nil, game.ErrShutdown
		}
	}
}

// Get resolves a room by code; nil when absent or after shutdown.
func (r *Registry) Get(code string) *room.Room {
	reply := make(chan *room.Room, 1)
	select {
	case r.inbox <- GetRoom{Code: code, Reply: reply}:
	case <-r.ctx.Done():
		return nil
	}
	select {
	case rm := <-reply:
		return rm
	case <-r.ctx.Done():
		select {
		case rm := <-reply:
			return rm
		default:
			return nil
		}
	}
}

func (r *Registry) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- r.create()

			case GetRoom:
				msg.Reply <- r.rooms[msg.Code] // may be nil

			case RemoveRoom:
				if _, ok := r.rooms[msg.Code]; ok {
					delete(r.rooms, msg.Code)
					r.metrics.DecrRooms()
					r.logger.Info("room removed", zap.String("room", msg.Code))
				}

			case ShutdownRegistry:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Registry) create() CreateResult {
	if len(r.rooms) >= r.cfg.MaxRooms {
		return CreateResult{Err: game.ErrRoomLimit}
	}

	var code string
	for {
		c, err := generateCode(r.cfg.RoomCodeAlphabet, r.cfg.RoomCodeLength)
		if err != nil {
			return CreateResult{Err: err}
		}
		if _, taken := r.rooms[c]; !taken {
			code = c
			break
		}
		r.logger.Warn("room code collision, regenerating", zap.String("code", c))
	}

	onEmpty := func(roomID string) {
		select {
		case r.inbox <- RemoveRoom{Code: roomID}:
		case <-r.ctx.Done():
		}
	}
	rm := room.New(r.ctx, code, onEmpty, r.logger, room.Options{
		DisconnectGrace: r.cfg.DisconnectGrace,
		IdleTimeout:     r.cfg.RoomIdleTimeout,
	})
	r.rooms[code] = rm
	r.metrics.IncrRooms()
	r.logger.Info("room created", zap.String("room", code))
	return CreateResult{Room: rm}
}

func (r *Registry) shutdown() {
	for _, rm := range r.rooms {
		rm.Inbox() <- room.Shutdown{}
	}
	clear(r.rooms)
	r.cancel()
}

func generateCode(alphabet string, length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
