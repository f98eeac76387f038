package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/typerush/typerush-backend/internal/game"
	"github.com/typerush/typerush-backend/internal/protocol"
)

type State int

const (
	StateLobby State = iota
	StateStarting
	StateInRound
	StateBetweenRounds
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateStarting:
		return "starting"
	case StateInRound:
		return "in_round"
	case StateBetweenRounds:
		return "between_rounds"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

const (
	MaxPlayers       = 4
	CountdownSeconds = 3
)

// Options control the room's timing. Zero values fall back to defaults;
// tests shrink them.
type Options struct {
	Countdown       time.Duration
	DisconnectGrace time.Duration
	IdleTimeout     time.Duration // 0 disables idle reaping
}

func (o Options) withDefaults() Options {
	if o.Countdown == 0 {
		o.Countdown = CountdownSeconds * time.Second
	}
	if o.DisconnectGrace == 0 {
		o.DisconnectGrace = 10 * time.Second
	}
	return o
}

type player struct {
	id         string
	name       string
	caret      game.Caret
	connected  bool
	outbox     chan protocol.ServerMessage
	removalGen uint64
}

// Room is the serialized state machine for one match. All mutation happens
// on the loop goroutine; the rest of the process talks to it via Inbox.
type Room struct {
	inbox chan Msg

	id      string
	cfg     game.Config
	state   State
	players []*player

	typeRace *game.TypeRace
	waveRush *game.WaveRush

	// gen invalidates armed game timers whenever the state machine moves.
	gen          uint64
	lastActivity time.Time

	opts    Options
	onEmpty func(roomID string)
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New spawns a room actor. onEmpty is called exactly once, when the roster
// drains or the idle reaper fires; the registry uses it to drop the room.
func New(parent context.Context, id string, onEmpty func(roomID string), logger *zap.Logger, opts Options) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:        make(chan Msg, 64),
		id:           id,
		cfg:          game.DefaultConfig(),
		state:        StateLobby,
		opts:         opts.withDefaults(),
		onEmpty:      onEmpty,
		logger:       logger.With(zap.String("room", id)),
		lastActivity: time.Now(),
		ctx:          ctx,
		cancel:       cancel,
	}
	if r.opts.IdleTimeout > 0 {
		r.after(r.opts.IdleTimeout, idleCheck{})
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }
func (r *Room) ID() string        { return r.id }

// Join adds or re-attaches a player, failing fast when the room is already
// gone. A raw Join message cannot do that: a send into the buffered inbox
// still succeeds after shutdown, with nobody left to reply.
func (r *Room) Join(playerID, playerName string, outbox chan protocol.ServerMessage) (protocol.RoomSnapshot, error) {
	reply := make(chan JoinResult, 1)
	select {
	case r.inbox <- Join{PlayerID: playerID, PlayerName: playerName, Outbox: outbox, Reply: reply}:
	case <-r.ctx.Done():
		return protocol.RoomSnapshot{}, game.ErrRoomNotFound
	}
	select {
	case res := <-reply:
		return res.Snapshot, res.Err
	case <-r.ctx.Done():
		// the loop may have replied just before shutting down
		select {
		case res := <-reply:
			return res.Snapshot, res.Err
		default:
			return protocol.RoomSnapshot{}, game.ErrRoomNotFound
		}
	}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.touch()
				r.handleJoin(msg)
			case Leave:
				r.touch()
				if r.handleLeave(msg.PlayerID) {
					return
				}
			case Disconnect:
				if r.handleDisconnect(msg) {
					return
				}
			case ConfigChange:
				r.touch()
				r.handleConfigChange(msg)
			case StartGame:
				r.touch()
				r.handleStartGame(msg)
			case StopGame:
				r.touch()
				r.handleStopGame(msg)
			case UpdateCaret:
				r.touch()
				r.handleUpdateCaret(msg)
			case FinishRace:
				r.touch()
				r.handleFinishRace(msg)
			case FinishRound:
				r.touch()
				r.handleFinishRound(msg)
			case timerFired:
				r.handleTimer(msg)
			case removalDue:
				if r.handleRemovalDue(msg) {
					return
				}
			case idleCheck:
				if r.handleIdleCheck() {
					return
				}
			case GetState:
				msg.Reply <- r.view()
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) touch() { r.lastActivity = time.Now() }

// after arms a timer that posts back into the inbox. The send races with
// shutdown, so it also selects on ctx.
func (r *Room) after(d time.Duration, m Msg) {
	time.AfterFunc(d, func() {
		select {
		case r.inbox <- m:
		case <-r.ctx.Done():
		}
	})
}

// membership

func (r *Room) find(id string) *player {
	for _, p := range r.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

// hostID is the earliest-joined connected player. Disconnecting hands the
// host role to the next joiner; reconnecting within grace takes it back.
func (r *Room) hostID() string {
	for _, p := range r.players {
		if p.connected {
			return p.id
		}
	}
	return ""
}

func (r *Room) connectedIDs() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.connected {
			ids = append(ids, p.id)
		}
	}
	return ids
}

func (r *Room) handleJoin(msg Join) {
	if msg.PlayerName == "" {
		msg.Reply <- JoinResult{Err: game.ErrInvalidName}
		return
	}

	if p := r.find(msg.PlayerID); p != nil {
		// Reconnection: re-attach the new transport. If an old outbox is
		// still around (duplicate tab, zombie connection), close it so its
		// writer exits.
		if p.outbox != nil {
			close(p.outbox)
		}
		p.outbox = msg.Outbox
		p.connected = true
		p.removalGen++
		msg.Reply <- JoinResult{Snapshot: r.snapshot()}
		r.broadcast(protocol.NewPlayerUpdated(r.playerSnapshots()), msg.PlayerID)
		return
	}

	if len(r.players) >= MaxPlayers {
		msg.Reply <- JoinResult{Err: game.ErrRoomFull}
		return
	}

	r.players = append(r.players, &player{
		id:        msg.PlayerID,
		name:      msg.PlayerName,
		caret:     game.ResetCaret,
		connected: true,
		outbox:    msg.Outbox,
	})
	msg.Reply <- JoinResult{Snapshot: r.snapshot()}
	r.broadcast(protocol.NewPlayerUpdated(r.playerSnapshots()), msg.PlayerID)
}

// handleLeave removes a player immediately. Returns true when the room
// destroyed itself.
func (r *Room) handleLeave(id string) bool {
	p := r.find(id)
	if p == nil {
		return false
	}
	if p.outbox != nil {
		close(p.outbox)
		p.outbox = nil
	}
	return r.removePlayer(id)
}

func (r *Room) handleDisconnect(msg Disconnect) bool {
	id := msg.PlayerID
	p := r.find(id)
	if p == nil || !p.connected {
		return false
	}
	if msg.Outbox != nil && p.outbox != msg.Outbox {
		return false // a newer connection took over this player
	}
	p.connected = false
	if p.outbox != nil {
		close(p.outbox)
		p.outbox = nil
	}
	p.removalGen++
	r.after(r.opts.DisconnectGrace, removalDue{playerID: id, gen: p.removalGen})
	r.logger.Info("player disconnected, grace window started", zap.String("player", id))

	r.broadcast(protocol.NewPlayerUpdated(r.playerSnapshots()), "")

	// A departed player must not hold the round open.
	r.checkEarlyCompletion()
	return false
}

func (r *Room) handleRemovalDue(msg removalDue) bool {
	p := r.find(msg.playerID)
	if p == nil || p.connected || p.removalGen != msg.gen {
		return false // reconnected, already gone, or superseded
	}
	r.logger.Info("grace window expired, removing player", zap.String("player", msg.playerID))
	return r.removePlayer(msg.playerID)
}

// removePlayer drops a roster entry and destroys the room when it was the
// last one. Returns true when the room destroyed itself.
func (r *Room) removePlayer(id string) bool {
	for i, p := range r.players {
		if p.id == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	if len(r.players) == 0 {
		r.logger.Info("room empty, destroying")
		r.shutdown()
		return true
	}
	r.broadcast(protocol.NewPlayerUpdated(r.playerSnapshots()), "")
	r.checkEarlyCompletion()
	return false
}

func (r *Room) handleIdleCheck() bool {
	idle := time.Since(r.lastActivity)
	if r.state == StateLobby && idle >= r.opts.IdleTimeout {
		r.logger.Info("room idle, destroying", zap.Duration("idle", idle))
		r.shutdown()
		return true
	}
	r.after(r.opts.IdleTimeout, idleCheck{})
	return false
}

// config / lifecycle commands

func (r *Room) requireHost(id string) bool {
	if r.hostID() != id {
		r.sendError(id, game.ErrNotHost)
		return false
	}
	return true
}

func (r *Room) handleConfigChange(msg ConfigChange) {
	if !r.requireHost(msg.PlayerID) {
		return
	}
	if r.state != StateLobby {
		r.sendError(msg.PlayerID, game.ErrInvalidConfigTransition)
		return
	}
	cfg := msg.Config
	if err := cfg.Validate(); err != nil {
		r.sendError(msg.PlayerID, err)
		return
	}
	r.cfg = cfg
	r.broadcast(protocol.NewConfigChanged(r.cfg), "")
}

func (r *Room) handleStartGame(msg StartGame) {
	if !r.requireHost(msg.PlayerID) {
		return
	}
	if r.state != StateLobby {
		r.sendError(msg.PlayerID, game.ErrNoOp)
		return
	}

	r.typeRace = nil
	r.waveRush = nil
	switch r.cfg.Mode {
	case game.ModeWaveRush:
		r.waveRush = game.NewWaveRush(r.cfg.WaveCount)
	default:
		r.typeRace = game.NewTypeRace()
	}
	for _, p := range r.players {
		p.caret = game.ResetCaret
	}

	r.transition(StateStarting)
	r.broadcast(protocol.NewGameStarted(CountdownSeconds), "")
	r.after(r.opts.Countdown, timerFired{gen: r.gen, kind: timerCountdown})
}

func (r *Room) handleStopGame(msg StopGame) {
	if !r.requireHost(msg.PlayerID) {
		return
	}
	if r.state == StateLobby {
		r.sendError(msg.PlayerID, game.ErrNoOp)
		return
	}
	r.resetToLobby()
	r.broadcast(protocol.NewGameStopped(), "")
}

// resetToLobby clears all transient game state. Bumping gen strands every
// armed countdown/round/transition timer.
func (r *Room) resetToLobby() {
	r.typeRace = nil
	r.waveRush = nil
	for _, p := range r.players {
		p.caret = game.ResetCaret
	}
	r.transition(StateLobby)
}

// gameplay commands

func (r *Room) handleUpdateCaret(msg UpdateCaret) {
	if r.state != StateInRound || !msg.Caret.Valid() {
		return
	}
	p := r.find(msg.PlayerID)
	if p == nil {
		return
	}
	p.caret = msg.Caret
	// Not echoed back to the sender.
	r.broadcast(protocol.NewCaretUpdated(msg.PlayerID, msg.Caret), msg.PlayerID)
}

func (r *Room) handleFinishRace(msg FinishRace) {
	if r.typeRace == nil || r.state != StateInRound {
		r.sendError(msg.PlayerID, game.ErrNoOp)
		return
	}
	if r.find(msg.PlayerID) == nil {
		return
	}
	if !msg.Stats.Valid() {
		r.sendError(msg.PlayerID, game.ErrNoOp)
		return
	}
	if !r.typeRace.RecordFinish(msg.PlayerID, msg.Stats) {
		return // duplicate finish, idempotent
	}
	r.broadcast(protocol.NewLeaderboardUpdated(msg.PlayerID, msg.Stats), "")

	if r.typeRace.AllFinished(r.connectedIDs()) {
		r.transition(StateFinished)
		r.broadcast(protocol.NewGameFinished(nil), "")
	}
}

func (r *Room) handleFinishRound(msg FinishRound) {
	if r.waveRush == nil || r.state != StateInRound || r.find(msg.PlayerID) == nil {
		return // stale or misdirected, dropped silently
	}
	if !r.waveRush.SubmitResult(msg.PlayerID, msg.Result, msg.Round) {
		return // wrong round or duplicate, dropped silently
	}
	result := msg.Result
	result.PlayerID = msg.PlayerID
	r.broadcast(protocol.NewPlayerFinishedRound(result), "")

	if r.waveRush.AllSubmitted(r.connectedIDs()) {
		r.endRound()
	}
}

// checkEarlyCompletion re-evaluates "everyone done" after roster shrink.
func (r *Room) checkEarlyCompletion() {
	if r.state != StateInRound {
		return
	}
	connected := r.connectedIDs()
	switch {
	case r.waveRush != nil && r.waveRush.AllSubmitted(connected):
		r.endRound()
	case r.typeRace != nil && r.typeRace.AllFinished(connected):
		r.transition(StateFinished)
		r.broadcast(protocol.NewGameFinished(nil), "")
	}
}

// timers

func (r *Room) handleTimer(msg timerFired) {
	if msg.gen != r.gen {
		r.logger.Debug("stale timer dropped",
			zap.Uint64("fired_gen", msg.gen), zap.Uint64("gen", r.gen))
		return
	}
	switch msg.kind {
	case timerCountdown:
		if r.state != StateStarting {
			return
		}
		r.beginRound()
	case timerRound:
		if r.state != StateInRound || r.waveRush == nil {
			return
		}
		r.endRound()
	case timerBetween:
		if r.state != StateBetweenRounds || r.waveRush == nil {
			return
		}
		r.nextRoundOrFinish()
	}
}

// beginRound moves Starting/BetweenRounds -> InRound and arms the round
// duration backstop for timed wave-rush rounds.
func (r *Room) beginRound() {
	r.transition(StateInRound)
	if r.waveRush == nil {
		return
	}
	r.broadcast(protocol.NewRoundStarted(r.waveRush.CurrentRound()), "")
	if r.cfg.RoundDuration > 0 {
		r.after(time.Duration(r.cfg.RoundDuration)*time.Second, timerFired{gen: r.gen, kind: timerRound})
	}
}

func (r *Room) endRound() {
	round := r.waveRush.CurrentRound()
	ranked := r.waveRush.RoundLeaderboard()
	r.transition(StateBetweenRounds)
	r.broadcast(protocol.NewRoundFinished(round, ranked), "")
	r.after(time.Duration(r.cfg.TimeBetweenRounds)*time.Second, timerFired{gen: r.gen, kind: timerBetween})
}

func (r *Room) nextRoundOrFinish() {
	if r.waveRush.LastRound() {
		r.transition(StateFinished)
		r.broadcast(protocol.NewGameFinished(r.waveRush.FinalStandings()), "")
		return
	}
	r.waveRush.AdvanceRound()
	r.beginRound()
}

func (r *Room) transition(next State) {
	r.logger.Debug("state transition",
		zap.Stringer("from", r.state), zap.Stringer("to", next))
	r.state = next
	r.gen++
}

// delivery

// broadcast fans a message out to every connected member except excludeID.
// Sends never block the actor: a member whose outbox is full is treated
// like a transport drop.
func (r *Room) broadcast(msg protocol.ServerMessage, excludeID string) {
	var dropped []string
	for _, p := range r.players {
		if !p.connected || p.id == excludeID {
			continue
		}
		select {
		case p.outbox <- msg:
		default:
			dropped = append(dropped, p.id)
		}
	}
	for _, id := range dropped {
		r.dropSlow(id)
	}
}

func (r *Room) dropSlow(id string) {
	p := r.find(id)
	if p == nil || !p.connected {
		return
	}
	r.logger.Warn("dropping slow client", zap.String("player", id))
	p.connected = false
	if p.outbox != nil {
		close(p.outbox)
		p.outbox = nil
	}
	p.removalGen++
	r.after(r.opts.DisconnectGrace, removalDue{playerID: id, gen: p.removalGen})

	// A drop is a disconnect: peers learn immediately and the round must
	// not wait on the dropped player.
	r.broadcast(protocol.NewPlayerUpdated(r.playerSnapshots()), "")
	r.checkEarlyCompletion()
}

func (r *Room) sendTo(id string, msg protocol.ServerMessage) {
	p := r.find(id)
	if p == nil || !p.connected || p.outbox == nil {
		return
	}
	select {
	case p.outbox <- msg:
	default:
		r.dropSlow(id)
	}
}

func (r *Room) sendError(id string, err error) {
	r.sendTo(id, protocol.NewError(err))
}

// snapshots

func (r *Room) playerSnapshots() []protocol.PlayerSnapshot {
	host := r.hostID()
	out := make([]protocol.PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, protocol.PlayerSnapshot{
			ID:         p.id,
			PlayerName: p.name,
			IsHost:     p.id == host,
			Connected:  p.connected,
			Progress:   protocol.Progress{Caret: p.caret},
		})
	}
	return out
}

func (r *Room) snapshot() protocol.RoomSnapshot {
	snap := protocol.RoomSnapshot{
		RoomID:      r.id,
		Players:     r.playerSnapshots(),
		Config:      r.cfg,
		Leaderboard: []game.LeaderboardEntry{},
	}
	if r.typeRace != nil {
		snap.Leaderboard = r.typeRace.Leaderboard()
	}
	return snap
}

func (r *Room) view() View {
	v := View{
		State:        r.state,
		NumPlayers:   len(r.players),
		NumConnected: len(r.connectedIDs()),
		HostID:       r.hostID(),
		Config:       r.cfg,
	}
	if r.waveRush != nil {
		v.CurrentRound = r.waveRush.CurrentRound()
	}
	if r.typeRace != nil {
		v.Leaderboard = r.typeRace.Leaderboard()
	}
	return v
}

func (r *Room) shutdown() {
	for _, p := range r.players {
		if p.outbox != nil {
			close(p.outbox)
			p.outbox = nil
		}
		p.connected = false
	}
	r.players = nil
	r.gen++
	if r.onEmpty != nil {
		r.onEmpty(r.id)
		r.onEmpty = nil
	}
	r.cancel()
}
