package lobby

import (
	"context"
	"math/rand"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isLobbyMsg() {}

// Join seats a new player. Outbox receives every event addressed to them from
// then on; Reply (buffered) gets the assigned player id or the rejection.
type Join struct {
	Name   string
	Create bool
	Outbox chan engine.Event
	Reply  chan JoinResult
}

func (Join) isLobbyMsg() {}

type JoinResult struct {
	PlayerID string
	Err      error
}

type Leave struct{ PlayerID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type idleExpired struct{}

func (idleExpired) isLobbyMsg() {}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Sink receives a copy of every lobby-wide event.
type Sink interface {
	Publish(code string, ev engine.Event)
}

// Recorder receives finished rounds. Record must not block.
type Recorder interface {
	Record(r store.Round)
}

// Options configure a lobby. Game rules travel inside the initial state.
type Options struct {
	// IdleTimeout destroys a lobby nobody has joined yet. Zero disables it.
	IdleTimeout time.Duration
	Logger      *zap.Logger
	Rand        *rand.Rand
	Clock       func() time.Time
	Sink        Sink
	Recorder    Recorder
	// OnEmpty runs on the lobby goroutine right before it stops because its
	// last player left or it idled out.
	OnEmpty func(l *Lobby)
}

type Lobby struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients *outboxes
	opts    Options
	log     *zap.Logger
	idle    *time.Timer
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, initial engine.State, opts Options) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := opts.Logger.With(zap.String("lobby", initial.Code))

	l := &Lobby{
		code:    initial.Code,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		clients: newOutboxes(log),
		opts:    opts,
		log:     log,
		stopped: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	if opts.IdleTimeout > 0 && len(initial.Players) == 0 {
		l.idle = time.AfterFunc(opts.IdleTimeout, func() { l.submit(idleExpired{}) })
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.stopped)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.join(msg)

			case FromClient:
				l.apply(msg.Cmd)

			case Leave:
				l.apply(engine.Command{Type: engine.CmdLeave, PlayerID: msg.PlayerID})
				l.clients.remove(msg.PlayerID)
				if len(l.state.Players) == 0 {
					l.destroy("last player left")
					return
				}

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    l.version,
					NumClients: l.clients.len(),
					State:      l.state.Clone(),
				}

			case idleExpired:
				if len(l.state.Players) == 0 {
					l.destroy("idle")
					return
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) join(msg Join) {
	id := uuid.NewString()
	cmd := engine.Command{Type: engine.CmdJoin, PlayerID: id, Name: msg.Name, Create: msg.Create}

	events, next, err := engine.Apply(l.state, cmd, l.opts.Clock(), l.opts.Rand)
	if err != nil {
		l.log.Debug("join rejected", zap.String("name", msg.Name), zap.Error(err))
		select {
		case msg.Outbox <- engine.Event{Type: engine.EvtJoinFailed, Text: err.Error()}:
		default:
		}
		msg.Reply <- JoinResult{Err: err}
		return
	}

	l.clients.add(id, msg.Outbox)
	l.log.Info("player joined", zap.String("player", id), zap.String("name", msg.Name))
	l.commit(next, events)
	msg.Reply <- JoinResult{PlayerID: id}
}

// apply runs one command to completion. A rejected command leaves the state
// alone and produces exactly one error-msg for its sender.
func (l *Lobby) apply(cmd engine.Command) {
	events, next, err := engine.Apply(l.state, cmd, l.opts.Clock(), l.opts.Rand)
	if err != nil {
		l.log.Debug("command rejected",
			zap.String("player", cmd.PlayerID),
			zap.String("cmd", string(cmd.Type)),
			zap.Error(err))
		l.clients.Send(cmd.PlayerID, engine.Event{Type: engine.EvtErrorMsg, To: cmd.PlayerID, Text: err.Error()})
		return
	}
	l.commit(next, events)
}

func (l *Lobby) commit(next engine.State, events []engine.Event) {
	prev := l.state
	l.state = next
	l.version++

	for _, ev := range events {
		l.emit(ev)
		if ev.Type == engine.EvtGameOver {
			l.recordRound(prev, ev)
		}
	}

	snap := l.state.Snapshot()
	l.emit(engine.Event{Type: engine.EvtState, State: &snap})
}

func (l *Lobby) emit(ev engine.Event) {
	if ev.To != "" {
		l.clients.Send(ev.To, ev)
		return
	}
	l.clients.Broadcast(ev)
	if l.opts.Sink != nil {
		l.opts.Sink.Publish(l.code, ev)
	}
	if ev.Type != engine.EvtState {
		l.log.Info("game event",
			zap.String("event", string(ev.Type)),
			zap.String("player", ev.PlayerID),
			zap.Int("won", ev.WonCount))
	}
}

func (l *Lobby) recordRound(prev engine.State, over engine.Event) {
	if l.opts.Recorder == nil {
		return
	}
	l.opts.Recorder.Record(store.Round{
		LobbyCode:  l.code,
		WinnerID:   over.PlayerID,
		WinnerName: over.Name,
		Players:    len(prev.Players),
		StartedAt:  l.state.StartedAt,
		EndedAt:    l.opts.Clock(),
	})
}

func (l *Lobby) destroy(reason string) {
	l.log.Info("lobby closed", zap.String("reason", reason))
	if l.opts.OnEmpty != nil {
		l.opts.OnEmpty(l)
	}
	l.shutdown()
}

func (l *Lobby) shutdown() {
	if l.idle != nil {
		l.idle.Stop()
	}
	l.clients.closeAll()
	l.cancel()
}

func (l *Lobby) submit(m Msg) bool {
	select {
	case l.inbox <- m:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) Code() string { return l.code }

// Done is closed once the lobby goroutine has exited.
func (l *Lobby) Done() <-chan struct{} { return l.stopped }

// Close stops the lobby without waiting for queued messages.
func (l *Lobby) Close() { l.cancel() }

// Join seats a player named name and returns their id. Events for the player
// start arriving on outbox before Join returns.
func (l *Lobby) Join(ctx context.Context, name string, create bool, outbox chan engine.Event) (string, error) {
	reply := make(chan JoinResult, 1)
	if !l.submit(Join{Name: name, Create: create, Outbox: outbox, Reply: reply}) {
		return "", engine.ErrLobbyNotFound
	}
	select {
	case res := <-reply:
		return res.PlayerID, res.Err
	case <-l.ctx.Done():
		return "", engine.ErrLobbyNotFound
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Submit queues a player command. It reports false if the lobby is gone.
func (l *Lobby) Submit(cmd engine.Command) bool { return l.submit(FromClient{Cmd: cmd}) }

func (l *Lobby) Leave(playerID string) { l.submit(Leave{PlayerID: playerID}) }

func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if !l.submit(GetState{Reply: reply}) {
		return View{}, engine.ErrLobbyNotFound
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.ctx.Done():
		return View{}, engine.ErrLobbyNotFound
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
