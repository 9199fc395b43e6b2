package hub

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/lobby"
	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// CreateLobby allocates a lobby under a fresh, unused code.
type CreateLobby struct {
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// RemoveLobby drops the entry for Code if it still points at Lobby.
type RemoveLobby struct {
	Code  string
	Lobby *lobby.Lobby
}

type ListLobbies struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (RemoveLobby) isHubMsg() {}
func (ListLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Options struct {
	Rules       engine.Rules
	IdleTimeout time.Duration
	Logger      *zap.Logger
	// Rand drives code generation and seeds every lobby's deck shuffles.
	Rand     *rand.Rand
	Clock    func() time.Time
	Sink     lobby.Sink
	Recorder lobby.Recorder
}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	opts    Options
	rng     *rand.Rand
	codes   func() string
	log     *zap.Logger
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, opts Options) *Hub {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return newHub(parent, opts, func() string { return GenerateCode(opts.Rand) })
}

func newHub(parent context.Context, opts Options, codes func() string) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		opts:    opts,
		rng:     opts.Rand,
		codes:   codes,
		log:     opts.Logger,
		stopped: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	defer close(h.stopped)
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				msg.Reply <- h.create()

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case RemoveLobby:
				if lb := h.lobbies[msg.Code]; lb != nil && lb == msg.Lobby {
					delete(h.lobbies, msg.Code)
					h.log.Info("lobby removed", zap.String("lobby", msg.Code), zap.Int("live", len(h.lobbies)))
				}

			case ListLobbies:
				codes := make([]string, 0, len(h.lobbies))
				for code := range h.lobbies {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case ShutdownHub:
				h.cancel()
				h.closeAll()
				return
			}
		}
	}
}

func (h *Hub) create() *lobby.Lobby {
	code := h.codes()
	for h.lobbies[code] != nil {
		h.log.Debug("collision on code, regenerating", zap.String("code", code))
		code = h.codes()
	}

	lb := lobby.NewLobby(h.ctx, engine.NewState(code, h.opts.Rules), lobby.Options{
		IdleTimeout: h.opts.IdleTimeout,
		Logger:      h.log,
		Rand:        rand.New(rand.NewSource(h.rng.Int63())),
		Clock:       h.opts.Clock,
		Sink:        h.opts.Sink,
		Recorder:    h.opts.Recorder,
		OnEmpty:     h.remove,
	})
	h.lobbies[code] = lb
	h.log.Info("lobby created", zap.String("lobby", code), zap.Int("live", len(h.lobbies)))
	return lb
}

// Discard stops lb and drops it from the registry. It is for a lobby whose
// creator never got seated.
func (h *Hub) Discard(lb *lobby.Lobby) {
	lb.Close()
	h.remove(lb)
}

// remove is called from a lobby goroutine.
func (h *Hub) remove(lb *lobby.Lobby) {
	select {
	case h.inbox <- RemoveLobby{Code: lb.Code(), Lobby: lb}:
	case <-h.ctx.Done():
	}
}

// closeAll must run after h.ctx is cancelled so no lobby is stuck in remove.
func (h *Hub) closeAll() {
	for _, lb := range h.lobbies {
		lb.Close()
		<-lb.Done()
	}
	clear(h.lobbies)
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	if h.ctx.Err() != nil {
		return ErrHubClosed
	}
	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Create opens a new, empty lobby.
func (h *Hub) Create(ctx context.Context) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, CreateLobby{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case lb := <-reply:
		return lb, nil
	case <-h.stopped:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get looks a lobby up by code, case-insensitively.
func (h *Hub) Get(ctx context.Context, code string) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, GetLobby{Code: NormalizeCode(code), Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case lb := <-reply:
		if lb == nil {
			return nil, engine.ErrLobbyNotFound
		}
		return lb, nil
	case <-h.stopped:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Codes lists the codes of every live lobby.
func (h *Hub) Codes(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	if err := h.send(ctx, ListLobbies{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case codes := <-reply:
		return codes, nil
	case <-h.stopped:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown closes every lobby and stops the hub.
func (h *Hub) Shutdown() {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.ctx.Done():
	}
	<-h.stopped
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
