package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/hub"
	"github.com/DoyleJ11/slap-backend/internal/lobby"
	"github.com/DoyleJ11/slap-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const outboxSize = 64

type Options struct {
	Logger *zap.Logger
	// OriginPatterns are extra hosts allowed to open a socket cross-origin.
	OriginPatterns []string
	WriteTimeout   time.Duration
}

type session struct {
	conn *websocket.Conn
	hub  *hub.Hub
	log  *zap.Logger
	opts Options
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			opts.Logger.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := &session{conn: conn, hub: h, log: opts.Logger.With(zap.String("remote", r.RemoteAddr)), opts: opts}
		s.run(r.Context())
	}
}

func (s *session) run(ctx context.Context) {
	lb, playerID, out, ok := s.seat(ctx)
	if !ok {
		return
	}
	log := s.log.With(zap.String("lobby", lb.Code()), zap.String("player", playerID))
	log.Info("client connected")

	// Writer goroutine
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range out {
			if err := s.write(ctx, types.FromEvent(ev)); err != nil {
				log.Debug("write failed", zap.Error(err))
				break
			}
		}
		// Outbox closed: we left, were dropped as too slow, or the lobby is gone.
		s.conn.Close(websocket.StatusGoingAway, "disconnected")
	}()

	defer func() {
		lb.Leave(playerID)
		<-writerDone
		log.Info("client disconnected")
	}()

	// Reader loop
	for {
		cm, err := s.read(ctx)
		if err != nil {
			if errors.Is(err, errBadMessage) {
				s.write(ctx, types.ErrorMessage(err.Error()))
				continue
			}
			return
		}

		cmd, ok := toEngineCommand(cm, playerID)
		if !ok {
			s.write(ctx, types.ErrorMessage("unknown message type: "+cm.Type))
			continue
		}
		if !lb.Submit(cmd) {
			return
		}
	}
}

// seat reads messages until the client has created or joined a lobby.
func (s *session) seat(ctx context.Context) (*lobby.Lobby, string, chan engine.Event, bool) {
	for {
		cm, err := s.read(ctx)
		if err != nil {
			if errors.Is(err, errBadMessage) {
				s.write(ctx, types.ErrorMessage(err.Error()))
				continue
			}
			return nil, "", nil, false
		}

		var (
			lb     *lobby.Lobby
			create bool
		)
		switch cm.Type {
		case types.MsgCreateLobby:
			lb, err = s.hub.Create(ctx)
			create = true
		case types.MsgJoinLobby:
			lb, err = s.hub.Get(ctx, cm.Code)
		default:
			s.write(ctx, types.ErrorMessage("join a lobby first"))
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", nil, false
			}
			s.write(ctx, types.JoinFailed(err.Error()))
			continue
		}

		out := make(chan engine.Event, outboxSize)
		id, err := lb.Join(ctx, cm.Name, create, out)
		if err != nil {
			if create {
				s.hub.Discard(lb)
			}
			if ctx.Err() != nil {
				return nil, "", nil, false
			}
			// The lobby pushes its own join-failed before replying.
			select {
			case ev := <-out:
				s.write(ctx, types.FromEvent(ev))
			default:
				s.write(ctx, types.JoinFailed(err.Error()))
			}
			continue
		}
		return lb, id, out, true
	}
}

var errBadMessage = errors.New("bad json")

func (s *session) read(ctx context.Context) (types.ClientMessage, error) {
	var cm types.ClientMessage
	typ, data, err := s.conn.Read(ctx)
	if err != nil {
		// Treat clean close/going-away as normal:
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		default:
			s.log.Debug("read failed", zap.Error(err))
		}
		return cm, err
	}
	if typ != websocket.MessageText {
		return cm, errBadMessage
	}
	if err := json.Unmarshal(data, &cm); err != nil {
		return cm, errBadMessage
	}
	return cm, nil
}

func (s *session) write(ctx context.Context, msg types.ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.conn, msg)
}

func toEngineCommand(m types.ClientMessage, playerID string) (engine.Command, bool) {
	switch m.Type {
	case types.MsgSetReady:
		return engine.Command{Type: engine.CmdSetReady, PlayerID: playerID, Ready: m.Ready}, true
	case types.MsgStart:
		return engine.Command{Type: engine.CmdStart, PlayerID: playerID}, true
	case types.MsgPlayCard:
		return engine.Command{Type: engine.CmdPlayCard, PlayerID: playerID}, true
	case types.MsgSlap:
		return engine.Command{Type: engine.CmdSlap, PlayerID: playerID}, true
	default:
		return engine.Command{}, false
	}
}
