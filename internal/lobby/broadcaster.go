package lobby

import (
	"github.com/DoyleJ11/slap-backend/internal/engine"
	"go.uber.org/zap"
)

// Broadcaster delivers events to the members of one lobby.
type Broadcaster interface {
	Send(playerID string, ev engine.Event)
	Broadcast(ev engine.Event)
}

// outboxes is the lobby's Broadcaster: one buffered channel per player. It is
// only touched from the lobby goroutine.
type outboxes struct {
	chans map[string]chan engine.Event
	log   *zap.Logger
}

var _ Broadcaster = (*outboxes)(nil)

func newOutboxes(log *zap.Logger) *outboxes {
	return &outboxes{chans: make(map[string]chan engine.Event), log: log}
}

func (o *outboxes) add(id string, ch chan engine.Event) { o.chans[id] = ch }

func (o *outboxes) remove(id string) {
	if ch, ok := o.chans[id]; ok {
		close(ch)
		delete(o.chans, id)
	}
}

func (o *outboxes) len() int { return len(o.chans) }

func (o *outboxes) Send(id string, ev engine.Event) {
	ch, ok := o.chans[id]
	if !ok {
		return
	}
	select {
	case ch <- ev:
		//ok
	default:
		// Client is slow/full - drop them. Their transport sees the closed
		// outbox, hangs up, and the disconnect removes them from the game.
		o.log.Warn("dropping slow client", zap.String("player", id))
		o.remove(id)
	}
}

func (o *outboxes) Broadcast(ev engine.Event) {
	for id := range o.chans {
		o.Send(id, ev)
	}
}

func (o *outboxes) closeAll() {
	for id := range o.chans {
		o.remove(id)
	}
}
