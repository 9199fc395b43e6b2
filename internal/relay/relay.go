package relay

import (
	"encoding/json"
	"fmt"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "slap.lobby"

// Publisher is the part of *nats.Conn the relay uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Relay forwards lobby-wide events to NATS so other processes can watch games.
type Relay struct {
	pub  Publisher
	conn *nats.Conn
	log  *zap.Logger
}

func New(pub Publisher, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{pub: pub, log: log}
}

func Connect(url string, log *zap.Logger) (*Relay, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("slap-backend"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	r := New(nc, log)
	r.conn = nc
	return r, nil
}

func Subject(code string, typ engine.EventType) string {
	return subjectPrefix + "." + code + "." + string(typ)
}

// Publish never blocks the caller on the network; nats.go buffers writes.
func (r *Relay) Publish(code string, ev engine.Event) {
	data, err := json.Marshal(types.FromEvent(ev))
	if err != nil {
		r.log.Error("encode relay event", zap.String("lobby", code), zap.Error(err))
		return
	}
	if err := r.pub.Publish(Subject(code, ev.Type), data); err != nil {
		r.log.Warn("relay publish failed",
			zap.String("lobby", code),
			zap.String("event", string(ev.Type)),
			zap.Error(err))
	}
}

// Close flushes pending messages and closes the connection.
func (r *Relay) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Drain()
}
