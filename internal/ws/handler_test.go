package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/hub"
	"github.com/DoyleJ11/slap-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serverMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func setupTestServer(t *testing.T) string {
	t.Helper()
	h := hub.NewHub(context.Background(), hub.Options{
		Rules:  engine.DefaultRules(),
		Logger: zap.NewNop(),
		Rand:   rand.New(rand.NewSource(5)),
	})
	srv := httptest.NewServer(Handler(h, Options{Logger: zap.NewNop()}))
	t.Cleanup(h.Shutdown)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(context.Background(), url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg types.ClientMessage) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, msg))
}

func readMsg(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var msg serverMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

// readUntil skips messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) serverMessage {
	t.Helper()
	for {
		if msg := readMsg(t, conn); msg.Type == typ {
			return msg
		}
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCreateLobby_SeatsCreatorAsHost(t *testing.T) {
	assert := assert.New(t)
	conn := dial(t, setupTestServer(t))

	send(t, conn, types.ClientMessage{Type: types.MsgCreateLobby, Name: "Ann"})

	created := readMsg(t, conn)
	assert.Equal("lobby-created", created.Type)
	seated := decode[types.SeatedPayload](t, created.Payload)
	assert.Regexp(`^[A-HJ-NP-Z2-9]{6}$`, seated.Code)
	assert.NotEmpty(seated.ID)
	assert.Equal("Ann", seated.Name)

	state := readMsg(t, conn)
	assert.Equal("state", state.Type)
	snap := decode[engine.Snapshot](t, state.Payload)
	assert.Equal(seated.ID, snap.HostID)
	assert.Equal(seated.Code, snap.Code)
	assert.Len(snap.Players, 1)
}

func TestJoinLobby_UnknownCode(t *testing.T) {
	assert := assert.New(t)
	conn := dial(t, setupTestServer(t))

	send(t, conn, types.ClientMessage{Type: types.MsgJoinLobby, Code: "ZZZZZZ", Name: "Bob"})

	msg := readMsg(t, conn)
	assert.Equal("join-failed", msg.Type)
	assert.Equal("lobby not found", decode[types.ReasonPayload](t, msg.Payload).Reason)
}

func TestCommandBeforeJoin_IsRejected(t *testing.T) {
	assert := assert.New(t)
	conn := dial(t, setupTestServer(t))

	send(t, conn, types.ClientMessage{Type: types.MsgSlap})

	msg := readMsg(t, conn)
	assert.Equal("error-msg", msg.Type)
	assert.Equal("join a lobby first", decode[types.TextPayload](t, msg.Payload).Text)
}

func TestBadJSON_KeepsConnectionOpen(t *testing.T) {
	assert := assert.New(t)
	conn := dial(t, setupTestServer(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{not json`)))

	msg := readMsg(t, conn)
	assert.Equal("error-msg", msg.Type)

	send(t, conn, types.ClientMessage{Type: types.MsgCreateLobby, Name: "Ann"})
	assert.Equal("lobby-created", readMsg(t, conn).Type)
}

func TestTwoPlayers_StartAndPlay(t *testing.T) {
	assert := assert.New(t)
	url := setupTestServer(t)
	ann := dial(t, url)
	bob := dial(t, url)

	send(t, ann, types.ClientMessage{Type: types.MsgCreateLobby, Name: "Ann"})
	created := decode[types.SeatedPayload](t, readMsg(t, ann).Payload)

	send(t, bob, types.ClientMessage{Type: types.MsgJoinLobby, Code: strings.ToLower(created.Code), Name: "Bob"})
	joined := readUntil(t, bob, "joined")
	assert.Equal(created.Code, decode[types.SeatedPayload](t, joined.Payload).Code)

	// Only the host may start.
	send(t, bob, types.ClientMessage{Type: types.MsgStart})
	rejected := readUntil(t, bob, "error-msg")
	assert.Equal("only host can start", decode[types.TextPayload](t, rejected.Payload).Text)

	send(t, ann, types.ClientMessage{Type: types.MsgSetReady, Ready: true})
	send(t, bob, types.ClientMessage{Type: types.MsgSetReady, Ready: true})
	send(t, ann, types.ClientMessage{Type: types.MsgStart})

	readUntil(t, ann, "game-started")
	readUntil(t, bob, "game-started")

	send(t, ann, types.ClientMessage{Type: types.MsgPlayCard})
	for _, conn := range []*websocket.Conn{ann, bob} {
		played := decode[types.CardPlayedPayload](t, readUntil(t, conn, "card-played").Payload)
		assert.Equal(created.ID, played.PlayerID)
		assert.NotEmpty(played.Card.Rank)
	}
}

func TestDisconnect_LeavesLobby(t *testing.T) {
	assert := assert.New(t)
	url := setupTestServer(t)
	ann := dial(t, url)
	bob := dial(t, url)

	send(t, ann, types.ClientMessage{Type: types.MsgCreateLobby, Name: "Ann"})
	created := decode[types.SeatedPayload](t, readMsg(t, ann).Payload)
	readUntil(t, ann, "state")

	send(t, bob, types.ClientMessage{Type: types.MsgJoinLobby, Code: created.Code, Name: "Bob"})
	readUntil(t, bob, "joined")
	two := decode[engine.Snapshot](t, readUntil(t, ann, "state").Payload)
	assert.Len(two.Players, 2)

	bob.Close(websocket.StatusNormalClosure, "")

	one := decode[engine.Snapshot](t, readUntil(t, ann, "state").Payload)
	assert.Len(one.Players, 1)
	assert.Equal(created.ID, one.HostID)
}
