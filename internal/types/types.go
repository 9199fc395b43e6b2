package types

import "github.com/DoyleJ11/slap-backend/internal/engine"

// Client -> Server message types.
const (
	MsgCreateLobby = "create-lobby"
	MsgJoinLobby   = "join-lobby"
	MsgSetReady    = "set-ready"
	MsgStart       = "start"
	MsgPlayCard    = "play-card"
	MsgSlap        = "slap"
)

type ClientMessage struct {
	Type  string `json:"type"`
	Code  string `json:"code,omitempty"`  // join-lobby
	Name  string `json:"name,omitempty"`  // create-lobby, join-lobby
	Ready bool   `json:"ready,omitempty"` // set-ready
}

// ServerMessage wraps every event sent to a client. Type is the event name,
// e.g. "card-played"; Payload is one of the payload structs below.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type SeatedPayload struct {
	Code string `json:"code"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReasonPayload struct {
	Reason string `json:"reason"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type TurnPayload struct {
	PlayerID  string `json:"playerId"`
	TurnIndex int    `json:"turnIndex"`
}

type CardPlayedPayload struct {
	PlayerID string              `json:"playerId"`
	Card     engine.Card         `json:"card"`
	Double   bool                `json:"double"`
	Special  *engine.Requirement `json:"special"`
}

type ResolvePayload struct {
	WinnerID string `json:"winnerId"`
	WonCount int    `json:"wonCount"`
}

type SlapWinPayload struct {
	PlayerID string `json:"playerId"`
	WonCount int    `json:"wonCount"`
}

type PlayerPayload struct {
	PlayerID string `json:"playerId"`
}

type GameOverPayload struct {
	WinnerID string `json:"winnerId"`
}

// FromEvent maps an engine event onto its wire form.
func FromEvent(ev engine.Event) ServerMessage {
	msg := ServerMessage{Type: string(ev.Type)}

	switch ev.Type {
	case engine.EvtLobbyCreated, engine.EvtJoined:
		msg.Payload = SeatedPayload{Code: ev.Code, ID: ev.PlayerID, Name: ev.Name}
	case engine.EvtJoinFailed:
		msg.Payload = ReasonPayload{Reason: ev.Text}
	case engine.EvtErrorMsg:
		msg.Payload = TextPayload{Text: ev.Text}
	case engine.EvtState:
		msg.Payload = ev.State
	case engine.EvtTurnChanged:
		msg.Payload = TurnPayload{PlayerID: ev.PlayerID, TurnIndex: ev.TurnIndex}
	case engine.EvtCardPlayed:
		p := CardPlayedPayload{PlayerID: ev.PlayerID, Double: ev.Double, Special: ev.Special}
		if ev.Card != nil {
			p.Card = *ev.Card
		}
		msg.Payload = p
	case engine.EvtSpecialResolve:
		msg.Payload = ResolvePayload{WinnerID: ev.PlayerID, WonCount: ev.WonCount}
	case engine.EvtSlapWin:
		msg.Payload = SlapWinPayload{PlayerID: ev.PlayerID, WonCount: ev.WonCount}
	case engine.EvtInvalidSlap, engine.EvtPenaltyApplied:
		msg.Payload = PlayerPayload{PlayerID: ev.PlayerID}
	case engine.EvtGameOver:
		msg.Payload = GameOverPayload{WinnerID: ev.PlayerID}
	}
	return msg
}

// ErrorMessage builds an error-msg for failures outside any lobby.
func ErrorMessage(text string) ServerMessage {
	return ServerMessage{Type: string(engine.EvtErrorMsg), Payload: TextPayload{Text: text}}
}

// JoinFailed builds a join-failed for failures outside any lobby.
func JoinFailed(reason string) ServerMessage {
	return ServerMessage{Type: string(engine.EvtJoinFailed), Payload: ReasonPayload{Reason: reason}}
}
