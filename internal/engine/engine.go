package engine

import (
	"math/rand"
	"slices"
	"time"
)

const (
	MaxPlayers   = 4
	SlapCooldown = 700 * time.Millisecond
)

type Player struct {
	ID    string
	Name  string
	Hand  []Card // Hand[0] is the next card to play
	Ready bool
}

// Requirement is the outstanding obligation created by an Ace, 2 or 3.
type Requirement struct {
	RequiredCount int    `json:"requiredCount"`
	Remaining     int    `json:"remaining"`
	InitiatorID   string `json:"initiatorId"`
	Rank          Rank   `json:"rank"`
}

type Rules struct {
	MaxPlayers   int
	SlapCooldown time.Duration
	// MinValueCounter requires a responder's card to be special and at least
	// as strong as the pending requirement.
	MinValueCounter bool
}

type State struct {
	Code         string
	Players      []Player // seat order is turn order
	CenterPile   []Card   // last element is the top
	Undealt      []Card
	TurnIndex    int
	GameStarted  bool
	StartedAt    time.Time
	HostID       string
	Requirement  *Requirement
	SlapCooldown map[string]time.Time // player id -> last slap attempt
	Rules        Rules
}

type CommandType string

const (
	CmdJoin     CommandType = "Join"
	CmdSetReady CommandType = "SetReady"
	CmdStart    CommandType = "Start"
	CmdPlayCard CommandType = "PlayCard"
	CmdSlap     CommandType = "Slap"
	CmdLeave    CommandType = "Leave"
)

type Command struct {
	Type     CommandType
	PlayerID string
	Name     string // Join only
	Create   bool   // Join only: the joiner opened the lobby
	Ready    bool   // SetReady only
}

type EventType string

const (
	EvtLobbyCreated   EventType = "lobby-created"
	EvtJoined         EventType = "joined"
	EvtJoinFailed     EventType = "join-failed"
	EvtGameStarted    EventType = "game-started"
	EvtState          EventType = "state"
	EvtTurnChanged    EventType = "turn-changed"
	EvtCardPlayed     EventType = "card-played"
	EvtSpecialResolve EventType = "special-resolve"
	EvtSlapWin        EventType = "slap-win"
	EvtInvalidSlap    EventType = "invalid-slap"
	EvtPenaltyApplied EventType = "penalty-applied"
	EvtGameOver       EventType = "game-over"
	EvtErrorMsg       EventType = "error-msg"
)

type Event struct {
	Type EventType
	// To names the single recipient; empty means every player in the lobby.
	To        string
	PlayerID  string
	Name      string
	Code      string
	Card      *Card
	Double    bool
	Special   *Requirement
	TurnIndex int
	WonCount  int
	Text      string
	State     *Snapshot
}

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HandCount int    `json:"handCount"`
	Ready     bool   `json:"ready"`
}

// Snapshot is the public view of a lobby. Hands and buried pile cards stay hidden.
type Snapshot struct {
	Players      []PlayerView `json:"players"`
	CenterCount  int          `json:"centerCount"`
	Top          *Card        `json:"top"`
	TurnPlayerID string       `json:"turnPlayerId"`
	GameStarted  bool         `json:"gameStarted"`
	HostID       string       `json:"hostId"`
	Code         string       `json:"code"`
}

// Apply validates cmd against s and returns the resulting events and state.
// On error the returned state is s, untouched.
func Apply(s State, cmd Command, now time.Time, rng *rand.Rand) ([]Event, State, error) {
	next := s.Clone()

	var (
		events []Event
		err    error
	)
	switch cmd.Type {
	case CmdJoin:
		events, err = next.join(cmd)
	case CmdSetReady:
		events, err = next.setReady(cmd)
	case CmdStart:
		events, err = next.start(cmd, now, rng)
	case CmdPlayCard:
		events, err = next.playCard(cmd)
	case CmdSlap:
		events, err = next.slap(cmd.PlayerID, now)
	case CmdLeave:
		events = next.leave(cmd.PlayerID)
	default:
		err = ErrUnsupportedCommand
	}

	if err != nil {
		return nil, s, err
	}
	return events, next, nil
}

func (s *State) join(cmd Command) ([]Event, error) {
	if s.GameStarted {
		return nil, ErrGameInProgress
	}
	if len(s.Players) >= s.Rules.MaxPlayers {
		return nil, ErrLobbyFull
	}
	if cmd.PlayerID == "" {
		return nil, ErrUnsupportedCommand
	}
	if s.seatOf(cmd.PlayerID) >= 0 {
		return nil, ErrAlreadyJoined
	}

	s.Players = append(s.Players, Player{ID: cmd.PlayerID, Name: cmd.Name})
	if s.HostID == "" {
		s.HostID = cmd.PlayerID
	}

	typ := EvtJoined
	if cmd.Create {
		typ = EvtLobbyCreated
	}
	return []Event{{Type: typ, To: cmd.PlayerID, PlayerID: cmd.PlayerID, Name: cmd.Name, Code: s.Code}}, nil
}

func (s *State) setReady(cmd Command) ([]Event, error) {
	seat := s.seatOf(cmd.PlayerID)
	if seat < 0 {
		return nil, ErrNotSeated
	}
	if s.GameStarted {
		return nil, ErrGameInProgress
	}
	s.Players[seat].Ready = cmd.Ready
	return nil, nil
}

func (s *State) start(cmd Command, now time.Time, rng *rand.Rand) ([]Event, error) {
	if s.seatOf(cmd.PlayerID) < 0 {
		return nil, ErrNotSeated
	}
	if cmd.PlayerID != s.HostID {
		return nil, ErrNotHost
	}
	if s.GameStarted {
		return nil, ErrGameInProgress
	}
	if len(s.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	for _, p := range s.Players {
		if !p.Ready {
			return nil, ErrPlayersNotReady
		}
	}

	Deal(s, rng)
	s.CenterPile = nil
	s.TurnIndex = 0
	s.Requirement = nil
	s.SlapCooldown = map[string]time.Time{}
	s.GameStarted = true
	s.StartedAt = now
	for i := range s.Players {
		s.Players[i].Ready = false
	}

	return []Event{{Type: EvtGameStarted}, s.turnChanged()}, nil
}

func (s *State) playCard(cmd Command) ([]Event, error) {
	seat := s.seatOf(cmd.PlayerID)
	if seat < 0 {
		return nil, ErrNotSeated
	}
	if !s.GameStarted {
		return nil, ErrGameNotStarted
	}
	if seat != s.TurnIndex {
		return nil, ErrNotYourTurn
	}
	player := &s.Players[seat]
	if len(player.Hand) == 0 {
		return nil, ErrNoCards
	}
	if err := s.checkCounter(player.Hand[0]); err != nil {
		return nil, err
	}

	card := player.Hand[0]
	player.Hand = player.Hand[1:]
	s.CenterPile = append(s.CenterPile, card)

	events := s.resolvePlay(seat, card)
	return append(events, s.checkRoundEnd(cmd.PlayerID)...), nil
}

// leave removes a player and repairs host, turn and requirement. Unknown ids
// are ignored so a repeated disconnect is harmless.
func (s *State) leave(id string) []Event {
	seat := s.seatOf(id)
	if seat < 0 {
		return nil
	}

	leaver := s.Players[seat]
	s.Players = slices.Delete(s.Players, seat, seat+1)
	delete(s.SlapCooldown, id)

	if s.GameStarted && len(leaver.Hand) > 0 {
		s.CenterPile = append(slices.Clone(leaver.Hand), s.CenterPile...)
	}
	if s.Requirement != nil && s.Requirement.InitiatorID == id {
		s.Requirement = nil
	}

	n := len(s.Players)
	if n == 0 {
		s.HostID = ""
		s.TurnIndex = 0
		s.GameStarted = false
		s.Requirement = nil
		s.CenterPile = nil
		s.Undealt = nil
		return nil
	}

	if s.HostID == id {
		s.HostID = s.Players[seat%n].ID
	}

	wasTurn := seat == s.TurnIndex
	if seat < s.TurnIndex {
		s.TurnIndex--
	}
	if s.TurnIndex >= n {
		s.TurnIndex = 0
	}

	if !s.GameStarted {
		return nil
	}
	if n < 2 {
		return []Event{s.gameOver(0)}
	}

	var events []Event
	if len(s.Players[s.TurnIndex].Hand) == 0 {
		events = s.advance(0)
	} else if wasTurn {
		events = []Event{s.turnChanged()}
	}
	return append(events, s.checkRoundEnd(s.Players[s.TurnIndex].ID)...)
}

// checkRoundEnd ends the round once one player holds every card in play. If
// nobody holds a card at all, the pile goes to the pending initiator or,
// failing that, to lastActor.
func (s *State) checkRoundEnd(lastActor string) []Event {
	if !s.GameStarted || len(s.Players) == 0 {
		return nil
	}

	var events []Event
	holder, holders := -1, 0
	for i, p := range s.Players {
		if len(p.Hand) > 0 {
			holder = i
			holders++
		}
	}

	if holders == 0 {
		recipient := lastActor
		if s.Requirement != nil {
			recipient = s.Requirement.InitiatorID
		}
		holder = s.seatOf(recipient)
		if holder < 0 {
			return nil
		}
		won := len(s.CenterPile)
		s.Players[holder].Hand = append(s.Players[holder].Hand, s.CenterPile...)
		s.CenterPile = nil
		if s.Requirement != nil {
			events = append(events, Event{Type: EvtSpecialResolve, PlayerID: recipient, WonCount: won})
			s.Requirement = nil
		}
		s.TurnIndex = holder
		events = append(events, s.turnChanged())
	}

	if len(s.Players[holder].Hand) == s.CardsInPlay() {
		events = append(events, s.gameOver(holder))
	}
	return events
}

func (s *State) gameOver(seat int) Event {
	s.GameStarted = false
	s.Requirement = nil
	winner := s.Players[seat]
	return Event{Type: EvtGameOver, PlayerID: winner.ID, Name: winner.Name}
}

func (s *State) turnChanged() Event {
	return Event{Type: EvtTurnChanged, PlayerID: s.Players[s.TurnIndex].ID, TurnIndex: s.TurnIndex}
}
