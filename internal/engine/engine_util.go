package engine

import (
	"maps"
	"slices"
	"time"
)

func DefaultRules() Rules {
	return Rules{MaxPlayers: MaxPlayers, SlapCooldown: SlapCooldown}
}

func NewState(code string, rules Rules) State {
	if rules.MaxPlayers <= 0 {
		rules.MaxPlayers = MaxPlayers
	}
	if rules.SlapCooldown <= 0 {
		rules.SlapCooldown = SlapCooldown
	}
	return State{
		Code:         code,
		Players:      []Player{},
		SlapCooldown: map[string]time.Time{},
		Rules:        rules,
	}
}

// Clone deep-copies s so Apply can mutate freely and still hand back the
// original on rejection.
func (s State) Clone() State {
	c := s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = slices.Clone(p.Hand)
		c.Players[i] = p
	}
	c.CenterPile = slices.Clone(s.CenterPile)
	c.Undealt = slices.Clone(s.Undealt)
	c.Requirement = s.Requirement.clone()
	c.SlapCooldown = maps.Clone(s.SlapCooldown)
	if c.SlapCooldown == nil {
		c.SlapCooldown = map[string]time.Time{}
	}
	return c
}

func (s State) seatOf(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

// Seat returns the seat index of the player, or -1.
func (s State) Seat(id string) int { return s.seatOf(id) }

// TurnPlayerID is the id of the player due to play, or "" for an empty lobby.
func (s State) TurnPlayerID() string {
	if len(s.Players) == 0 || s.TurnIndex < 0 || s.TurnIndex >= len(s.Players) {
		return ""
	}
	return s.Players[s.TurnIndex].ID
}

func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Players:      make([]PlayerView, 0, len(s.Players)),
		CenterCount:  len(s.CenterPile),
		TurnPlayerID: s.TurnPlayerID(),
		GameStarted:  s.GameStarted,
		HostID:       s.HostID,
		Code:         s.Code,
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerView{ID: p.ID, Name: p.Name, HandCount: len(p.Hand), Ready: p.Ready})
	}
	if n := len(s.CenterPile); n > 0 {
		top := s.CenterPile[n-1]
		snap.Top = &top
	}
	return snap
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func FindEvent(events []Event, eventType EventType) (Event, bool) {
	for _, event := range events {
		if event.Type == eventType {
			return event, true
		}
	}
	return Event{}, false
}
