package engine

import "time"

// slap arbitrates a slap attempt. An attempt inside the cooldown window is
// penalized without looking at the pile; otherwise a double wins the pile and
// anything else is penalized as an invalid slap.
func (s *State) slap(id string, now time.Time) ([]Event, error) {
	seat := s.seatOf(id)
	if seat < 0 {
		return nil, ErrNotSeated
	}
	if !s.GameStarted {
		return nil, ErrGameNotStarted
	}

	last, seen := s.SlapCooldown[id]
	s.SlapCooldown[id] = now
	if seen && now.Sub(last) < s.Rules.SlapCooldown {
		return s.penalize(seat, EvtPenaltyApplied), nil
	}

	if !s.IsDouble() {
		return s.penalize(seat, EvtInvalidSlap), nil
	}

	won := len(s.CenterPile)
	s.Players[seat].Hand = append(s.Players[seat].Hand, s.CenterPile...)
	s.CenterPile = nil
	s.Requirement = nil
	s.TurnIndex = seat

	events := []Event{{Type: EvtSlapWin, PlayerID: id, WonCount: won}, s.turnChanged()}
	return append(events, s.checkRoundEnd(id)...), nil
}

// penalize moves the last card of the player's hand, if any, to the bottom of
// the pile.
func (s *State) penalize(seat int, typ EventType) []Event {
	p := &s.Players[seat]
	if n := len(p.Hand); n > 0 {
		card := p.Hand[n-1]
		p.Hand = p.Hand[:n-1]
		s.CenterPile = append([]Card{card}, s.CenterPile...)
	}

	events := []Event{{Type: typ, PlayerID: p.ID}}
	events = append(events, s.repairTurn()...)
	return append(events, s.checkRoundEnd(p.ID)...)
}

// IsDouble reports whether the top two pile cards share a rank.
func (s State) IsDouble() bool {
	n := len(s.CenterPile)
	return n >= 2 && s.CenterPile[n-1].Rank == s.CenterPile[n-2].Rank
}
