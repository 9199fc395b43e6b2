package engine

// checkCounter enforces the min-value response rule before a card leaves the
// responder's hand.
func (s *State) checkCounter(next Card) error {
	if !s.Rules.MinValueCounter || s.Requirement == nil {
		return nil
	}
	if !next.Rank.IsSpecial() {
		return ErrMustPlaySpecial
	}
	if next.Rank.RequiredCount() < s.Requirement.RequiredCount {
		return ErrInsufficientValue
	}
	return nil
}

// resolvePlay runs the requirement state machine for a card the player at seat
// just put on the pile.
//
//	Idle    + special     -> Pending(n, n, player)
//	Pending + special     -> Pending(n, n, player), previous chain dropped
//	Pending + non-special -> remaining-1; at 0 the initiator takes the pile
//	Idle    + non-special -> next seat
func (s *State) resolvePlay(seat int, card Card) []Event {
	player := s.Players[seat]
	played := Event{Type: EvtCardPlayed, PlayerID: player.ID, Card: &card, Double: s.IsDouble()}

	if n := card.Rank.RequiredCount(); n > 0 {
		s.Requirement = &Requirement{RequiredCount: n, Remaining: n, InitiatorID: player.ID, Rank: card.Rank}
		played.Special = s.Requirement.clone()
		return append([]Event{played}, s.advance(1)...)
	}

	if s.Requirement == nil {
		return append([]Event{played}, s.advance(1)...)
	}

	s.Requirement.Remaining--
	played.Special = s.Requirement.clone()
	if s.Requirement.Remaining > 0 {
		return append([]Event{played}, s.advance(1)...)
	}
	return append([]Event{played}, s.resolveRequirement()...)
}

// resolveRequirement hands the whole pile to the initiator and gives them the turn.
func (s *State) resolveRequirement() []Event {
	req := s.Requirement
	s.Requirement = nil

	seat := s.seatOf(req.InitiatorID)
	if seat < 0 {
		return s.advance(1)
	}

	won := len(s.CenterPile)
	s.Players[seat].Hand = append(s.Players[seat].Hand, s.CenterPile...)
	s.CenterPile = nil
	s.TurnIndex = seat

	return []Event{
		{Type: EvtSpecialResolve, PlayerID: req.InitiatorID, WonCount: won},
		s.turnChanged(),
	}
}

func (r *Requirement) clone() *Requirement {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
