package engine

// advance moves the turn skip seats forward, then one seat at a time past
// players with empty hands. The probe is bounded so an all-empty table cannot
// spin; that case is settled by checkRoundEnd.
func (s *State) advance(skip int) []Event {
	n := len(s.Players)
	if n == 0 {
		return nil
	}

	s.TurnIndex = ((s.TurnIndex+skip)%n + n) % n
	for probes := 1; probes <= n && len(s.Players[s.TurnIndex].Hand) == 0; probes++ {
		s.TurnIndex = (s.TurnIndex + 1) % n
	}
	return []Event{s.turnChanged()}
}

// repairTurn skips the current seat if its hand just ran dry.
func (s *State) repairTurn() []Event {
	if !s.GameStarted || len(s.Players) == 0 || len(s.Players[s.TurnIndex].Hand) > 0 {
		return nil
	}
	return s.advance(0)
}
