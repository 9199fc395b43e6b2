package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slap(t *testing.T, s State, id string, at time.Duration) ([]Event, State) {
	t.Helper()
	return apply(t, s, Command{Type: CmdSlap, PlayerID: id}, t0.Add(at))
}

func TestSlap_CooldownBoundary(t *testing.T) {
	cases := []struct {
		gap      time.Duration
		wantType EventType
	}{
		{gap: 699 * time.Millisecond, wantType: EvtPenaltyApplied},
		{gap: 700 * time.Millisecond, wantType: EvtInvalidSlap},
		{gap: 701 * time.Millisecond, wantType: EvtInvalidSlap},
	}

	for _, tc := range cases {
		t.Run(tc.gap.String(), func(t *testing.T) {
			s := liveState(cards(RankFive, RankSix, RankSeven, RankEight), cards(RankJack, RankQueen))
			s.CenterPile = cards(RankFour, RankKing)

			events, s := slap(t, s, "p0", 0)
			require.Equal(t, EvtInvalidSlap, events[0].Type)

			events, _ = slap(t, s, "p0", tc.gap)
			assert.Equal(t, tc.wantType, events[0].Type)
		})
	}
}

func TestSlap_SpamRefreshesWindow(t *testing.T) {
	s := liveState(cards(RankFive, RankSix, RankSeven, RankEight), cards(RankJack))
	s.CenterPile = cards(RankFour, RankFour)

	events, s := slap(t, s, "p1", 0)
	require.Equal(t, EvtSlapWin, events[0].Type)

	s.CenterPile = cards(RankNine, RankNine)
	events, s = slap(t, s, "p1", 699*time.Millisecond)
	assert.Equal(t, EvtPenaltyApplied, events[0].Type, "throttled attempt ignores the double")

	events, _ = slap(t, s, "p1", 1398*time.Millisecond)
	assert.Equal(t, EvtPenaltyApplied, events[0].Type)
}

func TestSlap_PenaltyMovesLastCardUnderPile(t *testing.T) {
	s := liveState(cards(RankFive, RankSix, RankSeven), cards(RankNine))
	s.CenterPile = cards(RankJack, RankQueen)

	events, s := slap(t, s, "p0", 0)

	assert.Equal(t, EvtInvalidSlap, events[0].Type)
	assert.Equal(t, "p0", events[0].PlayerID)
	assert.Equal(t, cards(RankFive, RankSix), s.Players[0].Hand)
	assert.Equal(t, []Card{
		{Rank: RankSeven, Suit: SuitDiamonds},
		{Rank: RankJack, Suit: SuitSpades},
		{Rank: RankQueen, Suit: SuitHearts},
	}, s.CenterPile)
}

func TestSlap_PenaltyWithEmptyHand(t *testing.T) {
	s := liveState(nil, cards(RankNine, RankTen))
	s.CenterPile = cards(RankJack, RankQueen)

	events, s := slap(t, s, "p0", 0)

	assert.Equal(t, EvtInvalidSlap, events[0].Type)
	assert.Len(t, s.CenterPile, 2)
	assert.Empty(t, s.Players[0].Hand)
	assert.Equal(t, 1, s.TurnIndex, "turn moves off the empty hand")
}

func TestSlap_ValidWinsPileAndTurn(t *testing.T) {
	s := liveState(cards(RankFive, RankSix), cards(RankNine, RankTen))
	s.CenterPile = []Card{
		{Rank: RankFour, Suit: SuitSpades},
		{Rank: RankSeven, Suit: SuitHearts},
		{Rank: RankSeven, Suit: SuitDiamonds},
	}
	s.Requirement = &Requirement{RequiredCount: 1, Remaining: 1, InitiatorID: "p1", Rank: RankAce}
	s.TurnIndex = 1

	events, s := slap(t, s, "p0", 0)

	win, ok := FindEvent(events, EvtSlapWin)
	require.True(t, ok)
	assert.Equal(t, "p0", win.PlayerID)
	assert.Equal(t, 3, win.WonCount)

	assert.Empty(t, s.CenterPile)
	assert.Nil(t, s.Requirement)
	assert.Equal(t, 0, s.TurnIndex)
	assert.Equal(t, []Card{
		{Rank: RankFive, Suit: SuitSpades},
		{Rank: RankSix, Suit: SuitHearts},
		{Rank: RankFour, Suit: SuitSpades},
		{Rank: RankSeven, Suit: SuitHearts},
		{Rank: RankSeven, Suit: SuitDiamonds},
	}, s.Players[0].Hand)
	assert.False(t, ContainsEvent(events, EvtGameOver))
}

func TestSlap_WinDetection(t *testing.T) {
	deck := NewDeck()
	// A♠ 2♠ 7♠ 7♥ on the pile, the other 48 cards split between hands.
	pile := []Card{deck[0], deck[1], deck[6], deck[19]}
	var rest []Card
	for i, c := range deck {
		if i != 0 && i != 1 && i != 6 && i != 19 {
			rest = append(rest, c)
		}
	}

	t.Run("all 52 ends the round", func(t *testing.T) {
		s := liveState(nil, append([]Card(nil), rest...))
		s.CenterPile = append([]Card(nil), pile...)

		events, s := slap(t, s, "p1", 0)

		over, ok := FindEvent(events, EvtGameOver)
		require.True(t, ok)
		assert.Equal(t, "p1", over.PlayerID)
		assert.Len(t, s.Players[1].Hand, DeckSize)
		assert.False(t, s.GameStarted)
	})

	t.Run("fewer than 52 keeps playing", func(t *testing.T) {
		s := liveState(append([]Card(nil), rest[:8]...), append([]Card(nil), rest[8:]...))
		s.CenterPile = append([]Card(nil), pile...)

		events, s := slap(t, s, "p1", 0)

		assert.True(t, ContainsEvent(events, EvtSlapWin))
		assert.False(t, ContainsEvent(events, EvtGameOver))
		assert.Len(t, s.Players[1].Hand, 44)
		assert.True(t, s.GameStarted)
	})
}

func TestSlap_Rejections(t *testing.T) {
	s := liveState(cards(RankFive), cards(RankSix))
	s.GameStarted = false

	_, after, err := Apply(s, Command{Type: CmdSlap, PlayerID: "p0"}, t0, nil)
	assert.ErrorIs(t, err, ErrGameNotStarted)
	assert.Equal(t, s, after)

	s.GameStarted = true
	_, _, err = Apply(s, Command{Type: CmdSlap, PlayerID: "nobody"}, t0, nil)
	assert.ErrorIs(t, err, ErrNotSeated)
}
