package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance_SkipsEmptyHands(t *testing.T) {
	full := cards(RankFive)

	cases := []struct {
		name  string
		hands [][]Card
		from  int
		skip  int
		want  int
	}{
		{name: "next seat", hands: [][]Card{full, full, full, full}, from: 0, skip: 1, want: 1},
		{name: "skip over empty", hands: [][]Card{full, nil, full, full}, from: 0, skip: 1, want: 2},
		{name: "wrap past empty", hands: [][]Card{full, full, full, nil}, from: 2, skip: 1, want: 0},
		{name: "two empties", hands: [][]Card{full, nil, nil, full}, from: 0, skip: 1, want: 3},
		{name: "back to self", hands: [][]Card{full, nil, nil, nil}, from: 0, skip: 1, want: 0},
		{name: "skip two", hands: [][]Card{full, full, full, full}, from: 1, skip: 2, want: 3},
		{name: "stay when current has cards", hands: [][]Card{full, full}, from: 1, skip: 0, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := liveState(tc.hands...)
			s.TurnIndex = tc.from

			events := s.advance(tc.skip)

			assert.Equal(t, tc.want, s.TurnIndex)
			require.Len(t, events, 1)
			assert.Equal(t, EvtTurnChanged, events[0].Type)
			assert.Equal(t, s.Players[tc.want].ID, events[0].PlayerID)
			assert.Equal(t, tc.want, events[0].TurnIndex)
		})
	}
}

func TestAdvance_AllEmptyTerminates(t *testing.T) {
	s := liveState(nil, nil, nil)
	s.TurnIndex = 1

	events := s.advance(1)

	require.Len(t, events, 1)
	assert.True(t, s.TurnIndex >= 0 && s.TurnIndex < 3)
}

func TestAdvance_NoPlayers(t *testing.T) {
	s := NewState("NOBODY", DefaultRules())
	assert.Nil(t, s.advance(1))
	assert.Equal(t, 0, s.TurnIndex)
}
