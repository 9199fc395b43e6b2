package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_CanonicalOrder(t *testing.T) {
	deck := NewDeck()

	require.Len(t, deck, DeckSize)
	assert.Equal(t, Card{Rank: RankAce, Suit: SuitSpades}, deck[0])
	assert.Equal(t, Card{Rank: RankKing, Suit: SuitSpades}, deck[12])
	assert.Equal(t, Card{Rank: RankAce, Suit: SuitHearts}, deck[13])
	assert.Equal(t, Card{Rank: RankKing, Suit: SuitClubs}, deck[51])

	seen := map[Card]bool{}
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, rand.New(rand.NewSource(1)))

	assert.ElementsMatch(t, NewDeck(), deck)
	assert.NotEqual(t, NewDeck(), deck)
}

// Every card should land in every position about equally often.
func TestShuffle_Uniformity(t *testing.T) {
	const trials = 20000
	rng := rand.New(rand.NewSource(99))
	canonical := NewDeck()
	index := make(map[Card]int, DeckSize)
	for i, c := range canonical {
		index[c] = i
	}

	var counts [DeckSize][DeckSize]int // [card][position]
	deck := make([]Card, DeckSize)
	for n := 0; n < trials; n++ {
		copy(deck, canonical)
		Shuffle(deck, rng)
		for pos, c := range deck {
			counts[index[c]][pos]++
		}
	}

	expected := float64(trials) / DeckSize
	total := 0.0
	for card := range counts {
		chi := 0.0
		for pos := range counts[card] {
			d := float64(counts[card][pos]) - expected
			chi += d * d / expected
		}
		// 51 degrees of freedom: mean 51, sd ~10.
		assert.Less(t, chi, 130.0, "card %s is not spread evenly (chi2=%.1f)", canonical[card], chi)
		total += chi
	}
	// Aggregate over 52*51 degrees of freedom: mean 2652, sd ~73.
	assert.Less(t, total, 2652.0+6*73)
}

func TestDeal_Evenness(t *testing.T) {
	cases := []struct {
		seats    int
		perSeat  int
		leftOver int
	}{
		{seats: 2, perSeat: 26, leftOver: 0},
		{seats: 3, perSeat: 17, leftOver: 1},
		{seats: 4, perSeat: 13, leftOver: 0},
	}

	for _, tc := range cases {
		t.Run(string(rune('0'+tc.seats)), func(t *testing.T) {
			s := NewState("DEAL01", DefaultRules())
			for i := 0; i < tc.seats; i++ {
				// stale cards from an earlier round must not survive a redeal
				s.Players = append(s.Players, Player{ID: string(rune('a' + i)), Hand: cards(RankKing, RankKing)})
			}

			Deal(&s, rand.New(rand.NewSource(int64(tc.seats))))

			var all []Card
			for _, p := range s.Players {
				assert.Len(t, p.Hand, tc.perSeat)
				all = append(all, p.Hand...)
			}
			assert.Len(t, s.Undealt, tc.leftOver)
			assert.Equal(t, DeckSize-tc.leftOver, s.CardsInPlay())
			assert.ElementsMatch(t, NewDeck(), append(all, s.Undealt...))
		})
	}
}

func TestDeal_RoundRobinFromSeatZero(t *testing.T) {
	s := NewState("DEAL02", DefaultRules())
	s.Players = []Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	rng := rand.New(rand.NewSource(5))
	Deal(&s, rng)

	shuffled := NewDeck()
	Shuffle(shuffled, rand.New(rand.NewSource(5)))
	assert.Equal(t, shuffled[0], s.Players[0].Hand[0])
	assert.Equal(t, shuffled[1], s.Players[1].Hand[0])
	assert.Equal(t, shuffled[2], s.Players[2].Hand[0])
	assert.Equal(t, shuffled[3], s.Players[0].Hand[1])
	assert.Equal(t, shuffled[51:], s.Undealt)
}
