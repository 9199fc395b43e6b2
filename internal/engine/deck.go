package engine

import "math/rand"

const DeckSize = 52

// NewDeck returns the 52 cards in canonical order: suits in Suits order, ranks
// A..K within each suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// Shuffle is a Fisher-Yates pass over deck in place.
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal shuffles a fresh deck and hands out floor(52/n) cards per seat,
// round-robin from seat 0. The remainder is parked in s.Undealt for the rest
// of the round.
func Deal(s *State, rng *rand.Rand) {
	n := len(s.Players)
	if n == 0 {
		return
	}

	deck := NewDeck()
	Shuffle(deck, rng)

	for i := range s.Players {
		s.Players[i].Hand = make([]Card, 0, DeckSize/n)
	}

	per := len(deck) / n
	seat := 0
	for i := 0; i < per*n; i++ {
		s.Players[seat].Hand = append(s.Players[seat].Hand, deck[i])
		seat = (seat + 1) % n
	}
	s.Undealt = append([]Card(nil), deck[per*n:]...)
}

// CardsInPlay is how many cards circulate between hands and the pile this round.
func (s State) CardsInPlay() int { return DeckSize - len(s.Undealt) }
