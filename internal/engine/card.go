package engine

type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
)

type Rank string

const (
	RankAce   Rank = "A"
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
)

var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

var Ranks = []Rank{
	RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// RequiredCount is the number of responses an Ace, 2 or 3 demands from the
// following seats. Every other rank returns 0.
func (r Rank) RequiredCount() int {
	switch r {
	case RankAce:
		return 1
	case RankTwo:
		return 2
	case RankThree:
		return 3
	default:
		return 0
	}
}

func (r Rank) IsSpecial() bool { return r.RequiredCount() > 0 }

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string { return string(c.Rank) + string(c.Suit) }
