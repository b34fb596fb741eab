package engine

import (
	"fmt"
	"strconv"
)

// DeckSize is the number of cards in a Schnapsen deck (A, 10, K, Q, J of four suits).
const DeckSize = 20

// WinningPoints is the score that ends a deal in the scoring player's favour.
const WinningPoints = 66

// Suit constants. Suit s owns card ids 5s .. 5s+4.
type Suit uint8

const (
	SuitClubs    Suit = 0
	SuitDiamonds Suit = 1
	SuitHearts   Suit = 2
	SuitSpades   Suit = 3

	NumSuits = 4
)

var suitLetters = [NumSuits]string{"C", "D", "H", "S"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s < NumSuits }

func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitLetters[s]
}

// MarshalText encodes the suit as its single-letter name.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", uint8(s))
	}
	return []byte(suitLetters[s]), nil
}

// UnmarshalText accepts "C", "D", "H" or "S".
func (s *Suit) UnmarshalText(b []byte) error {
	for i, l := range suitLetters {
		if string(b) == l {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", string(b))
}

// Rank constants, in card-id order within a suit.
type Rank uint8

const (
	RankAce   Rank = 0
	RankTen   Rank = 1
	RankKing  Rank = 2
	RankQueen Rank = 3
	RankJack  Rank = 4

	RanksPerSuit = 5
)

// rankPoints is indexed by Rank.
var rankPoints = [RanksPerSuit]int{11, 10, 4, 3, 2}

var rankLetters = [RanksPerSuit]string{"A", "T", "K", "Q", "J"}

func (r Rank) String() string {
	if r >= RanksPerSuit {
		return "?"
	}
	return rankLetters[r]
}

// Card is a deck index in 0..19: suit = id / 5, rank = id % 5.
type Card uint8

// NoCard represents the absence of a card.
const NoCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(s Suit, r Rank) Card {
	return Card(uint8(s)*RanksPerSuit + uint8(r))
}

// Valid reports whether c is a real deck card.
func (c Card) Valid() bool { return c < DeckSize }

// Suit returns the card's suit.
func (c Card) Suit() Suit { return Suit(uint8(c) / RanksPerSuit) }

// Rank returns the card's rank.
func (c Card) Rank() Rank { return Rank(uint8(c) % RanksPerSuit) }

// Points returns the trick value of the card.
//   - Ace → 11
//   - Ten → 10
//   - King → 4
//   - Queen → 3
//   - Jack → 2
//
// NoCard and out-of-range ids score 0.
func (c Card) Points() int {
	if !c.Valid() {
		return 0
	}
	return rankPoints[c.Rank()]
}

func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().String()
}

// MarshalJSON encodes the card id as a number and NoCard as null.
// Defining it also keeps []Card from being encoded as a byte string.
func (c Card) MarshalJSON() ([]byte, error) {
	if c == NoCard {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts a card id in 0..19 or null.
func (c *Card) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = NoCard
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("card id: %w", err)
	}
	if n < 0 || n >= DeckSize {
		return fmt.Errorf("card id %d out of range", n)
	}
	*c = Card(n)
	return nil
}

// SuitCards returns the five card ids belonging to s.
func SuitCards(s Suit) [RanksPerSuit]Card {
	var out [RanksPerSuit]Card
	for r := Rank(0); r < RanksPerSuit; r++ {
		out[r] = NewCard(s, r)
	}
	return out
}

// Aces lists the four aces in suit order.
var Aces = [NumSuits]Card{0, 5, 10, 15}

// Player identifies a seat. Player1 is the maximizing side.
type Player uint8

const (
	Player1 Player = 1
	Player2 Player = 2
)

// Valid reports whether p is Player1 or Player2.
func (p Player) Valid() bool { return p == Player1 || p == Player2 }

// Other returns the opponent of p.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Phase is the stage of a deal.
type Phase uint8

const (
	PhaseOne Phase = 1 // stock open, no obligation to follow suit
	PhaseTwo Phase = 2 // stock closed or exhausted
)

// Valid reports whether ph is PhaseOne or PhaseTwo.
func (ph Phase) Valid() bool { return ph == PhaseOne || ph == PhaseTwo }
