// Package engine defines the card model of a two-player Schnapsen deal and the
// read-only state contract a move-selecting agent consumes. Game rules live in
// the host engine; this package only describes what it exposes.
package engine

import "errors"

var (
	// ErrIllegalMove is returned by State.Next for a move not in Moves().
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidSnapshot is wrapped by Snapshot.Validate failures.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// State is the query surface of a game position. Implementations must be
// immutable: Next returns a new State and never modifies the receiver.
type State interface {
	// Moves lists the legal moves of the player to act.
	Moves() []Move
	// Next returns the position after m.
	Next(m Move) (State, error)
	// WhoseTurn returns the player to act.
	WhoseTurn() Player
	// Points returns the committed points of p.
	Points(p Player) int
	// PendingPoints returns points p has declared but not yet banked.
	PendingPoints(p Player) int
	TrumpSuit() Suit
	Phase() Phase
	StockSize() int
	// Leader returns the player who leads the current trick.
	Leader() Player
	// OpponentsPlayedCard returns the card the opponent led, or NoCard.
	OpponentsPlayedCard() Card
	// Hand returns the acting player's cards.
	Hand() []Card
	// Perspective returns DeckSize location tags indexed by card id.
	Perspective() []Tag
}

// Opponent returns the player who is not to act in s.
func Opponent(s State) Player { return s.WhoseTurn().Other() }

// HasMove reports whether m is among s.Moves().
func HasMove(s State, m Move) bool {
	for _, c := range s.Moves() {
		if c == m {
			return true
		}
	}
	return false
}
