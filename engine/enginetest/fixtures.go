// Package enginetest builds engine.Snapshot fixtures for tests.
package enginetest

import "github.com/schnapsen-lab/mlbot/engine"

// Position returns a phase-one snapshot with player 1 to act and lead,
// holding hand. Hand cards are tagged P1H, the rest of the deck S, and
// no opponent card is on the table.
func Position(trump engine.Suit, hand ...engine.Card) *engine.Snapshot {
	view := make([]engine.Tag, engine.DeckSize)
	for i := range view {
		view[i] = engine.TagStock
	}
	for _, c := range hand {
		view[c] = engine.TagP1Hand
	}
	return &engine.Snapshot{
		Trump:        trump,
		GamePhase:    engine.PhaseOne,
		Stock:        engine.DeckSize - 2*len(hand),
		LeaderID:     engine.Player1,
		Turn:         engine.Player1,
		OpponentCard: engine.NoCard,
		HandCards:    append([]engine.Card(nil), hand...),
		View:         view,
	}
}

// WithPoints sets committed points and returns s.
func WithPoints(s *engine.Snapshot, p1, p2 int) *engine.Snapshot {
	s.PlayerPoints = [2]int{p1, p2}
	return s
}

// Clone returns a deep copy of s without candidates.
func Clone(s *engine.Snapshot) *engine.Snapshot {
	c := *s
	c.HandCards = append([]engine.Card(nil), s.HandCards...)
	c.View = append([]engine.Tag(nil), s.View...)
	c.Candidates = nil
	return &c
}

// Branch attaches one candidate per move. next(i, m) builds the successor of
// the i-th move; by default use Played to derive one.
func Branch(s *engine.Snapshot, moves []engine.Move, next func(i int, m engine.Move) *engine.Snapshot) *engine.Snapshot {
	s.Candidates = make([]engine.Transition, len(moves))
	for i, m := range moves {
		s.Candidates[i] = engine.Transition{Move: m, Next: next(i, m)}
	}
	return s
}

// Played returns the position after the acting player leads m.Card: the card
// leaves the hand, the opponent is to act, and the opponent's view of the
// table shows the card. Points are left untouched.
func Played(s *engine.Snapshot, m engine.Move) *engine.Snapshot {
	n := Clone(s)
	if m.Kind == engine.MoveTrumpExchange {
		return n
	}
	kept := n.HandCards[:0]
	for _, c := range n.HandCards {
		if c != m.Card {
			kept = append(kept, c)
		}
	}
	n.HandCards = kept
	n.View[m.Card] = engine.TagUnknown
	n.Turn = s.Turn.Other()
	n.OpponentCard = m.Card
	return n
}

// PlayAll returns a plain play for every card in hand.
func PlayAll(hand []engine.Card) []engine.Move {
	moves := make([]engine.Move, len(hand))
	for i, c := range hand {
		moves[i] = engine.Play(c)
	}
	return moves
}
