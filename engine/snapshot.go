package engine

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Transition pairs a legal move with the position the host engine computed for it.
type Transition struct {
	Move Move      `json:"move"`
	Next *Snapshot `json:"next"`
}

// Snapshot is a plain-data State. The host engine fills every accessor field
// and, for positions the agent must decide on, one Transition per legal move.
// A Snapshot never derives successors itself.
type Snapshot struct {
	PlayerPoints  [2]int       `json:"points"`        // indexed by Player-1
	PlayerPending [2]int       `json:"pendingPoints"` // indexed by Player-1
	Trump         Suit         `json:"trumpSuit"`
	GamePhase     Phase        `json:"phase"`
	Stock         int          `json:"stockSize"`
	LeaderID      Player       `json:"leader"`
	Turn          Player       `json:"whoseTurn"`
	OpponentCard  Card         `json:"opponentsPlayedCard"`
	HandCards     []Card       `json:"hand"`
	View          []Tag        `json:"perspective"`
	Candidates    []Transition `json:"candidates,omitempty"`
}

var _ State = (*Snapshot)(nil)

// UnmarshalJSON decodes a snapshot, treating an absent opponentsPlayedCard as NoCard.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	type plain Snapshot
	p := plain{OpponentCard: NoCard}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Snapshot(p)
	return nil
}

// Moves returns the candidates' moves in engine order.
func (s *Snapshot) Moves() []Move {
	moves := make([]Move, len(s.Candidates))
	for i, t := range s.Candidates {
		moves[i] = t.Move
	}
	return moves
}

// Next returns the successor recorded for m.
func (s *Snapshot) Next(m Move) (State, error) {
	for _, t := range s.Candidates {
		if t.Move == m {
			if t.Next == nil {
				return nil, fmt.Errorf("%w: no successor recorded for %s", ErrIllegalMove, m)
			}
			return t.Next, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
}

func (s *Snapshot) WhoseTurn() Player { return s.Turn }

func (s *Snapshot) Points(p Player) int {
	if !p.Valid() {
		return 0
	}
	return s.PlayerPoints[p-1]
}

func (s *Snapshot) PendingPoints(p Player) int {
	if !p.Valid() {
		return 0
	}
	return s.PlayerPending[p-1]
}

func (s *Snapshot) TrumpSuit() Suit { return s.Trump }
func (s *Snapshot) Phase() Phase { return s.GamePhase }
func (s *Snapshot) StockSize() int { return s.Stock }
func (s *Snapshot) Leader() Player { return s.LeaderID }
func (s *Snapshot) OpponentsPlayedCard() Card { return s.OpponentCard }
func (s *Snapshot) Hand() []Card { return slices.Clone(s.HandCards) }
func (s *Snapshot) Perspective() []Tag { return slices.Clone(s.View) }

// Validate checks field ranges on s and every recorded successor.
func (s *Snapshot) Validate() error {
	return s.validate(0)
}

// maxSnapshotDepth bounds successor nesting; an agent only needs one ply.
const maxSnapshotDepth = 4

func (s *Snapshot) validate(depth int) error {
	if depth > maxSnapshotDepth {
		return fmt.Errorf("%w: successors nested deeper than %d", ErrInvalidSnapshot, maxSnapshotDepth)
	}
	if !s.Trump.Valid() {
		return fmt.Errorf("%w: trump suit %d", ErrInvalidSnapshot, s.Trump)
	}
	if !s.GamePhase.Valid() {
		return fmt.Errorf("%w: phase %d", ErrInvalidSnapshot, s.GamePhase)
	}
	if !s.LeaderID.Valid() {
		return fmt.Errorf("%w: leader %d", ErrInvalidSnapshot, s.LeaderID)
	}
	if !s.Turn.Valid() {
		return fmt.Errorf("%w: whose turn %d", ErrInvalidSnapshot, s.Turn)
	}
	if s.Stock < 0 || s.Stock > DeckSize {
		return fmt.Errorf("%w: stock size %d", ErrInvalidSnapshot, s.Stock)
	}
	if s.OpponentCard != NoCard && !s.OpponentCard.Valid() {
		return fmt.Errorf("%w: opponent card %d", ErrInvalidSnapshot, s.OpponentCard)
	}
	for _, c := range s.HandCards {
		if !c.Valid() {
			return fmt.Errorf("%w: hand card %d", ErrInvalidSnapshot, c)
		}
	}
	if len(s.View) != DeckSize {
		return fmt.Errorf("%w: perspective has %d entries, want %d", ErrInvalidSnapshot, len(s.View), DeckSize)
	}
	for i, t := range s.View {
		if !t.Valid() {
			return fmt.Errorf("%w: perspective[%d] = %d", ErrInvalidSnapshot, i, t)
		}
	}
	for i, t := range s.Candidates {
		if err := t.Move.Validate(); err != nil {
			return fmt.Errorf("%w: candidate %d: %v", ErrInvalidSnapshot, i, err)
		}
		if t.Next == nil {
			return fmt.Errorf("%w: candidate %d (%s) has no successor", ErrInvalidSnapshot, i, t.Move)
		}
		if err := t.Next.validate(depth + 1); err != nil {
			return fmt.Errorf("candidate %d (%s): %w", i, t.Move, err)
		}
	}
	return nil
}
