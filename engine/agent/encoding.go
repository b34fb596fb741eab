package agent

import (
	"errors"
	"fmt"

	engine "github.com/schnapsen-lab/mlbot/engine"
)

// ErrDimensionMismatch is returned when a vector's length disagrees with a profile or model.
var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// encodeInput caches the state reads shared by the feature groups.
type encodeInput struct {
	state     engine.State
	p1, p2    float64
	total     float64
	trump     engine.Suit
	hand      map[engine.Card]bool
	turnScore float64
}

func (in *encodeInput) holds(c engine.Card) bool { return in.hand[c] }

// groupEncoders computes each feature group into a slice of its Width.
var groupEncoders = [NumFeatureGroups]func(in *encodeInput, dst []float64){
	GroupPointsSquared: func(in *encodeInput, dst []float64) {
		dst[0] = in.p1 * in.p1
		dst[1] = in.p2 * in.p2
	},
	GroupDiffOverTotal: func(in *encodeInput, dst []float64) {
		if in.total > 0 {
			dst[0] = (in.p1 - in.p2) / in.total
			dst[1] = (in.p2 - in.p1) / in.total
		}
	},
	GroupDiffOverTotalSquared: func(in *encodeInput, dst []float64) {
		if in.total > 0 {
			d := (in.p1 - in.p2) / in.total
			dst[0] = d * d
			dst[1] = d * d
		}
	},
	GroupPointDiff: func(in *encodeInput, dst []float64) {
		dst[0] = in.p1 - in.p2
		dst[1] = in.p2 - in.p1
	},
	GroupAceOneHot: func(in *encodeInput, dst []float64) {
		n := 0
		for _, a := range engine.Aces {
			if in.holds(a) {
				n++
			}
		}
		dst[n] = 1
	},
	GroupMarriageOneHot: func(in *encodeInput, dst []float64) {
		for _, m := range in.state.Moves() {
			if m.Kind == engine.MoveMarriage {
				dst[0] = 1
				return
			}
		}
		dst[1] = 1
	},
	GroupTrumpOneHot: func(in *encodeInput, dst []float64) {
		n := 0
		for _, c := range engine.SuitCards(in.trump) {
			if in.holds(c) {
				n++
			}
		}
		dst[n] = 1
	},
	GroupPointsToWin: func(in *encodeInput, dst []float64) {
		dst[0] = engine.WinningPoints - in.p1
		dst[1] = engine.WinningPoints - in.p2
	},
	GroupPointsToWinSquared: func(in *encodeInput, dst []float64) {
		d1 := engine.WinningPoints - in.p1
		d2 := engine.WinningPoints - in.p2
		dst[0] = d1 * d1
		dst[1] = d2 * d2
	},
	GroupHandPointsOverToWin: func(in *encodeInput, dst []float64) {
		sum := 0
		for c := range in.hand {
			sum += c.Points()
		}
		dst[0] = float64(sum) / (engine.WinningPoints + handPointsEpsilon - in.turnScore)
	},
}

// ratio returns a/(a+b) and b/(a+b), or zeros when the sum is not positive.
func ratio(a, b float64) (float64, float64) {
	t := a + b
	if t <= 0 {
		return 0, 0
	}
	return a / t, b / t
}

// oneHot2 returns the slot index of a two-way category keyed on player 1.
func oneHot2(isFirst bool) int {
	if isFirst {
		return 0
	}
	return 1
}

// Encode returns the feature vector of s under p. The result always has
// length p.Dim(); malformed states are reported as errors instead.
func (p Profile) Encode(s engine.State) ([]float64, error) {
	out := make([]float64, p.Dim())
	if err := p.EncodeInto(s, out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeInto writes the feature vector of s into out, which must have length
// p.Dim(). out is zeroed before writing.
//
// Layout:
//
//	[0-119]  perspective: 20 cards × 6-dim one-hot (U, S, P1H, P2H, P1W, P2W)
//	[120-121] points p1/total, p2/total
//	[122-123] pending points p1/total, p2/total
//	[...]    enabled feature groups, in FeatureGroup order
//	tail:    trump suit (4), phase (2), stock/10 (1), leader (2), whose turn (2),
//	         opponent's played card (21, index 20 = none)
func (p Profile) EncodeInto(s engine.State, out []float64) error {
	if len(out) != p.Dim() {
		return fmt.Errorf("%w: profile %s needs %d, got %d", ErrDimensionMismatch, p.name, p.Dim(), len(out))
	}
	clear(out)

	view := s.Perspective()
	if len(view) != engine.DeckSize {
		return fmt.Errorf("perspective has %d entries, want %d", len(view), engine.DeckSize)
	}
	trump := s.TrumpSuit()
	if !trump.Valid() {
		return fmt.Errorf("invalid trump suit %d", uint8(trump))
	}
	oppCard := s.OpponentsPlayedCard()
	if oppCard != engine.NoCard && !oppCard.Valid() {
		return fmt.Errorf("invalid opponent card %d", uint8(oppCard))
	}

	offset := 0

	// Perspective: 20 × 6 = 120
	for i, tag := range view {
		if !tag.Valid() {
			return fmt.Errorf("perspective[%d]: invalid tag %d", i, uint8(tag))
		}
		out[offset+int(tag)] = 1
		offset += engine.NumTags
	}

	in := encodeInput{
		state: s,
		p1:    float64(s.Points(engine.Player1)),
		p2:    float64(s.Points(engine.Player2)),
		trump: trump,
		hand:  make(map[engine.Card]bool),
	}
	in.total = in.p1 + in.p2
	in.turnScore = float64(s.Points(s.WhoseTurn()))
	for _, c := range s.Hand() {
		in.hand[c] = true
	}

	// Normalized points and pending points
	out[offset], out[offset+1] = ratio(in.p1, in.p2)
	offset += 2
	out[offset], out[offset+1] = ratio(
		float64(s.PendingPoints(engine.Player1)),
		float64(s.PendingPoints(engine.Player2)),
	)
	offset += 2
	// offset = 124

	for _, g := range p.Groups() {
		w := g.Width()
		groupEncoders[g](&in, out[offset:offset+w])
		offset += w
	}

	// Trump suit: 4-dim one-hot
	out[offset+int(trump)] = 1
	offset += engine.NumSuits

	// Phase: 2-dim one-hot
	out[offset+oneHot2(s.Phase() == engine.PhaseOne)] = 1
	offset += 2

	// Stock size
	out[offset] = float64(s.StockSize()) / stockScale
	offset++

	// Leader: 2-dim one-hot
	out[offset+oneHot2(s.Leader() == engine.Player1)] = 1
	offset += 2

	// Whose turn: 2-dim one-hot
	out[offset+oneHot2(s.WhoseTurn() == engine.Player1)] = 1
	offset += 2

	// Opponent's played card: 21-dim one-hot
	idx := noOpponentCardIdx
	if oppCard != engine.NoCard {
		idx = int(oppCard)
	}
	out[offset+idx] = 1

	return nil
}
