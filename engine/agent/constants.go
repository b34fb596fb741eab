package agent

import engine "github.com/schnapsen-lab/mlbot/engine"

// Feature layout. A vector is the base block, then the enabled optional
// groups in FeatureGroup order, then the tail.
const (
	PerspectiveDim  = engine.DeckSize * engine.NumTags // 120: per-card location one-hot
	BaseDim         = PerspectiveDim + 4                // 124: + normalized points and pending points
	OpponentCardDim = engine.DeckSize + 1               // 21: card ids 0-19, 20 = none

	// TailDim covers trump suit (4), phase (2), stock size (1), leader (2),
	// whose turn (2) and the opponent's card.
	TailDim = engine.NumSuits + 2 + 1 + 2 + 2 + OpponentCardDim // 32

	noOpponentCardIdx = engine.DeckSize

	// stockScale normalizes the stock size.
	stockScale = 10.0
	// handPointsEpsilon keeps the points-in-hand denominator off zero at exactly 66 points.
	handPointsEpsilon = 0.01
)
