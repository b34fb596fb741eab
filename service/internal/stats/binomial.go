// Package stats holds the match-outcome significance test.
package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mathext"
)

// ErrInvalidCounts is returned for counts outside 0 <= won <= games.
var ErrInvalidCounts = errors.New("invalid game counts")

// BinomialTail returns P(X >= won) for X ~ Binomial(games, 0.5): the chance
// that two equally strong bots produce at least this many wins for one side.
func BinomialTail(won, games int) (float64, error) {
	if games < 0 || won < 0 || won > games {
		return 0, fmt.Errorf("%w: won %d of %d", ErrInvalidCounts, won, games)
	}
	if won == 0 {
		return 1, nil
	}
	// P(X >= k) = I_p(k, n-k+1). Evaluated directly, not as 1-CDF, so tiny
	// tails keep their precision.
	return mathext.RegIncBeta(float64(won), float64(games-won+1), 0.5), nil
}

// Significant reports whether the tail probability is below alpha.
func Significant(won, games int, alpha float64) (bool, float64, error) {
	p, err := BinomialTail(won, games)
	if err != nil {
		return false, 0, err
	}
	return p < alpha, p, nil
}
