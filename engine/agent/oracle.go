package agent

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrClassMismatch is returned when an oracle's labels do not fit a scoring mode.
var ErrClassMismatch = errors.New("oracle classes do not match scoring mode")

// Oracle is a pre-trained classifier: given a feature vector it returns one
// probability per entry of Classes(), in the same order.
type Oracle interface {
	Classes() []string
	PredictProba(features []float64) ([]float64, error)
}

// ScoringMode selects how class probabilities collapse into a scalar.
type ScoringMode uint8

const (
	// ScoringBinary: P(won) − P(lost).
	ScoringBinary ScoringMode = iota
	// ScoringGraded: Σ k·(P(won<k>) − P(lost<k>)) for k = 1..3.
	ScoringGraded
)

// MaxGrade is the most decisive outcome level in graded scoring.
const MaxGrade = 3

func (m ScoringMode) String() string {
	switch m {
	case ScoringBinary:
		return "binary"
	case ScoringGraded:
		return "graded"
	}
	return fmt.Sprintf("ScoringMode(%d)", uint8(m))
}

// ParseScoringMode accepts "binary" or "graded".
func ParseScoringMode(s string) (ScoringMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary":
		return ScoringBinary, nil
	case "graded":
		return ScoringGraded, nil
	}
	return 0, fmt.Errorf("unknown scoring mode %q", s)
}

// labelWeights returns the class label → weight table for m.
func (m ScoringMode) labelWeights() map[string]float64 {
	switch m {
	case ScoringBinary:
		return map[string]float64{"won": 1, "lost": -1}
	case ScoringGraded:
		w := make(map[string]float64, 2*MaxGrade)
		for k := 1; k <= MaxGrade; k++ {
			w[fmt.Sprintf("won%d", k)] = float64(k)
			w[fmt.Sprintf("lost%d", k)] = -float64(k)
		}
		return w
	}
	return nil
}

// Labels returns the class labels m expects, sorted.
func (m ScoringMode) Labels() []string {
	w := m.labelWeights()
	labels := make([]string, 0, len(w))
	for l := range w {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Scorer turns a probability vector, in a fixed class order, into a scalar.
type Scorer struct {
	mode    ScoringMode
	weights []float64
}

// NewScorer binds m's label weights to the oracle class order in classes.
// The label sets must be equal.
func NewScorer(m ScoringMode, classes []string) (*Scorer, error) {
	table := m.labelWeights()
	if table == nil {
		return nil, fmt.Errorf("%w: unknown mode %d", ErrClassMismatch, uint8(m))
	}
	if len(classes) != len(table) {
		return nil, fmt.Errorf("%w: %s mode wants %v, oracle has %v", ErrClassMismatch, m, m.Labels(), classes)
	}
	weights := make([]float64, len(classes))
	seen := make(map[string]bool, len(classes))
	for i, c := range classes {
		w, ok := table[c]
		if !ok || seen[c] {
			return nil, fmt.Errorf("%w: %s mode wants %v, oracle has %v", ErrClassMismatch, m, m.Labels(), classes)
		}
		seen[c] = true
		weights[i] = w
	}
	return &Scorer{mode: m, weights: weights}, nil
}

// Mode returns the scoring mode.
func (s *Scorer) Mode() ScoringMode { return s.mode }

// Score returns Σ weight·probability.
func (s *Scorer) Score(probs []float64) (float64, error) {
	if len(probs) != len(s.weights) {
		return 0, fmt.Errorf("%w: %d probabilities for %d classes", ErrDimensionMismatch, len(probs), len(s.weights))
	}
	v := 0.0
	for i, p := range probs {
		v += s.weights[i] * p
	}
	return v, nil
}
