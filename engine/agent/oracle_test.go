package agent

import (
	"errors"
	"slices"
	"testing"
)

// stubOracle returns probs(features) for a fixed class list.
type stubOracle struct {
	classes []string
	probs   func(features []float64) []float64
	calls   int
}

func (s *stubOracle) Classes() []string { return s.classes }

func (s *stubOracle) PredictProba(features []float64) ([]float64, error) {
	s.calls++
	return s.probs(features), nil
}

func fixedOracle(classes []string, probs ...float64) *stubOracle {
	return &stubOracle{
		classes: classes,
		probs:   func([]float64) []float64 { return probs },
	}
}

// sizedOracle is a fixedOracle that also reports its input width, like a
// trained network does.
type sizedOracle struct {
	*stubOracle
	inputs int
}

func (s sizedOracle) Inputs() int { return s.inputs }

func TestParseScoringMode(t *testing.T) {
	tests := map[string]ScoringMode{
		"binary":   ScoringBinary,
		" Graded ": ScoringGraded,
	}
	for in, want := range tests {
		got, err := ParseScoringMode(in)
		if err != nil {
			t.Errorf("ParseScoringMode(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseScoringMode(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseScoringMode("regression"); err == nil {
		t.Error("ParseScoringMode(regression) succeeded")
	}
}

func TestScoringLabels(t *testing.T) {
	if got := ScoringBinary.Labels(); !slices.Equal(got, []string{"lost", "won"}) {
		t.Errorf("binary labels = %v", got)
	}
	want := []string{"lost1", "lost2", "lost3", "won1", "won2", "won3"}
	if got := ScoringGraded.Labels(); !slices.Equal(got, want) {
		t.Errorf("graded labels = %v, want %v", got, want)
	}
}

// TestBinaryScore: P(won)=0.7, P(lost)=0.3 scores 0.4 whatever the class order.
func TestBinaryScore(t *testing.T) {
	tests := []struct {
		classes []string
		probs   []float64
	}{
		{[]string{"won", "lost"}, []float64{0.7, 0.3}},
		{[]string{"lost", "won"}, []float64{0.3, 0.7}},
	}
	for _, tt := range tests {
		s, err := NewScorer(ScoringBinary, tt.classes)
		if err != nil {
			t.Fatalf("NewScorer(%v): %v", tt.classes, err)
		}
		v, err := s.Score(tt.probs)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if !near(v, 0.4, 1e-12) {
			t.Errorf("classes %v: score = %v, want 0.4", tt.classes, v)
		}
	}
}

func TestGradedScore(t *testing.T) {
	classes := []string{"lost1", "lost2", "lost3", "won1", "won2", "won3"}
	s, err := NewScorer(ScoringGraded, classes)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		probs []float64
		want  float64
	}{
		// 1·(0.1−0.2) + 2·(0.3−0.0) + 3·(0.3−0.1) = −0.1 + 0.6 + 0.6
		{[]float64{0.2, 0.0, 0.1, 0.1, 0.3, 0.3}, 1.1},
		// A certain three-level win is the maximum.
		{[]float64{0, 0, 0, 0, 0, 1}, 3},
		{[]float64{1, 0, 0, 0, 0, 0}, -1},
	}
	for _, tt := range tests {
		v, err := s.Score(tt.probs)
		if err != nil {
			t.Fatalf("Score(%v): %v", tt.probs, err)
		}
		if !near(v, tt.want, 1e-12) {
			t.Errorf("Score(%v) = %v, want %v", tt.probs, v, tt.want)
		}
	}

	if _, err := s.Score([]float64{0.5, 0.5}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short probabilities: %v, want ErrDimensionMismatch", err)
	}
}

func TestScorerClassMismatch(t *testing.T) {
	tests := []struct {
		mode    ScoringMode
		classes []string
	}{
		{ScoringBinary, []string{"won"}},
		{ScoringBinary, []string{"won", "draw"}},
		{ScoringBinary, []string{"won", "won"}},
		{ScoringBinary, []string{"won1", "lost1"}},
		{ScoringGraded, []string{"won", "lost"}},
		{ScoringGraded, []string{"won1", "won2", "won3", "lost1", "lost2", "lost4"}},
		{ScoringMode(9), []string{"won", "lost"}},
	}
	for _, tt := range tests {
		if _, err := NewScorer(tt.mode, tt.classes); !errors.Is(err, ErrClassMismatch) {
			t.Errorf("%s %v: %v, want ErrClassMismatch", tt.mode, tt.classes, err)
		}
	}
}
