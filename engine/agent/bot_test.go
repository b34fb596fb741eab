package agent

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	engine "github.com/schnapsen-lab/mlbot/engine"
	"github.com/schnapsen-lab/mlbot/engine/enginetest"
)

var binaryClasses = []string{"won", "lost"}

// cardValueOracle rates a successor by the points of the card just played,
// read back from the opponent-card block of the feature vector.
func cardValueOracle() *stubOracle {
	return &stubOracle{
		classes: binaryClasses,
		probs: func(f []float64) []float64 {
			block := f[len(f)-OpponentCardDim:]
			won := 0.5
			for i, v := range block[:engine.DeckSize] {
				if v == 1 {
					won = 0.5 + float64(engine.Card(i).Points())/30
				}
			}
			return []float64{won, 1 - won}
		},
	}
}

// position returns hand A♣ T♣ J♣ with one candidate per card.
func position(turn engine.Player) *engine.Snapshot {
	s := enginetest.Position(engine.SuitHearts, 0, 1, 4)
	s.Turn = turn
	return enginetest.Branch(s, enginetest.PlayAll(s.HandCards), func(_ int, m engine.Move) *engine.Snapshot {
		return enginetest.Played(s, m)
	})
}

func newTestBot(t *testing.T, o Oracle, randomize bool) *Bot {
	t.Helper()
	b, err := NewBot(o, Options{
		Profile:   mustProfile(t, "model22"),
		Scoring:   ScoringBinary,
		Randomize: randomize,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b
}

// TestBotMaximizesForPlayer1: the ace leaves the best successor, 2·11/30.
func TestBotMaximizesForPlayer1(t *testing.T) {
	b := newTestBot(t, cardValueOracle(), true)
	d, err := b.Value(position(engine.Player1))
	if err != nil {
		t.Fatal(err)
	}
	if d.Move != engine.Play(0) {
		t.Errorf("move = %s, want AC", d.Move)
	}
	if !near(d.Value, 2*(11.0/30), 1e-12) {
		t.Errorf("value = %v, want %v", d.Value, 2*(11.0/30))
	}
	if d.Candidates != 3 {
		t.Errorf("candidates = %d, want 3", d.Candidates)
	}
}

func TestBotMinimizesForPlayer2(t *testing.T) {
	b := newTestBot(t, cardValueOracle(), true)
	m, err := b.Move(position(engine.Player2))
	if err != nil {
		t.Fatal(err)
	}
	if m != engine.Play(4) {
		t.Errorf("move = %s, want JC", m)
	}
}

// TestBotTieKeepsFirst: with shuffling off, equal values keep engine order.
func TestBotTieKeepsFirst(t *testing.T) {
	o := fixedOracle(binaryClasses, 0.6, 0.4)
	b := newTestBot(t, o, false)
	s := position(engine.Player1)

	first, err := b.Value(s)
	if err != nil {
		t.Fatal(err)
	}
	if first.Move != engine.Play(0) {
		t.Errorf("move = %s, want AC", first.Move)
	}
	if !near(first.Value, 0.2, 1e-12) {
		t.Errorf("value = %v, want 0.2", first.Value)
	}
	if o.calls != 3 {
		t.Errorf("oracle called %d times, want 3", o.calls)
	}

	for range 10 {
		again, err := b.Value(s)
		if err != nil {
			t.Fatal(err)
		}
		if again.Move != first.Move || again.Value != first.Value {
			t.Errorf("repeat decision = %s/%v, want %s/%v", again.Move, again.Value, first.Move, first.Value)
		}
		if again.ID == first.ID {
			t.Errorf("decision ID %s reused", again.ID)
		}
	}
}

// TestBotShuffledMovesAreLegal: randomized ties still return a legal move,
// and over many calls more than one candidate gets picked.
func TestBotShuffledMovesAreLegal(t *testing.T) {
	b := newTestBot(t, fixedOracle(binaryClasses, 0.5, 0.5), true)
	s := position(engine.Player1)
	picked := make(map[engine.Move]bool)
	for range 50 {
		m, err := b.Move(s)
		if err != nil {
			t.Fatal(err)
		}
		if !engine.HasMove(s, m) {
			t.Errorf("illegal move %s", m)
		}
		picked[m] = true
	}
	if len(picked) < 2 {
		t.Errorf("shuffled ties always picked %v", picked)
	}
	// The snapshot's own candidate order is untouched.
	if got, want := s.Moves(), enginetest.PlayAll([]engine.Card{0, 1, 4}); !slices.Equal(got, want) {
		t.Errorf("candidate order = %v, want %v", got, want)
	}
}

func TestBotNoMoves(t *testing.T) {
	b := newTestBot(t, cardValueOracle(), false)
	if _, err := b.Move(enginetest.Position(engine.SuitHearts, 0)); !errors.Is(err, ErrNoMoves) {
		t.Errorf("err = %v, want ErrNoMoves", err)
	}
}

func TestBotMissingSuccessor(t *testing.T) {
	b := newTestBot(t, cardValueOracle(), false)
	s := position(engine.Player1)
	s.Candidates[1].Next = nil
	if _, err := b.Move(s); !errors.Is(err, engine.ErrIllegalMove) {
		t.Errorf("err = %v, want ErrIllegalMove", err)
	}
}

// TestBotClassMismatch covers every way NewBot refuses an oracle/profile pair.
func TestBotClassMismatch(t *testing.T) {
	tests := []struct {
		name   string
		oracle Oracle
		opts   Options
		want   error
	}{
		{
			name:   "binary classes in graded mode",
			oracle: fixedOracle(binaryClasses, 0.5, 0.5),
			opts:   Options{Profile: mustProfile(t, "model"), Scoring: ScoringGraded},
			want:   ErrClassMismatch,
		},
		{
			name:   "zero profile",
			oracle: fixedOracle(binaryClasses, 0.6, 0.4),
			opts:   Options{Scoring: ScoringBinary},
			want:   ErrUnknownProfile,
		},
		{
			name:   "oracle wider than profile",
			oracle: sizedOracle{fixedOracle(binaryClasses, 0.5, 0.5), mustProfile(t, "model21").Dim()},
			opts:   Options{Profile: mustProfile(t, "model22"), Scoring: ScoringBinary},
			want:   ErrDimensionMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBot(tt.oracle, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if b != nil {
				t.Error("NewBot returned a bot alongside the error")
			}
		})
	}

	if _, err := NewBot(nil, Options{Profile: mustProfile(t, "model")}); err == nil {
		t.Error("NewBot accepted a nil oracle")
	}

	sized := sizedOracle{fixedOracle(binaryClasses, 0.5, 0.5), mustProfile(t, "model22").Dim()}
	if _, err := NewBot(sized, Options{Profile: mustProfile(t, "model22")}); err != nil {
		t.Errorf("matching input width refused: %v", err)
	}
}

// TestBotGradedScoring: P(won3)=P(lost1)=0.5 scores 3·0.5 − 1·0.5.
func TestBotGradedScoring(t *testing.T) {
	o := fixedOracle([]string{"won1", "won2", "won3", "lost1", "lost2", "lost3"}, 0, 0, 0.5, 0.5, 0, 0)
	b, err := NewBot(o, Options{Profile: mustProfile(t, "model"), Scoring: ScoringGraded})
	if err != nil {
		t.Fatal(err)
	}
	v, err := b.Heuristic(position(engine.Player1))
	if err != nil {
		t.Fatal(err)
	}
	if !near(v, 1.0, 1e-12) {
		t.Errorf("heuristic = %v, want 1", v)
	}
}

// TestBotLogsDecision: one debug line per candidate, then the selection.
func TestBotLogsDecision(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	b, err := NewBot(cardValueOracle(), Options{
		Profile: mustProfile(t, "model22"),
		Scoring: ScoringBinary,
		Logger:  logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	d, err := b.Value(position(engine.Player1))
	if err != nil {
		t.Fatal(err)
	}

	if n := len(hook.AllEntries()); n != 4 {
		t.Fatalf("logged %d entries, want 4", n)
	}
	last := hook.LastEntry()
	if last.Message != "selected" {
		t.Errorf("last message = %q, want selected", last.Message)
	}
	if last.Data["decision"] != d.ID {
		t.Errorf("decision field = %v, want %s", last.Data["decision"], d.ID)
	}
	if last.Data["move"] != "AC" {
		t.Errorf("move field = %v, want AC", last.Data["move"])
	}
}
