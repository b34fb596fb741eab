package agent

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/schnapsen-lab/mlbot/engine"
)

// ErrNoMoves is returned when asked to decide in a position without legal moves.
var ErrNoMoves = errors.New("no legal moves")

// Options configures a Bot.
type Options struct {
	Profile Profile
	Scoring ScoringMode
	// Randomize shuffles candidates before evaluation so that ties are
	// broken at random rather than by engine order.
	Randomize bool
	// Rand is the shuffle source. Nil uses the runtime's global source.
	Rand *rand.Rand
	// Logger receives per-candidate debug lines. Nil discards them.
	Logger logrus.FieldLogger
}

// Decision is the outcome of one move selection.
type Decision struct {
	ID         uuid.UUID
	Move       engine.Move
	Value      float64
	Candidates int
}

// Bot picks, among the legal moves, the one whose successor the oracle rates
// best for the side to act: highest value when player 1 is to act, lowest
// otherwise.
type Bot struct {
	profile   Profile
	oracle    Oracle
	scorer    *Scorer
	randomize bool
	log       logrus.FieldLogger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewBot checks that opts.Profile is a named profile, that an oracle which
// reports its input width agrees with it, and that the oracle's classes fit
// opts.Scoring.
func NewBot(oracle Oracle, opts Options) (*Bot, error) {
	if oracle == nil {
		return nil, fmt.Errorf("bot: nil oracle")
	}
	if opts.Profile.Name() == "" {
		return nil, fmt.Errorf("bot: %w: no feature profile given", ErrUnknownProfile)
	}
	if sized, ok := oracle.(interface{ Inputs() int }); ok && sized.Inputs() != opts.Profile.Dim() {
		return nil, fmt.Errorf("bot: %w: oracle takes %d inputs, profile %s produces %d",
			ErrDimensionMismatch, sized.Inputs(), opts.Profile.Name(), opts.Profile.Dim())
	}
	scorer, err := NewScorer(opts.Scoring, oracle.Classes())
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Bot{
		profile:   opts.Profile,
		oracle:    oracle,
		scorer:    scorer,
		randomize: opts.Randomize,
		log:       log,
		rng:       opts.Rand,
	}, nil
}

// Profile returns the feature profile the bot encodes with.
func (b *Bot) Profile() Profile { return b.profile }

// Move returns the selected move for s.
func (b *Bot) Move(s engine.State) (engine.Move, error) {
	d, err := b.Value(s)
	if err != nil {
		return engine.Move{}, err
	}
	return d.Move, nil
}

// Value evaluates every legal move of s and returns the best one with its value.
// A candidate replaces the incumbent only if strictly better.
func (b *Bot) Value(s engine.State) (Decision, error) {
	moves := slices.Clone(s.Moves())
	if len(moves) == 0 {
		return Decision{}, ErrNoMoves
	}
	if b.randomize {
		b.shuffle(moves)
	}

	d := Decision{ID: uuid.New(), Candidates: len(moves)}
	maximizing := s.WhoseTurn() == engine.Player1
	log := b.log.WithField("decision", d.ID)

	for i, m := range moves {
		next, err := s.Next(m)
		if err != nil {
			return Decision{}, fmt.Errorf("apply %s: %w", m, err)
		}
		v, err := b.Heuristic(next)
		if err != nil {
			return Decision{}, fmt.Errorf("evaluate %s: %w", m, err)
		}
		log.WithFields(logrus.Fields{"move": m.String(), "value": v}).Debug("candidate")

		if i == 0 || (maximizing && v > d.Value) || (!maximizing && v < d.Value) {
			d.Move = m
			d.Value = v
		}
	}

	log.WithFields(logrus.Fields{
		"move":       d.Move.String(),
		"value":      d.Value,
		"candidates": d.Candidates,
		"maximizing": maximizing,
	}).Debug("selected")
	return d, nil
}

// Heuristic returns the oracle's scalar rating of s.
func (b *Bot) Heuristic(s engine.State) (float64, error) {
	features, err := b.profile.Encode(s)
	if err != nil {
		return 0, err
	}
	probs, err := b.oracle.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return b.scorer.Score(probs)
}

func (b *Bot) shuffle(moves []engine.Move) {
	swap := func(i, j int) { moves[i], moves[j] = moves[j], moves[i] }
	if b.rng == nil {
		rand.Shuffle(len(moves), swap)
		return
	}
	b.rngMu.Lock()
	b.rng.Shuffle(len(moves), swap)
	b.rngMu.Unlock()
}
