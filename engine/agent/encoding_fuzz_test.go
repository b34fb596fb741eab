package agent

import (
	"testing"

	engine "github.com/schnapsen-lab/mlbot/engine"
)

// fuzzRNG is a deterministic xorshift64 stream seeded from the fuzz input.
type fuzzRNG uint64

func (r *fuzzRNG) next(n int) int {
	x := uint64(*r)
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*r = fuzzRNG(x)
	return int(x % uint64(n))
}

// randomSnapshot builds a well-formed but otherwise arbitrary position.
func randomSnapshot(seed uint64) *engine.Snapshot {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	rng := fuzzRNG(seed)
	s := &engine.Snapshot{
		PlayerPoints:  [2]int{rng.next(90), rng.next(90)},
		PlayerPending: [2]int{rng.next(2) * 20, rng.next(2) * 40},
		Trump:         engine.Suit(rng.next(engine.NumSuits)),
		GamePhase:     engine.Phase(1 + rng.next(2)),
		Stock:         rng.next(11),
		LeaderID:      engine.Player(1 + rng.next(2)),
		Turn:          engine.Player(1 + rng.next(2)),
		OpponentCard:  engine.NoCard,
		View:          make([]engine.Tag, engine.DeckSize),
	}
	if rng.next(2) == 1 {
		s.OpponentCard = engine.Card(rng.next(engine.DeckSize))
	}
	for i := range s.View {
		s.View[i] = engine.Tag(rng.next(engine.NumTags))
	}
	for c := engine.Card(0); c < engine.DeckSize && len(s.HandCards) < 5; c++ {
		if rng.next(3) == 0 {
			s.HandCards = append(s.HandCards, c)
		}
	}
	return s
}

// checkOneHotGroup verifies that exactly one value in out[offset:offset+size] is 1.0
// and all others are 0.0.
func checkOneHotGroup(t *testing.T, out []float64, offset, size int, label string) {
	t.Helper()
	ones := 0
	for j := 0; j < size; j++ {
		switch out[offset+j] {
		case 1:
			ones++
		case 0:
		default:
			t.Errorf("%s: pos %d = %v (not 0 or 1)", label, j, out[offset+j])
			return
		}
	}
	if ones != 1 {
		t.Errorf("%s: %d ones, want 1", label, ones)
	}
}

// FuzzEncode checks, for every table profile, that the vector length is the
// profile's Dim, that every categorical block is a valid one-hot, and that
// normalized points stay in [0,1].
func FuzzEncode(f *testing.F) {
	for _, seed := range []uint64{1, 42, 7777, 0xDEADBEEF, 1 << 40} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, seed uint64) {
		s := randomSnapshot(seed)
		for _, name := range ProfileNames() {
			p, err := LookupProfile(name)
			if err != nil {
				t.Fatal(err)
			}
			out, err := p.Encode(s)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if len(out) != p.Dim() {
				t.Fatalf("%s: len = %d, want %d", name, len(out), p.Dim())
			}

			for i := 0; i < engine.DeckSize; i++ {
				checkOneHotGroup(t, out, i*engine.NumTags, engine.NumTags, name+" perspective")
			}
			for i := PerspectiveDim; i < BaseDim; i++ {
				if out[i] < 0 || out[i] > 1 {
					t.Errorf("%s: normalized feature %d = %v outside [0,1]", name, i, out[i])
				}
			}

			off := BaseDim
			for _, g := range p.Groups() {
				switch g {
				case GroupAceOneHot, GroupTrumpOneHot, GroupMarriageOneHot:
					checkOneHotGroup(t, out, off, g.Width(), name+" "+g.String())
				}
				off += g.Width()
			}

			checkOneHotGroup(t, out, off, engine.NumSuits, name+" trump")
			off += engine.NumSuits
			checkOneHotGroup(t, out, off, 2, name+" phase")
			off += 3 // phase + stock
			checkOneHotGroup(t, out, off, 2, name+" leader")
			off += 2
			checkOneHotGroup(t, out, off, 2, name+" whose turn")
			off += 2
			checkOneHotGroup(t, out, off, OpponentCardDim, name+" opponent card")
			if off+OpponentCardDim != len(out) {
				t.Errorf("%s: layout ends at %d, vector has %d", name, off+OpponentCardDim, len(out))
			}
		}
	})
}
