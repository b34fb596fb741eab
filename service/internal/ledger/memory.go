package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process ledger; it forgets everything on exit.
type Memory struct {
	mu       sync.Mutex
	outcomes []Outcome
}

var _ Ledger = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Record(_ context.Context, o Outcome) error {
	if err := normalize(&o); err != nil {
		return err
	}
	m.mu.Lock()
	m.outcomes = append(m.outcomes, o)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Tally(_ context.Context, bot string) (Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := Tally{Bot: bot}
	for _, o := range m.outcomes {
		if o.Bot != bot {
			continue
		}
		t.Games++
		if o.Won {
			t.Won++
		}
	}
	return t, nil
}

// Outcomes returns a copy of everything recorded for bot, oldest first.
func (m *Memory) Outcomes(bot string) []Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Outcome
	for _, o := range m.outcomes {
		if o.Bot == bot {
			out = append(out, o)
		}
	}
	return out
}

func (m *Memory) Close() error { return nil }
