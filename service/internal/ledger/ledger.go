// Package ledger records finished games per bot so that match strength can be
// tested for significance.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown ledger backend")
	// ErrInvalidOutcome is returned by Record for an outcome without a bot name.
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// Outcome is one finished game from a bot's point of view.
type Outcome struct {
	ID         uuid.UUID `json:"id"`
	Bot        string    `json:"bot"`
	Opponent   string    `json:"opponent,omitempty"`
	Won        bool      `json:"won"`
	GamePoints int       `json:"gamePoints"` // 1..3
	PlayedAt   time.Time `json:"playedAt"`
}

// Tally is the aggregate record of one bot.
type Tally struct {
	Bot   string `json:"bot"`
	Games int    `json:"games"`
	Won   int    `json:"won"`
}

// Lost returns the number of games lost.
func (t Tally) Lost() int { return t.Games - t.Won }

// Ledger stores outcomes and aggregates them per bot.
type Ledger interface {
	Record(ctx context.Context, o Outcome) error
	Tally(ctx context.Context, bot string) (Tally, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string // memory, postgres or redis
	DatabaseURL string
	RedisAddr   string
}

// Open returns the backend named in opts.
func Open(ctx context.Context, opts Options) (Ledger, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		return OpenPostgres(ctx, opts.DatabaseURL)
	case "redis":
		return OpenRedis(ctx, opts.RedisAddr)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// normalize fills defaults and checks o before it is stored.
func normalize(o *Outcome) error {
	if strings.TrimSpace(o.Bot) == "" {
		return fmt.Errorf("%w: empty bot name", ErrInvalidOutcome)
	}
	if o.GamePoints == 0 {
		o.GamePoints = 1
	}
	if o.GamePoints < 1 || o.GamePoints > 3 {
		return fmt.Errorf("%w: game points %d", ErrInvalidOutcome, o.GamePoints)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.PlayedAt.IsZero() {
		o.PlayedAt = time.Now().UTC()
	}
	return nil
}
