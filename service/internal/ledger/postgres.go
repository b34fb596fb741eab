package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createMatchResults = `
CREATE TABLE IF NOT EXISTS match_results (
	id          UUID PRIMARY KEY,
	bot         TEXT NOT NULL,
	opponent    TEXT NOT NULL DEFAULT '',
	won         BOOLEAN NOT NULL,
	game_points SMALLINT NOT NULL,
	played_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS match_results_bot_idx ON match_results (bot);
`

// Postgres stores outcomes in the match_results table.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Ledger = (*Postgres)(nil)

// OpenPostgres connects to dsn and creates match_results if missing.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres ledger: empty database url")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres ledger: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ledger: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createMatchResults); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ledger: migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Record(ctx context.Context, o Outcome) error {
	if err := normalize(&o); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO match_results (id, bot, opponent, won, game_points, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Bot, o.Opponent, o.Won, o.GamePoints, o.PlayedAt)
	if err != nil {
		return fmt.Errorf("record outcome %s: %w", o.ID, err)
	}
	return nil
}

func (p *Postgres) Tally(ctx context.Context, bot string) (Tally, error) {
	t := Tally{Bot: bot}
	err := p.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE won) FROM match_results WHERE bot = $1`,
		bot).Scan(&t.Games, &t.Won)
	if err != nil {
		return Tally{}, fmt.Errorf("tally %s: %w", bot, err)
	}
	return t, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
