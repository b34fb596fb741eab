package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis keeps running counters in the hash mlbot:tally:<bot>. Individual
// outcomes are not retained.
type Redis struct {
	client *redis.Client
}

var _ Ledger = (*Redis)(nil)

// OpenRedis connects to addr and pings it.
func OpenRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ledger: ping %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis { return &Redis{client: client} }

func tallyKey(bot string) string { return "mlbot:tally:" + bot }

func (r *Redis) Record(ctx context.Context, o Outcome) error {
	if err := normalize(&o); err != nil {
		return err
	}
	won := int64(0)
	if o.Won {
		won = 1
	}
	key := tallyKey(o.Bot)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, "games", 1)
		pipe.HIncrBy(ctx, key, "won", won)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record outcome %s: %w", o.ID, err)
	}
	return nil
}

func (r *Redis) Tally(ctx context.Context, bot string) (Tally, error) {
	vals, err := r.client.HMGet(ctx, tallyKey(bot), "games", "won").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Tally{}, fmt.Errorf("tally %s: %w", bot, err)
	}
	t := Tally{Bot: bot}
	if t.Games, err = hashInt(vals, 0); err != nil {
		return Tally{}, fmt.Errorf("tally %s: games: %w", bot, err)
	}
	if t.Won, err = hashInt(vals, 1); err != nil {
		return Tally{}, fmt.Errorf("tally %s: won: %w", bot, err)
	}
	return t, nil
}

// hashInt parses vals[i], treating a missing field as zero.
func hashInt(vals []any, i int) (int, error) {
	if i >= len(vals) || vals[i] == nil {
		return 0, nil
	}
	s, ok := vals[i].(string)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", vals[i])
	}
	return strconv.Atoi(s)
}

func (r *Redis) Close() error { return r.client.Close() }
