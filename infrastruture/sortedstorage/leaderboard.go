package sortedstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotRanked is returned for members without a score.
var ErrNotRanked = errors.New("member has no score")

var _ i.Leaderboard = &RedisLeaderboard{}

// RedisLeaderboard keeps best scores in Redis sorted sets with TTL support.
type RedisLeaderboard struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard with the provided Redis client and TTL.
func NewRedisLeaderboard(client *redis.Client, ttlSeconds int) *RedisLeaderboard {
	board := &RedisLeaderboard{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board
}

// Submit records score for member unless the member already has a better one. The
// read-compare-write runs under a distributed lock of the board.
func (rl *RedisLeaderboard) Submit(ctx context.Context, board, member string, score float64) error {
	mutex := rl.locker.NewMutex(board + ":submit_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking %s: %w", board, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	current, err := rl.client.ZScore(ctx, board, member).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return err
	case current >= score:
		return nil
	}

	if err := rl.client.ZAdd(ctx, board, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return err
	}

	// Expiry counts from the last update.
	if rl.ttl > 0 {
		_ = rl.client.Expire(ctx, board, rl.ttl).Err()
	}
	return nil
}

// Top returns up to amount standings, best first.
func (rl *RedisLeaderboard) Top(ctx context.Context, board string, amount int64) ([]i.Standing, error) {
	if amount <= 0 {
		return nil, nil
	}
	zs, err := rl.client.ZRevRangeWithScores(ctx, board, 0, amount-1).Result()
	if err != nil {
		return nil, err
	}

	standings := make([]i.Standing, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		standings = append(standings, i.Standing{Member: member, Score: z.Score})
	}
	return standings, nil
}

// Rank returns the zero based rank of member, best first.
func (rl *RedisLeaderboard) Rank(ctx context.Context, board, member string) (int64, error) {
	rank, err := rl.client.ZRevRank(ctx, board, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotRanked
	}
	return rank, err
}
