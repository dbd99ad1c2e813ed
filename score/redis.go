package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Scores live in one sorted set so the leaderboard is a
// single range query.
const (
	redisLeaderboardKey = "globe:leaderboard"
	redisUsernamesKey   = "globe:usernames"
	redisUpdatedKey     = "globe:updated"
	redisLocationPrefix = "globe:location:"

	redisTxRetries = 5
)

// OpenRedis creates a client for addr. It does not connect until first use.
func OpenRedis(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// RedisStore keeps scores in a Redis sorted set and locations as JSON
// strings.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) SaveScore(ctx context.Context, userID, username string, score int64) (SaveResult, error) {
	if err := CheckID("user id", userID); err != nil {
		return SaveResult{}, err
	}
	if score < 0 {
		return SaveResult{}, fmt.Errorf("score: negative score %d", score)
	}

	name := CleanUsername(username)
	var res SaveResult
	save := func(tx *redis.Tx) error {
		prev, err := tx.ZScore(ctx, redisLeaderboardKey, userID).Result()
		had := true
		if errors.Is(err, redis.Nil) {
			had = false
		} else if err != nil {
			return err
		}
		res = SaveResult{Previous: int64(prev), NewBest: !had || float64(score) > prev}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, redisUsernamesKey, userID, name)
			if res.NewBest {
				pipe.ZAdd(ctx, redisLeaderboardKey, redis.Z{Score: float64(score), Member: userID})
				pipe.HSet(ctx, redisUpdatedKey, userID, s.now().UTC().Format(time.RFC3339Nano))
			}
			return nil
		})
		return err
	}

	var err error
	for range redisTxRetries {
		err = s.rdb.Watch(ctx, save, redisLeaderboardKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return SaveResult{}, fmt.Errorf("score: save %s: %w", userID, err)
	}

	res.Entry, err = s.Score(ctx, userID)
	if err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

func (s *RedisStore) Score(ctx context.Context, userID string) (Entry, error) {
	v, err := s.rdb.ZScore(ctx, redisLeaderboardKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("score: read %s: %w", userID, err)
	}
	meta, err := s.rdb.HMGet(ctx, redisUsernamesKey, userID).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("score: read %s: %w", userID, err)
	}
	e := Entry{UserID: userID, Username: AnonymousName, Score: int64(v)}
	if name, ok := meta[0].(string); ok {
		e.Username = name
	}
	if ts, err := s.rdb.HGet(ctx, redisUpdatedKey, userID).Result(); err == nil {
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return e, nil
}

func (s *RedisStore) Leaderboard(ctx context.Context, limit int) ([]Entry, error) {
	n := ClampLimit(limit)
	zs, err := s.rdb.ZRevRangeWithScores(ctx, redisLeaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("score: leaderboard: %w", err)
	}
	if len(zs) == 0 {
		return []Entry{}, nil
	}
	ids := make([]string, len(zs))
	for i, z := range zs {
		ids[i], _ = z.Member.(string)
	}
	names, err := s.rdb.HMGet(ctx, redisUsernamesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("score: leaderboard names: %w", err)
	}
	stamps, err := s.rdb.HMGet(ctx, redisUpdatedKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("score: leaderboard times: %w", err)
	}
	out := make([]Entry, len(zs))
	for i, z := range zs {
		out[i] = Entry{UserID: ids[i], Username: AnonymousName, Score: int64(z.Score)}
		if name, ok := names[i].(string); ok {
			out[i].Username = name
		}
		if ts, ok := stamps[i].(string); ok {
			out[i].UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		}
	}
	SortEntries(out)
	return out, nil
}

func (s *RedisStore) SaveLocation(ctx context.Context, key string, loc Location) error {
	if err := CheckID("location key", key); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = s.now().UTC()
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("score: encode location: %w", err)
	}
	if err := s.rdb.Set(ctx, redisLocationPrefix+key, b, 0).Err(); err != nil {
		return fmt.Errorf("score: save location %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Location(ctx context.Context, key string) (Location, error) {
	b, err := s.rdb.Get(ctx, redisLocationPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Location{}, ErrNotFound
	}
	if err != nil {
		return Location{}, fmt.Errorf("score: read location %s: %w", key, err)
	}
	var loc Location
	if err := json.Unmarshal(b, &loc); err != nil {
		return Location{}, fmt.Errorf("score: decode location %s: %w", key, err)
	}
	return loc, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
