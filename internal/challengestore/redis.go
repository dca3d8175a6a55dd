package challengestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/group"
)

// RedisStore is the production Store backing: entries are plain Redis
// strings under the "zkp:challenge:<id>" key namespace (spec §6), with
// Redis' own TTL enforcing expiry and a single DEL call providing the
// atomic, presence-reporting delete spec §4.3 requires — DEL on an absent
// key returns 0 regardless of how many racing callers invoke it, so at
// most one caller ever observes wasPresent=true.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle (Close).
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(id string) string {
	return common.ChallengeKeyPrefix + id
}

// encode renders a Record as "username:R_hex:c_hex", matching the wire
// format spec §6 documents for persisted challenge entries.
func encode(rec Record) string {
	return fmt.Sprintf("%s:%s:%s", rec.Username, group.EncodeHex(rec.R), group.EncodeHex(rec.C))
}

func decode(s string) (Record, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Record{}, fmt.Errorf("challengestore: malformed stored value %q", s)
	}
	r, err := group.DecodeHex(parts[1])
	if err != nil {
		return Record{}, fmt.Errorf("challengestore: bad R: %w", err)
	}
	c, err := group.DecodeHex(parts[2])
	if err != nil {
		return Record{}, fmt.Errorf("challengestore: bad c: %w", err)
	}
	return Record{Username: parts[0], R: r, C: c}, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key(id), encode(rec), ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", common.ErrDependencyUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, bool, error) {
	v, err := s.rdb.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("%w: redis get: %v", common.ErrDependencyUnavailable, err)
	}
	rec, err := decode(v)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis del: %v", common.ErrDependencyUnavailable, err)
	}
	return n > 0, nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
