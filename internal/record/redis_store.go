package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"shopfront/pkg/domain"
)

const (
	tokensKey = "shopfront:session:tokens"
	userKey   = "shopfront:session:user"

	redisOpTimeout = 3 * time.Second
)

// RedisStore keeps the session record in Redis under two keys written and
// deleted together, so neither outlives the other.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed record store.
func NewRedisStore(addr, password string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (s *RedisStore) Save(ctx context.Context, rec SessionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	tokens, err := json.Marshal(rec.Tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.MSet(ctx, tokensKey, tokens, userKey, user).Err(); err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (SessionRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	vals, err := s.client.MGet(ctx, tokensKey, userKey).Result()
	if err != nil {
		return SessionRecord{}, false, fmt.Errorf("load session record: %w", err)
	}
	rawTokens, okTokens := vals[0].(string)
	rawUser, okUser := vals[1].(string)
	if !okTokens || !okUser {
		return SessionRecord{}, false, nil
	}
	var rec SessionRecord
	var tokens domain.TokenPair
	if err := json.Unmarshal([]byte(rawTokens), &tokens); err != nil {
		return SessionRecord{}, false, fmt.Errorf("decode tokens: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return SessionRecord{}, false, fmt.Errorf("decode user: %w", err)
	}
	rec.Tokens = tokens
	rec.User = user
	return rec, true, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := s.client.Del(ctx, tokensKey, userKey).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("clear session record: %w", err)
	}
	return nil
}
