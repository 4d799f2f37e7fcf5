package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const SessionTTL = time.Hour * 168

// SessionStore tracks which session ids are still live. Blocking a user
// revokes every session in one call, which is what invalidates their tokens.
type SessionStore interface {
	Register(ctx context.Context, userID uint, sessionID string) error
	IsLive(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, userID uint, sessionID string) error
	RevokeAll(ctx context.Context, userID uint) error
}

type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

func (s *RedisSessionStore) Register(ctx context.Context, userID uint, sessionID string) error {
	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), userID, SessionTTL)
	pipe.SAdd(ctx, userSessionsKey(userID), sessionID)
	pipe.Expire(ctx, userSessionsKey(userID), SessionTTL)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) IsLive(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()

	if err == redis.Nil {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, userID uint, sessionID string) error {
	pipe := s.Client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSessionsKey(userID), sessionID)

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) RevokeAll(ctx context.Context, userID uint) error {
	sessionIDs, err := s.Client.SMembers(ctx, userSessionsKey(userID)).Result()

	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.Client.TxPipeline()
	for _, sessionID := range sessionIDs {
		pipe.Del(ctx, sessionKey(sessionID))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}
