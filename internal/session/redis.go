package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "chizen-session||"
)

var ErrEmptySessionID = errors.New("empty session id")

// Redis keeps the token of one named session in redis, so several CLI
// runs (or processes) can share a login.
type Redis struct {
	redisClient *redis.Client
	sessionID   string
	ttl         time.Duration
}

func NewRedis(redisClient *redis.Client, sessionID string, ttl time.Duration) (*Redis, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	return &Redis{
		redisClient: redisClient,
		sessionID:   sessionID,
		ttl:         ttl,
	}, nil
}

func (r *Redis) key() string {
	return sessionKeyPrefix + r.sessionID
}

func (r *Redis) CurrentToken(ctx context.Context) (string, bool, error) {
	token, err := r.redisClient.Get(ctx, r.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session [%s]: %w", r.sessionID, err)
	}
	return token, token != "", nil
}

func (r *Redis) Store(ctx context.Context, token string) error {
	if err := r.redisClient.Set(ctx, r.key(), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session [%s]: %w", r.sessionID, err)
	}
	log.Debugf("session [%s] stored, ttl %s", r.sessionID, r.ttl)
	return nil
}

func (r *Redis) Clear(ctx context.Context) (bool, error) {
	deleted, err := r.redisClient.Del(ctx, r.key()).Result()
	if err != nil {
		return false, fmt.Errorf("clear session [%s]: %w", r.sessionID, err)
	}
	return deleted > 0, nil
}
