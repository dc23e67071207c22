package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "goreview/internal/errors"
)

// Срок хранения загруженной партии. Результаты анализа живут только
// в объекте сессии, в Redis лежит лишь исходный SGF.
const sessionTTL = 24 * time.Hour

type RedisSessionStorage struct {
	client *redis.Client
}

func NewSessionRedisStorage(redis *redis.Client) *RedisSessionStorage {
	c := &RedisSessionStorage{
		client: redis,
	}
	return c
}

func sessionKey(sessionID string) string {
	return "analysis:" + sessionID
}

func (r *RedisSessionStorage) SaveSGF(ctx context.Context, sessionID string, sgfText string, player string) error {
	key := sessionKey(sessionID)
	if err := r.client.HSet(ctx, key, "sgf", sgfText, "player", player).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, sessionTTL).Err()
}

func (r *RedisSessionStorage) LoadSGF(ctx context.Context, sessionID string) (sgfText string, player string, err error) {
	vals, err := r.client.HMGet(ctx, sessionKey(sessionID), "sgf", "player").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", "", fmt.Errorf("%w: analysis session %s", apperrors.ErrNotFound, sessionID)
		}
		return "", "", err
	}

	sgfText, ok := vals[0].(string)
	if !ok || sgfText == "" {
		return "", "", fmt.Errorf("%w: analysis session %s", apperrors.ErrNotFound, sessionID)
	}
	player, _ = vals[1].(string)
	return sgfText, player, nil
}

func (r *RedisSessionStorage) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
