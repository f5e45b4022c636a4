package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// IsLogged resolves the session token to the owning user id.
// An unknown or expired token is not an error, it simply yields logged = false.
func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (userID int, logged bool, err error) {
	cmd := lc.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	userID, createdAt, err := parseSession(cmd.Val())
	if err != nil {
		return 0, false, err
	}

	if time.Since(createdAt) > lc.ttl {
		return 0, false, nil
	}

	return userID, true, nil
}
