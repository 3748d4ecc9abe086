package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Free accounts are limited per calendar day (UTC). The counter key carries the
// date and expires after two days.
func dailyCountKey(accountID int64, day time.Time) string {
	return fmt.Sprintf("daily_surveys_%d_%s", accountID, day.UTC().Format(time.DateOnly))
}

func (h *Handler) dailyCount(ctx context.Context, accountID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	count, err := h.redisClient.Get(ctx, dailyCountKey(accountID, time.Now())).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}

func (h *Handler) incrementDailyCount(ctx context.Context, accountID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	key := dailyCountKey(accountID, time.Now())

	pipe := h.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int(incr.Val()), nil
}

func (h *Handler) releaseDailyCount(ctx context.Context, accountID int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.redisClient.Decr(ctx, dailyCountKey(accountID, time.Now())).Err()
}

func otpKey(username string) string {
	return fmt.Sprintf("otp_%s_reset_password", username)
}
