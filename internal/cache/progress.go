package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adanepro/spotlightacademy-sub000/internal/logger"
	"github.com/adanepro/spotlightacademy-sub000/internal/utils"
)

const progressTTL = 10 * time.Minute

// ProgressCache is a best-effort read-through cache over computed enrollment
// progress. A nil *ProgressCache is valid and disables caching; every error
// is logged and swallowed so redis can never fail a request.
type ProgressCache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewProgressCache(log *logger.Logger) *ProgressCache {
	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, progress cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetEnv("REDIS_PASSWORD", "", log),
	})
	return &ProgressCache{client: client, log: log.With("service", "ProgressCache")}
}

func key(enrollmentID uuid.UUID) string {
	return "enrollment_progress:" + enrollmentID.String()
}

func (c *ProgressCache) Get(ctx context.Context, enrollmentID uuid.UUID) (float64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key(enrollmentID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Progress cache get failed", "error", err, "enrollment_id", enrollmentID)
		}
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (c *ProgressCache) Set(ctx context.Context, enrollmentID uuid.UUID, progress float64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key(enrollmentID), strconv.FormatFloat(progress, 'f', 2, 64), progressTTL).Err(); err != nil {
		c.log.Warn("Progress cache set failed", "error", err, "enrollment_id", enrollmentID)
	}
}

func (c *ProgressCache) Invalidate(ctx context.Context, enrollmentID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(enrollmentID)).Err(); err != nil {
		c.log.Warn("Progress cache invalidate failed", "error", err, "enrollment_id", enrollmentID)
	}
}
