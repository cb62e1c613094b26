package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateDecision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

// tokenBucketScript keeps one hash per key: tokens and the last refill time in ms.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
  tokens = capacity
  last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
  local elapsed = math.max(0, now_ms - last_refill)
  local intervals = math.floor(elapsed / interval_ms)
  if intervals > 0 then
    tokens = math.min(capacity, tokens + (intervals * refill_tokens))
    last_refill = last_refill + (intervals * interval_ms)
  end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

type RedisRateLimiter struct {
	rdb redis.Scripter
	cfg config.RateLimitConfig
}

func NewRedisRateLimiter(rdb redis.Scripter, cfg config.RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, cfg: cfg}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	args := []any{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}
	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{l.cfg.Prefix + ":" + key}, args...).Int64Slice()
	if err != nil {
		return RateDecision{}, err
	}
	if len(vals) != 3 {
		return RateDecision{}, fmt.Errorf("unexpected token bucket result: %v", vals)
	}
	return RateDecision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// LocalRateLimiter is the in-process bucket used when Redis is disabled.
// Buckets are per key and never shared between replicas.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLocalRateLimiter(cfg config.RateLimitConfig) *LocalRateLimiter {
	every := cfg.RefillInterval
	if cfg.RefillTokens > 1 {
		every = cfg.RefillInterval / time.Duration(cfg.RefillTokens)
	}
	return &LocalRateLimiter{
		limiters: map[string]*rate.Limiter{},
		limit:    rate.Every(every),
		burst:    cfg.Capacity,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string) (RateDecision, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	now := time.Now()
	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return RateDecision{Allowed: false, RetryAfter: delay}, nil
	}
	return RateDecision{Allowed: true, Remaining: int64(lim.TokensAt(now))}, nil
}

// RateLimit fails open when the limiter itself errors.
func RateLimit(limiter RateLimiter, capacity int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateKey(c)
		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable", "key", key, "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(decision.Remaining, 0), 10))

		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Rate limit exceeded",
				gin.H{"retryAfter": secs})
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	uid := "anon"
	if id, ok := GetUserID(c); ok {
		uid = id.String()
	}
	return strings.Join([]string{"ip", c.ClientIP(), "user", uid, "route", c.Request.Method + " " + c.FullPath()}, ":")
}
