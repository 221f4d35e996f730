package ratelimit

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// fixedWindowScript performs the whole read-and-increment as one atomic
// operation so two concurrent requests can never both observe count < max
// and both slip under the ceiling.
const fixedWindowScript = `
local max = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = redis.call("GET", KEYS[1])
if current == false then
  redis.call("SET", KEYS[1], 1, "PX", ttl)
  return {1, max - 1, ttl}
end

current = tonumber(current)
local pttl = redis.call("PTTL", KEYS[1])
if pttl < 0 then
  redis.call("SET", KEYS[1], 1, "PX", ttl)
  return {1, max - 1, ttl}
end

if current >= max then
  if current == max then
    redis.call("INCR", KEYS[1])
  end
  return {0, 0, pttl}
end

redis.call("INCR", KEYS[1])
return {1, max - current - 1, pttl}
`

// RedisLimiter backs the fixed window with a shared redis so the ceiling
// holds across replicas.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string, preset Preset) (Result, error) {
	if l == nil || l.client == nil {
		return Result{}, errors.New("rate limiter not configured")
	}
	if key == "" {
		return Result{}, errors.New("rate limiter key is empty")
	}
	if preset.Window <= 0 || preset.Max <= 0 {
		return Result{}, errors.New("rate limiter preset must be positive")
	}

	res, err := l.script.Run(
		ctx,
		l.client,
		[]string{"intake:rl:" + key},
		preset.Max,
		preset.Window.Milliseconds(),
	).Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) < 3 {
		return Result{}, errors.New("invalid rate limit script response")
	}

	allowed := castToInt(res[0]) == 1
	remaining := int(castToInt(res[1]))
	resetIn := time.Duration(castToInt(res[2])) * time.Millisecond

	return Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   time.Now().Add(resetIn),
	}, nil
}

func castToInt(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
