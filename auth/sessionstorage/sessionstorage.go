package sessionstorage

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Backend names
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config selects and configures the session storage backend
type Config struct {
	Backend string
	// redis
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	// badger
	BadgerDir string
}

// New returns the fiber.Storage for the configured backend. For the memory
// backend it returns nil, which makes the session middleware use its
// built-in memory storage.
func New(c Config) (fiber.Storage, error) {
	switch c.Backend {
	case "", BackendMemory:
		return nil, nil
	case BackendRedis:
		prefix := c.RedisPrefix
		if prefix == "" {
			prefix = "guidebook:session:"
		}
		s, err := NewRedisStorage(
			&redis.Options{
				Addr:     c.RedisAddr,
				Username: c.RedisUsername,
				Password: c.RedisPassword,
				DB:       c.RedisDB,
			}, prefix,
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := NewBadgerStorage(c.BadgerDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown session backend '%s'", c.Backend)
	}
}
