package config

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"

	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/auth/sessionstorage"
)

// sessionsConf configures the login sessions.
//
// YAML example:
//
//	sessions:
//	  backend: redis
//	  cookie_name: session
//	  lifetime: 12h
//	  redis:
//	    addr: localhost:6379
type sessionsConf struct {
	Backend      string                  `yaml:"backend"`
	CookieName   string                  `yaml:"cookie_name"`
	Lifetime     duration.DurationOption `yaml:"lifetime"`
	SecureCookie bool                    `yaml:"secure_cookie"`
	Redis        redisSessionConf        `yaml:"redis"`
	Badger       badgerSessionConf       `yaml:"badger"`
}

type redisSessionConf struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type badgerSessionConf struct {
	Dir string `yaml:"dir"`
}

var defaultSessionsConf = sessionsConf{
	Backend:    sessionstorage.BackendMemory,
	CookieName: "session",
	Lifetime:   duration.DurationOption(24 * time.Hour),
}

func (c *sessionsConf) validate() error {
	switch c.Backend {
	case "", sessionstorage.BackendMemory:
	case sessionstorage.BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("error in sessions conf: redis.addr must be specified")
		}
	case sessionstorage.BackendBadger:
		if c.Badger.Dir == "" {
			return errors.New("error in sessions conf: badger.dir must be specified")
		}
	default:
		return errors.Errorf("error in sessions conf: unknown backend '%s'", c.Backend)
	}
	if c.Lifetime.Duration() < 0 {
		return errors.New("error in sessions conf: lifetime must not be negative")
	}
	return nil
}

// LoadSessionStorage creates the configured session storage; it returns nil
// for in-memory sessions
func LoadSessionStorage(c sessionsConf) (fiber.Storage, error) {
	s, err := sessionstorage.New(
		sessionstorage.Config{
			Backend:       c.Backend,
			RedisAddr:     c.Redis.Addr,
			RedisUsername: c.Redis.Username,
			RedisPassword: c.Redis.Password,
			RedisDB:       c.Redis.DB,
			RedisPrefix:   c.Redis.Prefix,
			BadgerDir:     c.Badger.Dir,
		},
	)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", c.Backend).Info("Loaded session storage")
	return s, nil
}

// SessionOptions returns the auth.SessionOptions for the config and storage
func SessionOptions(c sessionsConf, s fiber.Storage) auth.SessionOptions {
	return auth.SessionOptions{
		CookieName: c.CookieName,
		Lifetime:   c.Lifetime.Duration(),
		Secure:     c.SecureCookie,
		Storage:    s,
	}
}
