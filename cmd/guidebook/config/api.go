package config

import (
	"github.com/guidebook-kb/guidebook/storage"
)

// apiConf holds API-related configuration
type apiConf struct {
	Admin adminAPIConf `yaml:"admin"`
}

type adminAPIConf struct {
	Enabled bool `yaml:"enabled"`
}

var defaultAPIConf = apiConf{
	Admin: adminAPIConf{
		Enabled: true,
	},
}

// searchConf configures the search endpoint
type searchConf struct {
	// RequireLogin closes /buscar for anonymous callers; it is open by default
	RequireLogin bool `yaml:"require_login"`
}

type passwordHashingConf struct {
	Algorithm string                 `yaml:"algorithm"`
	Argon2id  storage.Argon2idParams `yaml:"argon2id"`
}

var defaultPasswordHashingConf = passwordHashingConf{
	Algorithm: storage.HashSHA256,
	Argon2id: storage.Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
		SaltLen:     16,
	},
}

func (c *passwordHashingConf) validate() error {
	_, err := c.Hasher()
	return err
}

// Hasher returns the configured storage.PasswordHasher
func (c passwordHashingConf) Hasher() (storage.PasswordHasher, error) {
	return storage.NewPasswordHasher(c.Algorithm, c.Argon2id)
}
