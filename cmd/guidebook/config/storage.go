package config

import (
	"slices"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/guidebook-kb/guidebook/storage"
	"github.com/guidebook-kb/guidebook/storage/model"
)

type storageConf struct {
	Driver          storage.DriverType `yaml:"driver"`
	DataDir         string             `yaml:"data_dir"`
	ArticlesFile    string             `yaml:"articles_file"`
	UsersFile       string             `yaml:"users_file"`
	DSN             string             `yaml:"dsn"`
	storage.DSNConf `yaml:",inline"`
	Debug           bool `yaml:"debug"`
}

func (c *storageConf) validate() error {
	if !slices.Contains(storage.SupportedDrivers, c.Driver) {
		return errors.Errorf("error in storage conf: unsupported driver '%s'", c.Driver)
	}
	switch c.Driver {
	case storage.DriverJSON, storage.DriverSQLite:
		if c.DataDir == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		if !fileutils.FileExists(c.DataDir) {
			return errors.Errorf("error in storage conf: data_dir '%s' does not exist", c.DataDir)
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	Driver:       storage.DriverJSON,
	DataDir:      ".",
	ArticlesFile: storage.DefaultArticlesFile,
	UsersFile:    storage.DefaultUsersFile,
	DSNConf: storage.DSNConf{
		User: "guidebook",
		Host: "localhost",
		DB:   "guidebook",
	},
}

// LoadStorageBackends loads and returns the storage backends for the passed config
func LoadStorageBackends(c storageConf, hasher storage.PasswordHasher) (model.Backends, error) {
	backs, err := storage.LoadStorageBackends(
		storage.Config{
			Driver:       c.Driver,
			DSN:          c.DSN,
			DataDir:      c.DataDir,
			ArticlesFile: c.ArticlesFile,
			UsersFile:    c.UsersFile,
			Debug:        c.Debug,
			Hasher:       hasher,
		},
	)
	if err != nil {
		return model.Backends{}, err
	}
	log.WithField("driver", c.Driver).Info("Loaded storage backend")
	return backs, nil
}
