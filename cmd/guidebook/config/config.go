package config

import (
	"os"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/guidebook-kb/guidebook"
)

// Config holds the complete server configuration
type Config struct {
	Server          guidebook.ServerConf `yaml:"server"`
	Storage         storageConf          `yaml:"storage"`
	Sessions        sessionsConf         `yaml:"sessions"`
	PasswordHashing passwordHashingConf  `yaml:"password_hashing"`
	Search          searchConf           `yaml:"search"`
	API             apiConf              `yaml:"api"`
	Logging         loggingConf          `yaml:"logging"`
}

// EnvPort is the environment variable overriding server.port
const EnvPort = "PORT"

type configValidator interface {
	validate() error
}

var c *Config

func defaultConfig() Config {
	return Config{
		Server:          defaultServerConf,
		Storage:         defaultStorageConf,
		Sessions:        defaultSessionsConf,
		PasswordHashing: defaultPasswordHashingConf,
		API:             defaultAPIConf,
		Logging:         defaultLoggingConf,
	}
}

// Get returns the loaded Config
func Get() Config {
	if c == nil {
		return defaultConfig()
	}
	return *c
}

// Load reads the config file (if filename is not empty), applies defaults and
// environment overrides and validates the result
func Load(filename string) error {
	conf, err := load(filename)
	if err != nil {
		return err
	}
	c = conf
	return nil
}

func load(filename string) (*Config, error) {
	conf := defaultConfig()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrap(err, "could not read config file")
		}
		if err = yaml.Unmarshal(data, &conf); err != nil {
			return nil, errors.Wrap(err, "could not parse config file")
		}
	}
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Errorf("invalid %s '%s'", EnvPort, p)
		}
		conf.Server.Port = port
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (conf *Config) validate() error {
	if err := validateServerConf(&conf.Server); err != nil {
		return errors.Errorf("validation failed for field 'Server': %s", err.Error())
	}
	v := reflect.ValueOf(conf).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		if !fieldVal.CanAddr() {
			continue
		}
		if validator, ok := fieldVal.Addr().Interface().(configValidator); ok {
			if err := validator.validate(); err != nil {
				return errors.Errorf("validation failed for field '%s': %s", t.Field(i).Name, err.Error())
			}
		}
	}
	return nil
}
