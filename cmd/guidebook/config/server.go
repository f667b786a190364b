package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/guidebook-kb/guidebook"
)

var defaultServerConf = guidebook.ServerConf{
	IPListen: "0.0.0.0",
	Port:     5000,
}

func validateServerConf(s *guidebook.ServerConf) error {
	if s.Port <= 0 || s.Port > 65535 {
		return errors.Errorf("invalid port %d", s.Port)
	}
	if s.TLS.Enabled {
		if s.TLS.Cert == "" || s.TLS.Key == "" {
			return errors.New("tls.cert and tls.key must be set if tls is enabled")
		}
		for _, f := range []string{s.TLS.Cert, s.TLS.Key} {
			if !fileutils.FileExists(f) {
				return errors.Errorf("tls file '%s' does not exist", f)
			}
		}
	}
	return nil
}
