// Package logger sets up the application and access loggers.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	internalLogFile = "guidebook.log"
	accessLogFile   = "access.log"
)

// Conf configures one log output
type Conf struct {
	// Dir is the directory the log file is written to; empty disables the file
	Dir string `yaml:"dir"`
	// StdErr additionally (or, without Dir, exclusively) logs to stderr
	StdErr bool `yaml:"stderr"`
}

// Init configures the global logrus logger
func Init(conf Conf, level string) error {
	if level != "" {
		lvl, err := log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return errors.Wrapf(err, "invalid log level '%s'", level)
		}
		log.SetLevel(lvl)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	w, err := output(conf, internalLogFile)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)
	return nil
}

// AccessLogWriter returns the writer for the access log. It returns stderr
// if neither a directory nor stderr is configured.
func AccessLogWriter(conf Conf) (io.Writer, error) {
	w, err := output(conf, accessLogFile)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return os.Stderr, nil
	}
	return w, nil
}

func output(conf Conf, name string) (io.Writer, error) {
	var writers []io.Writer
	if conf.Dir != "" {
		f, err := os.OpenFile(filepath.Join(conf.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		writers = append(writers, f)
	}
	if conf.StdErr {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		return nil, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}
