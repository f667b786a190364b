package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/guidebook-kb/guidebook"
	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/cmd/guidebook/config"
	"github.com/guidebook-kb/guidebook/internal/logger"
	"github.com/guidebook-kb/guidebook/internal/version"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	if err := config.Load(configFile); err != nil {
		log.WithError(err).Fatal("could not load config")
	}
	c := config.Get()
	if err := logger.Init(c.Logging.Internal.Conf, c.Logging.Internal.Level); err != nil {
		log.WithError(err).Fatal("could not init logger")
	}
	log.WithField("version", version.VERSION).Info("Loaded Config")

	hasher, err := c.PasswordHashing.Hasher()
	if err != nil {
		log.Fatal(err)
	}
	backs, err := config.LoadStorageBackends(c.Storage, hasher)
	if err != nil {
		log.WithError(err).Fatal("could not load storage backends")
	}
	if n, err := backs.Users.Count(); err != nil {
		log.WithError(err).Fatal("could not count users")
	} else if n == 0 {
		log.Warn("No users registered; create an admin with 'gbcli useradd --role admin'")
	}

	sessionStorage, err := config.LoadSessionStorage(c.Sessions)
	if err != nil {
		log.WithError(err).Fatal("could not init session storage")
	}
	gate := auth.NewGate(
		auth.NewSessionStore(config.SessionOptions(c.Sessions, sessionStorage)),
		backs.Users, hasher,
	)

	accessLog, err := logger.AccessLogWriter(c.Logging.Access)
	if err != nil {
		log.WithError(err).Fatal("could not open access log")
	}
	gb, err := guidebook.New(
		c.Server, backs, gate, guidebook.Options{
			SearchRequiresLogin: c.Search.RequireLogin,
			AdminAPI:            c.API.Admin.Enabled,
			AccessLog:           accessLog,
		},
	)
	if err != nil {
		log.WithError(err).Fatal("could not create server")
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("Shutting down")
		if err := gb.Shutdown(); err != nil {
			log.WithError(err).Error("error during shutdown")
		}
		if sessionStorage != nil {
			if err := sessionStorage.Close(); err != nil {
				log.WithError(err).Error("could not close session storage")
			}
		}
	}()

	if err = gb.Start(); err != nil {
		log.Fatal(err)
	}
}
